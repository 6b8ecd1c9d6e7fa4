package event

import "testing"

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewHoverStart("mars"), "hover-start(mars)"},
		{NewHoverEnd(), "hover-end"},
		{NewSelect("venus"), "select(venus)"},
		{Event{Kind: Kind(42)}, "kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	events := []Event{NewHoverStart("a"), NewHoverEnd(), NewHoverStart("b")}
	if got := Count(events, HoverStart); got != 2 {
		t.Errorf("Count(HoverStart) = %d, want 2", got)
	}
	if got := Count(events, Select); got != 0 {
		t.Errorf("Count(Select) = %d, want 0", got)
	}
}
