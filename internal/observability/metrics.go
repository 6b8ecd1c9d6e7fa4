// Package observability exposes frame-loop metrics for Prometheus.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Faultbox/orrery/internal/event"
)

// FrameCollector records per-tick explorer metrics. All methods are safe
// on a nil receiver so callers can run without metrics.
type FrameCollector struct {
	gatherer prometheus.Gatherer

	Frames            *prometheus.CounterVec
	SkippedFrames     prometheus.Counter
	TickDuration      prometheus.Histogram
	HoverTransitions  *prometheus.CounterVec
	Selections        prometheus.Counter
	VisibleIndicators prometheus.Gauge
	FocusSessions     prometheus.Counter
}

// NewFrameCollector registers frame metrics against the provided registerer.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_frames_total",
		Help: "Frames ticked, by the camera mode that drove the pose.",
	}, []string{"mode"})
	frames, err := registerCounterVec(reg, frames, "orrery_frames_total")
	if err != nil {
		return nil, err
	}

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_skipped_total",
		Help: "Frames skipped because the viewport was not ready.",
	})
	skipped, err = registerCounter(reg, skipped, "orrery_frames_skipped_total")
	if err != nil {
		return nil, err
	}

	tick := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_tick_duration_seconds",
		Help:    "Wall time spent in one explorer tick.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016},
	})
	tick, err = registerHistogram(reg, tick, "orrery_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	hover := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_hover_transitions_total",
		Help: "Hover notifications emitted by the picker.",
	}, []string{"kind"})
	hover, err = registerCounterVec(reg, hover, "orrery_hover_transitions_total")
	if err != nil {
		return nil, err
	}

	selections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_selections_total",
		Help: "Click-to-select writes applied to the selection store.",
	})
	selections, err = registerCounter(reg, selections, "orrery_selections_total")
	if err != nil {
		return nil, err
	}

	visible := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_radar_visible_indicators",
		Help: "Off-screen indicators shown by the last radar update.",
	})
	visible, err = registerGauge(reg, visible, "orrery_radar_visible_indicators")
	if err != nil {
		return nil, err
	}

	sessions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_focus_sessions_total",
		Help: "Focus sessions started.",
	})
	sessions, err = registerCounter(reg, sessions, "orrery_focus_sessions_total")
	if err != nil {
		return nil, err
	}

	return &FrameCollector{
		gatherer:          gatherer,
		Frames:            frames,
		SkippedFrames:     skipped,
		TickDuration:      tick,
		HoverTransitions:  hover,
		Selections:        selections,
		VisibleIndicators: visible,
		FocusSessions:     sessions,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *FrameCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FrameCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame records one completed tick.
func (c *FrameCollector) ObserveFrame(mode string, d time.Duration) {
	if c == nil || c.Frames == nil || c.TickDuration == nil {
		return
	}
	c.Frames.WithLabelValues(mode).Inc()
	c.TickDuration.Observe(d.Seconds())
}

// IncSkippedFrames counts a frame skipped for an unready viewport.
func (c *FrameCollector) IncSkippedFrames() {
	if c == nil || c.SkippedFrames == nil {
		return
	}
	c.SkippedFrames.Inc()
}

// ObserveEvents counts hover transitions and selections in one frame's
// events.
func (c *FrameCollector) ObserveEvents(events []event.Event) {
	if c == nil || c.HoverTransitions == nil || c.Selections == nil {
		return
	}
	for _, e := range events {
		switch e.Kind {
		case event.HoverStart, event.HoverEnd:
			c.HoverTransitions.WithLabelValues(e.Kind.String()).Inc()
		case event.Select:
			c.Selections.Inc()
		}
	}
}

// SetVisibleIndicators updates the radar indicator gauge.
func (c *FrameCollector) SetVisibleIndicators(count int) {
	if c == nil || c.VisibleIndicators == nil {
		return
	}
	c.VisibleIndicators.Set(float64(count))
}

// IncFocusSessions counts a started focus session.
func (c *FrameCollector) IncFocusSessions() {
	if c == nil || c.FocusSessions == nil {
		return
	}
	c.FocusSessions.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
