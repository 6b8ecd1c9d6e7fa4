package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/event"
	"github.com/Faultbox/orrery/internal/logger"
)

type headlessConfig struct {
	Width  int
	Height int
	Frames int // 0 runs until ctx is cancelled
}

// headlessStep is the fixed simulation step used without a display.
const headlessStep = float32(1.0 / 60)

// runHeadless ticks the explorer with a fixed step and logs what a display
// host would have shown. It is used for smoke runs and metrics scraping.
func runHeadless(ctx context.Context, a *app, cfg headlessConfig) error {
	a.explorer.SetViewport(cfg.Width, cfg.Height)
	log := logger.Named("headless")

	start := time.Now()
	hovers := 0
	for frame := 1; cfg.Frames == 0 || frame <= cfg.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := a.explorer.Tick(headlessStep)
		hovers += event.Count(res.Events, event.HoverStart)
		for _, ev := range res.Events {
			log.Debug("explorer event", zap.Int("frame", frame), zap.Stringer("event", ev))
		}
		if res.RadarUpdated && frame%60 == 0 {
			log.Debug("radar",
				zap.Int("frame", frame),
				zap.Int("indicators", len(res.Indicators)),
				zap.String("mode", res.Mode.String()),
			)
		}
	}

	log.Info("headless run finished",
		zap.Int("frames", cfg.Frames),
		zap.Int("hovers", hovers),
		zap.Duration("elapsed", time.Since(start)),
		zap.Any("pose", a.explorer.Pose().Position),
	)
	return nil
}
