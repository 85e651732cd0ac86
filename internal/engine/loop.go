package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Stats are refreshed by the loop every iteration.
type Stats struct {
	Ticks     uint64
	Frames    uint64
	TPS       float64
	FPS       float64
	FrameSkip int // draws skipped in a row to catch up on ticks
	LastJobs  int // render jobs presented by the last frame
}

// pacer tracks the tick and draw deadlines of the fixed-rate loop. Times are
// offsets from the loop start.
type pacer struct {
	tick       time.Duration
	draw       time.Duration
	maxSkipped int
	maxLag     time.Duration

	nextTick time.Duration
	nextDraw time.Duration
	lastTick time.Duration
	lastDraw time.Duration
	skipped  int
}

func (e *Engine) newPacer() *pacer {
	p := &pacer{
		tick:       e.cfg.TickInterval(),
		draw:       e.cfg.DrawInterval(),
		maxSkipped: e.cfg.MaxSkippedFrames,
		maxLag:     e.cfg.MaxLag,
	}
	p.nextTick = p.tick
	p.nextDraw = p.draw
	return p
}

// advance runs the tick and frame due at now and returns how long the loop
// may sleep. Ticks take priority: a due frame is skipped while ticks are
// behind, at most maxSkipped times in a row. A lag above maxLag is dropped
// instead of replayed.
func (e *Engine) advance(p *pacer, now time.Duration) time.Duration {
	if now-p.nextTick > p.maxLag {
		e.log.Debug("dropping tick lag", zap.Duration("lag", now-p.nextTick))
		p.nextTick = now
	}
	if now-p.nextDraw > p.maxLag {
		p.nextDraw = now
	}

	worked := false
	if now >= p.nextTick {
		delta := min(now-p.lastTick, p.maxLag)
		if delta > 0 {
			e.stats.TPS = float64(time.Second) / float64(delta)
		}
		p.lastTick = now
		p.nextTick += p.tick
		e.Update(delta)
		worked = true
	}

	if now >= p.nextDraw {
		if now < p.nextTick || p.skipped >= p.maxSkipped {
			if d := now - p.lastDraw; d > 0 {
				e.stats.FPS = float64(time.Second) / float64(d)
			}
			p.lastDraw = now
			e.Draw()
			p.skipped = 0
			p.nextDraw += p.draw
			worked = true
		} else {
			p.skipped++
		}
	}
	e.stats.FrameSkip = p.skipped

	if worked {
		return 0
	}
	return max(min(p.nextTick, p.nextDraw)-now, 0)
}

// Run drives Update and Draw at the configured rates until ctx is cancelled
// or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	p := e.newPacer()
	e.log.Info("game loop started",
		zap.Duration("tick", p.tick),
		zap.Duration("draw", p.draw),
		zap.Int("max_skipped_frames", p.maxSkipped),
		zap.Stringers("phases", e.runner.Phases()),
	)
	defer func() {
		e.log.Info("game loop stopped",
			zap.Uint64("ticks", e.stats.Ticks),
			zap.Uint64("frames", e.stats.Frames),
		)
	}()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	start := time.Now()
	for !e.Stopped() {
		if ctx.Err() != nil {
			return nil
		}
		wait := e.advance(p, time.Since(start))
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
	return nil
}
