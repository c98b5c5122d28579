package sheet

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Rest thresholds for the settle spring. Once both position error and
// velocity drop below these, the animation reports done and the controller
// pins the position to the exact snap value.
const (
	restPositionTolerance = 0.5  // units
	restVelocityTolerance = 20.0 // units/second
)

// animation advances the card position over time. step returns the position
// for the given instant and whether the animation has finished.
type animation interface {
	step(now time.Time, cfg Config) (pos float64, done bool)
}

// springAnimation settles toward a snap point with a damped spring, so the
// release velocity carries through into the motion's initial momentum.
type springAnimation struct {
	spring harmonica.Spring
	target float64
	pos    float64
	vel    float64 // units/second, harmonica's native scale
	last   time.Time
}

func newSpringAnimation(now time.Time, cfg Config, pos, target, velPerMS float64) *springAnimation {
	return &springAnimation{
		spring: harmonica.NewSpring(harmonica.FPS(cfg.StepRate), cfg.SpringFrequency, cfg.SpringDamping),
		target: target,
		pos:    pos,
		vel:    velPerMS * 1000,
		last:   now,
	}
}

func (a *springAnimation) step(now time.Time, cfg Config) (float64, bool) {
	frame := time.Second / time.Duration(cfg.StepRate)
	for !now.Before(a.last.Add(frame)) {
		a.last = a.last.Add(frame)
		a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
		if math.Abs(a.pos-a.target) < restPositionTolerance && math.Abs(a.vel) < restVelocityTolerance {
			return a.target, true
		}
	}
	return a.pos, false
}

// easeAnimation is the fixed-duration close slide: deterministic timing with
// an ease-out curve, used instead of a spring so dismissal always feels the
// same regardless of how the card was released.
type easeAnimation struct {
	from  float64
	to    float64
	start time.Time
	dur   time.Duration
}

func (a *easeAnimation) step(now time.Time, _ Config) (float64, bool) {
	if a.dur <= 0 {
		return a.to, true
	}
	t := float64(now.Sub(a.start)) / float64(a.dur)
	if t >= 1 {
		return a.to, true
	}
	if t < 0 {
		t = 0
	}
	return a.from + (a.to-a.from)*easeOutCubic(t), false
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
