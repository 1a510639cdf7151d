// Package ff implements the force-feedback Effect Definitions (C3) and the
// in-process FF Device Emulator (C4): a bounded set of effect definitions
// scheduled with independent per-effect clocks, muted/paused orthogonally,
// sampled into a per-axis magnitude vector.
package ff

import (
	"math"
	"time"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
)

// Kind identifies which nominal waveform family an Effect uses.
type Kind int

const (
	Constant Kind = iota
	Ramp
	SquareWave
	SineWave
	TriangleWave
	SawtoothUp
	SawtoothDown
	Custom
)

// Envelope is a piecewise-linear attenuation: an attack ramp from
// AttackLevel to the nominal value over AttackTime, a sustain at nominal,
// and a fade from nominal to FadeLevel over FadeTime ending at the
// effect's duration.
type Envelope struct {
	AttackLevel float64
	AttackTime  int64 // milliseconds
	FadeLevel   float64
	FadeTime    int64 // milliseconds
}

// apply blends nominal with the envelope's attack/fade levels. duration is
// the effect's total duration in ms; durationInfinite disables the fade leg
// (there is no end to fade into).
func (e *Envelope) apply(tLocal int64, nominal float64, durationMS int64, durationInfinite bool) float64 {
	if e == nil {
		return nominal
	}
	if e.AttackTime > 0 && tLocal < e.AttackTime {
		frac := float64(tLocal) / float64(e.AttackTime)
		return e.AttackLevel + (nominal-e.AttackLevel)*frac
	}
	if !durationInfinite && e.FadeTime > 0 {
		fadeStart := durationMS - e.FadeTime
		if tLocal >= fadeStart {
			frac := float64(tLocal-fadeStart) / float64(e.FadeTime)
			return nominal + (e.FadeLevel-nominal)*frac
		}
	}
	return nominal
}

// ConstantParams parameterizes a Constant effect.
type ConstantParams struct {
	Magnitude float64
}

// RampParams parameterizes a Ramp effect; requires a finite duration.
type RampParams struct {
	StartMagnitude float64
	EndMagnitude   float64
}

// PeriodicParams parameterizes the periodic effect family.
type PeriodicParams struct {
	Magnitude   float64
	Offset      float64
	PeriodMS    int64
	PhaseMS     int64
}

// CustomParams parameterizes a piecewise-sampled custom waveform. Samples
// are expressed directly on the +/-element.MaxMagnitude scale.
type CustomParams struct {
	Samples      []float64
	SamplePeriod time.Duration
}

// Effect is a parameterised, time-addressable force function. Identity
// (ID) is immutable; every other field may be updated in place by
// Device.AddOrUpdateEffect.
type Effect struct {
	id uint64

	Kind Kind

	DurationMS       int64
	DurationInfinite bool
	SamplePeriod     time.Duration
	StartDelayMS     int64
	Gain             float64 // 0..element.MaxGain
	Direction        []float64
	Axes             []element.Axis
	Envelope         *Envelope

	Constant *ConstantParams
	Ramp     *RampParams
	Periodic *PeriodicParams
	Custom   *CustomParams
}

// NewEffect builds an Effect with the given id and full gain. A negative
// duration is InvalidArgument; the remaining invariants (declared axes,
// periods, envelope times) are checked by Validate, not here.
func NewEffect(id uint64, kind Kind, durationMS int64, durationInfinite bool) (*Effect, error) {
	if durationMS < 0 {
		return nil, coreerr.New(coreerr.InvalidArgument, "ff.NewEffect", "duration %d is negative", durationMS)
	}
	return &Effect{
		id:               id,
		Kind:             kind,
		DurationMS:       durationMS,
		DurationInfinite: durationInfinite,
		Gain:             element.MaxGain,
	}, nil
}

// Validate checks the invariants spec.md §4.3 requires before an effect is
// accepted by a Device: duration >= 0 (already enforced at construction),
// a positive sample period on Periodic/Custom kinds, envelope times within
// a finite duration, and at least one declared axis.
func (e *Effect) Validate() error {
	if len(e.Axes) == 0 {
		return coreerr.New(coreerr.InvalidArgument, "Effect.Validate", "effect %d declares no axes", e.id)
	}
	if (e.Kind == SquareWave || e.Kind == SineWave || e.Kind == TriangleWave ||
		e.Kind == SawtoothUp || e.Kind == SawtoothDown) && e.Periodic != nil && e.Periodic.PeriodMS <= 0 {
		return coreerr.New(coreerr.InvalidArgument, "Effect.Validate", "effect %d periodic period must be positive", e.id)
	}
	if e.Kind == Custom && e.SamplePeriod <= 0 {
		return coreerr.New(coreerr.InvalidArgument, "Effect.Validate", "effect %d custom sample period must be positive", e.id)
	}
	if e.Envelope != nil && !e.DurationInfinite {
		if e.Envelope.AttackTime+e.Envelope.FadeTime > e.DurationMS {
			return coreerr.New(coreerr.InvalidArgument, "Effect.Validate", "effect %d envelope attack+fade exceeds duration", e.id)
		}
	}
	return nil
}

// ID returns the effect's immutable identity.
func (e *Effect) ID() uint64 { return e.id }

// Clone returns a deep, independently owned copy, preserving identity.
func (e *Effect) Clone() *Effect {
	c := *e
	if e.Direction != nil {
		c.Direction = append([]float64(nil), e.Direction...)
	}
	if e.Axes != nil {
		c.Axes = append([]element.Axis(nil), e.Axes...)
	}
	if e.Envelope != nil {
		env := *e.Envelope
		c.Envelope = &env
	}
	if e.Constant != nil {
		v := *e.Constant
		c.Constant = &v
	}
	if e.Ramp != nil {
		v := *e.Ramp
		c.Ramp = &v
	}
	if e.Periodic != nil {
		v := *e.Periodic
		c.Periodic = &v
	}
	if e.Custom != nil {
		v := *e.Custom
		c.Custom = &v
		c.Custom.Samples = append([]float64(nil), e.Custom.Samples...)
	}
	return &c
}

// MagnitudeAt computes the effect's output at a local time (already offset
// by start time and start delay, per the shared time transform in
// spec.md §4.3). The return value is bounded by [-element.MaxMagnitude,
// +element.MaxMagnitude]. complete reports whether tLocal has reached the
// effect's duration (always false for an infinite-duration effect).
func (e *Effect) MagnitudeAt(tLocal int64) (value float64, complete bool) {
	if tLocal < 0 {
		tLocal = 0
	}
	if !e.DurationInfinite && tLocal >= e.DurationMS {
		complete = true
	}
	nominal := e.nominal(tLocal)
	shaped := e.Envelope.apply(tLocal, nominal, e.DurationMS, e.DurationInfinite)
	scaled := shaped * e.Gain / element.MaxGain
	if scaled > element.MaxMagnitude {
		scaled = element.MaxMagnitude
	}
	if scaled < -element.MaxMagnitude {
		scaled = -element.MaxMagnitude
	}
	return scaled, complete
}

func (e *Effect) nominal(tLocal int64) float64 {
	switch e.Kind {
	case Constant:
		if e.Constant == nil {
			return 0
		}
		return e.Constant.Magnitude
	case Ramp:
		if e.Ramp == nil || e.DurationInfinite || e.DurationMS == 0 {
			return 0
		}
		frac := float64(tLocal) / float64(e.DurationMS)
		if frac > 1 {
			frac = 1
		}
		return e.Ramp.StartMagnitude + (e.Ramp.EndMagnitude-e.Ramp.StartMagnitude)*frac
	case SquareWave, SineWave, TriangleWave, SawtoothUp, SawtoothDown:
		if e.Periodic == nil || e.Periodic.PeriodMS <= 0 {
			return 0
		}
		phase := (tLocal + e.Periodic.PhaseMS) % e.Periodic.PeriodMS
		if phase < 0 {
			phase += e.Periodic.PeriodMS
		}
		return waveform(e.Kind, phase, e.Periodic.PeriodMS)*e.Periodic.Magnitude + e.Periodic.Offset
	case Custom:
		if e.Custom == nil || len(e.Custom.Samples) == 0 || e.Custom.SamplePeriod <= 0 {
			return 0
		}
		idx := int64(tLocal/e.Custom.SamplePeriod.Milliseconds()) % int64(len(e.Custom.Samples))
		if idx < 0 {
			idx += int64(len(e.Custom.Samples))
		}
		return e.Custom.Samples[idx]
	default:
		return 0
	}
}

// waveform evaluates one periodic waveform family on [0, period) -> [-1, 1].
func waveform(kind Kind, phase, period int64) float64 {
	frac := float64(phase) / float64(period)
	switch kind {
	case SquareWave:
		if frac < 0.5 {
			return 1
		}
		return -1
	case SineWave:
		return math.Sin(2 * math.Pi * frac)
	case TriangleWave:
		if frac < 0.5 {
			return -1 + 4*frac
		}
		return 3 - 4*frac
	case SawtoothUp:
		return -1 + 2*frac
	case SawtoothDown:
		return 1 - 2*frac
	default:
		return 0
	}
}
