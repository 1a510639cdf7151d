package ff

import (
	"sync"
	"time"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
)

// MaxEffectCount is the capacity invariant: |ready| + |playing| <= MaxEffectCount.
const MaxEffectCount = 256

type playingEntry struct {
	effect            *Effect
	startTime         int64
	numIterationsLeft int
	iterationsSoFar   int64
}

// Device emulates a physical force-feedback buffer: a bounded set of ready
// and playing effects, each with an independent per-effect clock, global
// mute/pause, and sample composition into a per-axis magnitude vector.
//
// All operations are thread-safe behind a single reader-writer lock.
// IsEffectPlaying, GetMutedState, GetPauseState, and IsEffectOnDevice take
// the shared lock; every other operation, PlayEffects included (it advances
// the play clock and iteration counters), takes the exclusive lock.
type Device struct {
	mu sync.RWMutex

	ready   map[uint64]*Effect
	playing map[uint64]*playingEntry

	muted  bool
	paused bool

	timestampBase             time.Time
	timestampRelativeLastPlay int64
}

// NewDevice constructs an empty, unmuted, unpaused Device with its clock
// base captured at construction time.
func NewDevice() *Device {
	return &Device{
		ready:         make(map[uint64]*Effect),
		playing:       make(map[uint64]*playingEntry),
		timestampBase: time.Now(),
	}
}

// NowRelative returns the current monotonic millisecond offset from the
// device's construction time. Every operation that accepts an optional
// explicit timestamp uses this as its default.
func (d *Device) NowRelative() int64 {
	return time.Since(d.timestampBase).Milliseconds()
}

func (d *Device) count() int { return len(d.ready) + len(d.playing) }

// AddOrUpdateEffect inserts e into the ready set if it is not already
// present anywhere. If it is already in ready, its parameters are
// replaced. If it is already playing, its parameters are updated in place
// without resetting the start timestamp or iteration counter (effect
// continuity is intentional; see DESIGN.md).
func (d *Device) AddOrUpdateEffect(e *Effect) error {
	if e == nil {
		return coreerr.New(coreerr.InvalidArgument, "Device.AddOrUpdateEffect", "nil effect")
	}
	if err := e.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if pe, ok := d.playing[e.id]; ok {
		pe.effect = e.Clone()
		return nil
	}
	if _, ok := d.ready[e.id]; ok {
		d.ready[e.id] = e.Clone()
		return nil
	}
	if d.count() >= MaxEffectCount {
		return coreerr.New(coreerr.CapacityExceeded, "Device.AddOrUpdateEffect", "device full (%d effects)", MaxEffectCount)
	}
	d.ready[e.id] = e.Clone()
	return nil
}

// StartEffect moves id into the playing set, resetting its start timestamp
// and iteration counter. If id is already playing, it restarts from the
// beginning. numIterations must be >= 1.
func (d *Device) StartEffect(id uint64, numIterations int, timestamp *int64) error {
	if numIterations < 1 {
		return coreerr.New(coreerr.InvalidArgument, "Device.StartEffect", "numIterations must be >= 1, got %d", numIterations)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var eff *Effect
	if pe, ok := d.playing[id]; ok {
		eff = pe.effect
	} else if e, ok := d.ready[id]; ok {
		eff = e
		delete(d.ready, id)
	} else {
		return coreerr.New(coreerr.ObjectNotFound, "Device.StartEffect", "effect %d not present", id)
	}

	start := d.resolveTimestamp(timestamp)
	d.playing[id] = &playingEntry{
		effect:            eff,
		startTime:         start,
		numIterationsLeft: numIterations,
	}
	return nil
}

// StopEffect moves id from playing back to ready.
func (d *Device) StopEffect(id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pe, ok := d.playing[id]
	if !ok {
		return coreerr.New(coreerr.ObjectNotFound, "Device.StopEffect", "effect %d is not playing", id)
	}
	delete(d.playing, id)
	d.ready[id] = pe.effect
	return nil
}

// StopAllEffects moves every playing entry back to ready.
func (d *Device) StopAllEffects() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, pe := range d.playing {
		d.ready[id] = pe.effect
	}
	d.playing = make(map[uint64]*playingEntry)
}

// RemoveEffect removes id from whichever set contains it, auto-stopping it
// first if it is playing.
func (d *Device) RemoveEffect(id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.playing[id]; ok {
		delete(d.playing, id)
		return nil
	}
	if _, ok := d.ready[id]; ok {
		delete(d.ready, id)
		return nil
	}
	return coreerr.New(coreerr.ObjectNotFound, "Device.RemoveEffect", "effect %d not present", id)
}

// Clear empties both sets and resets mute and pause to false.
func (d *Device) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = make(map[uint64]*Effect)
	d.playing = make(map[uint64]*playingEntry)
	d.muted = false
	d.paused = false
}

// SetMutedState sets the global mute flag.
func (d *Device) SetMutedState(muted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.muted = muted
}

// SetPauseState sets the global pause flag.
func (d *Device) SetPauseState(paused bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = paused
}

// GetMutedState returns the global mute flag.
func (d *Device) GetMutedState() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.muted
}

// GetPauseState returns the global pause flag.
func (d *Device) GetPauseState() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.paused
}

// IsEffectPlaying reports whether id is currently in the playing set.
func (d *Device) IsEffectPlaying(id uint64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.playing[id]
	return ok
}

// IsEffectOnDevice reports whether id is present in either set.
func (d *Device) IsEffectOnDevice(id uint64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ready := d.ready[id]
	_, playing := d.playing[id]
	return ready || playing
}

func (d *Device) resolveTimestamp(timestamp *int64) int64 {
	if timestamp != nil {
		return *timestamp
	}
	return d.NowRelative()
}

// PlayEffects samples every playing effect at the resolved timestamp and
// returns the composed per-axis magnitude vector. It never blocks on any
// external resource and performs O(|playing|) work.
//
// If paused, t is pinned to the last observed play timestamp, so the
// returned vector and the device's internal clock are both frozen. If an
// explicit timestamp is supplied that is smaller than the last recorded
// one, it is accepted for this call's computation but does not regress
// timestampRelativeLastPlay (spec.md §9, open question c).
func (d *Device) PlayEffects(timestamp *int64) [element.NumAxes]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.resolveTimestamp(timestamp)
	if d.paused {
		t = d.timestampRelativeLastPlay
	} else if t > d.timestampRelativeLastPlay {
		d.timestampRelativeLastPlay = t
	}

	var out [element.NumAxes]float64
	for id, pe := range d.playing {
		eff := pe.effect
		durationMS := eff.DurationMS

		localSinceStart := t - pe.startTime - eff.StartDelayMS
		if localSinceStart < 0 {
			localSinceStart = 0
		}

		tLocal := localSinceStart
		if !eff.DurationInfinite && durationMS > 0 {
			tLocal = localSinceStart - pe.iterationsSoFar*durationMS
			for !d.paused && tLocal >= durationMS {
				pe.iterationsSoFar++
				pe.numIterationsLeft--
				if pe.numIterationsLeft <= 0 {
					break
				}
				tLocal -= durationMS
			}
			if pe.numIterationsLeft <= 0 {
				delete(d.playing, id)
				d.ready[id] = eff
				continue
			}
		}

		value, _ := eff.MagnitudeAt(tLocal)
		if d.muted {
			continue
		}
		for i, axis := range eff.Axes {
			dir := 1.0
			if i < len(eff.Direction) {
				dir = eff.Direction[i]
			}
			out[axis] += value * dir
		}
	}

	for i := range out {
		if out[i] > element.MaxMagnitude {
			out[i] = element.MaxMagnitude
		}
		if out[i] < -element.MaxMagnitude {
			out[i] = -element.MaxMagnitude
		}
	}
	if d.muted {
		return [element.NumAxes]float64{}
	}
	return out
}
