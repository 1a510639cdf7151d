// Package mapper implements the Element Mapper family (C1) and the
// immutable Mapper Layout (C2) that owns one per physical element,
// derives aggregate capabilities, and runs the physical<->virtual sweep.
package mapper

import (
	"math"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
)

// Actuator identifies one of the four physical force-feedback outputs a
// Layout can project a virtual magnitude vector onto.
type Actuator int

const (
	LeftMotor Actuator = iota
	RightMotor
	LeftImpulseTrigger
	RightImpulseTrigger

	numActuators
)

// NumActuators is the number of distinct actuators.
const NumActuators = int(numActuators)

// ActuatorMapping describes one actuator's policy: either absent, or present
// with magnitude-projection onto two named virtual axes.
type ActuatorMapping struct {
	Present    bool
	AxisFirst  element.Axis
	AxisSecond element.Axis
}

// ActuatorOutput is the per-actuator scalar output of a force-feedback
// projection, scaled to the 0-255 range XInput-style rumble/impulse
// actuators expect.
type ActuatorOutput struct {
	LeftMotor           uint8
	RightMotor          uint8
	LeftImpulseTrigger  uint8
	RightImpulseTrigger uint8
}

// Capabilities is the derived, memoised description of what a Layout's
// mappers actually expose.
type Capabilities struct {
	// Axes reports which virtual axes are referenced by at least one mapper.
	Axes [element.NumAxes]bool
	// NumButtons is one greater than the highest button index referenced,
	// or zero if no mapper targets a button.
	NumButtons int
	// HasHat is true iff any mapper targets any hat component.
	HasHat bool
	// ActuatorAxis reports, per axis, whether any actuator projects onto it.
	ActuatorAxis [element.NumAxes]bool
}

// Layout is an immutable physical-element -> ElementMapper assemblage,
// plus the actuator mapping used for force-feedback projection. Once
// constructed, a Layout never changes and is safe to share across threads
// without synchronization.
type Layout struct {
	mappers   [element.NumPhysical]ElementMapper
	actuators [NumActuators]ActuatorMapping
	caps      Capabilities
}

// New validates and constructs a Layout. mappers may be partial or empty;
// a nil entry means "no mapper for this physical element". Fails if more
// than element.MaxButtons buttons are referenced.
func New(mappers map[element.Physical]ElementMapper, actuators [NumActuators]ActuatorMapping) (*Layout, error) {
	l := &Layout{actuators: actuators}
	for p, m := range mappers {
		if int(p) < 0 || int(p) >= element.NumPhysical {
			return nil, coreerr.New(coreerr.InvalidArgument, "mapper.New", "unknown physical element %v", p)
		}
		l.mappers[p] = m
	}
	l.caps = computeCapabilities(l.mappers, l.actuators)
	if l.caps.NumButtons > element.MaxButtons {
		return nil, coreerr.New(coreerr.InvalidArgument, "mapper.New", "button count %d exceeds %d", l.caps.NumButtons, element.MaxButtons)
	}
	return l, nil
}

func computeCapabilities(mappers [element.NumPhysical]ElementMapper, actuators [NumActuators]ActuatorMapping) Capabilities {
	var caps Capabilities
	highestButton := -1
	for _, m := range mappers {
		if m == nil {
			continue
		}
		for _, id := range m.TargetElements() {
			switch id.Kind {
			case element.KindAxis:
				caps.Axes[id.Axis] = true
			case element.KindButton:
				if id.Button > highestButton {
					highestButton = id.Button
				}
			case element.KindHat:
				caps.HasHat = true
			}
		}
	}
	if highestButton >= 0 {
		caps.NumButtons = highestButton + 1
	}
	for _, a := range actuators {
		if !a.Present {
			continue
		}
		caps.ActuatorAxis[a.AxisFirst] = true
		caps.ActuatorAxis[a.AxisSecond] = true
	}
	return caps
}

// Capabilities returns the memoised capability set.
func (l *Layout) Capabilities() Capabilities { return l.caps }

// NumAxes returns the count of virtual axes referenced by at least one mapper.
func (c Capabilities) NumAxes() int {
	n := 0
	for _, v := range c.Axes {
		if v {
			n++
		}
	}
	return n
}

// MapPhysicalToVirtual runs the physical->virtual sweep over one snapshot.
// sourceId is opaque and carried through for mappers that might, in the
// future, distinguish between multiple physical controllers; none of the
// variants in this package do.
func (l *Layout) MapPhysicalToVirtual(snap element.Snapshot, sourceID uint32) element.State {
	_ = sourceID
	var acc Accumulator
	for p := element.Physical(0); int(p) < element.NumPhysical; p++ {
		m := l.mappers[p]
		if m == nil {
			continue
		}
		switch {
		case p.IsAnalog():
			v, _ := snap.Analog(p)
			m.ContributeFromAnalog(&acc, v)
		case p.IsTrigger():
			v, _ := snap.Trigger(p)
			m.ContributeFromTrigger(&acc, v)
		default:
			pressed, _ := snap.Digital(p)
			m.ContributeFromDigital(&acc, pressed)
		}
	}
	return acc.State()
}

// MapNeutralPhysicalToVirtual is equivalent to mapping an all-zero snapshot,
// without requiring the caller to construct a dummy one.
func (l *Layout) MapNeutralPhysicalToVirtual(sourceID uint32) element.State {
	return l.MapPhysicalToVirtual(element.Snapshot{}, sourceID)
}

// ProjectForceFeedback projects a virtual magnitude vector (indexed by
// element.Axis, in +/-element.MaxMagnitude units) onto the four physical
// actuators, scaled by gain/element.MaxGain.
func (l *Layout) ProjectForceFeedback(magnitude [element.NumAxes]float64, gain int32) ActuatorOutput {
	scale := float64(gain) / element.MaxGain
	if scale < 0 {
		scale = 0
	}
	if scale > 1 {
		scale = 1
	}
	project := func(a ActuatorMapping) uint8 {
		if !a.Present {
			return 0
		}
		x := magnitude[a.AxisFirst]
		y := magnitude[a.AxisSecond]
		mag := math.Hypot(x, y) * scale
		if mag > element.MaxMagnitude {
			mag = element.MaxMagnitude
		}
		if mag < 0 {
			mag = 0
		}
		return uint8(mag / element.MaxMagnitude * 255)
	}
	return ActuatorOutput{
		LeftMotor:           project(l.actuators[LeftMotor]),
		RightMotor:          project(l.actuators[RightMotor]),
		LeftImpulseTrigger:  project(l.actuators[LeftImpulseTrigger]),
		RightImpulseTrigger: project(l.actuators[RightImpulseTrigger]),
	}
}

// HasActuators reports whether any actuator is present in this layout.
// Controller.SampleForceFeedback uses it to return a zero ActuatorOutput
// early; no error is reported for a layout without actuators.
func (l *Layout) HasActuators() bool {
	for _, a := range l.actuators {
		if a.Present {
			return true
		}
	}
	return false
}

// CloneElementMap returns a fresh map[element.Physical]ElementMapper deep
// copy of this layout's mappers, suitable for seeding a builder blueprint.
func (l *Layout) CloneElementMap() map[element.Physical]ElementMapper {
	out := make(map[element.Physical]ElementMapper, element.NumPhysical)
	for p, m := range l.mappers {
		if m == nil {
			continue
		}
		out[element.Physical(p)] = m.Clone()
	}
	return out
}
