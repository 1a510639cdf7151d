package mapper

import "github.com/joao678/Xidi-xtended/pkg/element"

// ElementMapper converts one physical reading into zero or more virtual
// element contributions written into the supplied Accumulator. Every
// variant is a value that owns no external state; contribution calls are
// idempotent and confined to the accumulator.
type ElementMapper interface {
	// ContributeFromAnalog handles a signed stick-axis reading.
	ContributeFromAnalog(acc *Accumulator, value int16)
	// ContributeFromTrigger handles an unsigned trigger reading.
	ContributeFromTrigger(acc *Accumulator, value uint8)
	// ContributeFromDigital handles a boolean pressed/released reading.
	ContributeFromDigital(acc *Accumulator, pressed bool)
	// TargetElements lists every virtual element this mapper can affect.
	// Used only for capability derivation.
	TargetElements() []element.ID
	// Clone returns a deep, independently owned copy.
	Clone() ElementMapper
}

// AxisDirection restricts an Axis mapper to one half of its input travel.
type AxisDirection int

const (
	Both AxisDirection = iota
	Positive
	Negative
)

// Axis writes an analog contribution to one virtual axis.
type Axis struct {
	Target    element.Axis
	Direction AxisDirection
}

func (m Axis) ContributeFromAnalog(acc *Accumulator, value int16) {
	v := int32(value)
	switch m.Direction {
	case Positive:
		if v < 0 {
			v = 0
		}
	case Negative:
		if v > 0 {
			v = 0
		} else {
			// Only negative inputs contribute, with the output sign inverted:
			// a full-negative reading yields a full-positive contribution.
			v = -v
		}
	}
	acc.AddAxis(m.Target, v)
}

func (m Axis) ContributeFromTrigger(acc *Accumulator, value uint8) {
	v := int32(value)
	switch m.Direction {
	case Negative:
		// [0, TMax] -> [VMin, 0]
		scaled := -v * element.VirtualAxisMax / int32(element.TriggerMax)
		acc.AddAxis(m.Target, scaled)
	default:
		// Both and Positive both map the unsigned trigger onto positive travel.
		scaled := v * element.VirtualAxisMax / int32(element.TriggerMax)
		acc.AddAxis(m.Target, scaled)
	}
}

func (m Axis) ContributeFromDigital(acc *Accumulator, pressed bool) {
	if !pressed {
		return
	}
	switch m.Direction {
	case Negative:
		acc.AddAxis(m.Target, -element.VirtualAxisMax)
	default:
		acc.AddAxis(m.Target, element.VirtualAxisMax)
	}
}

func (m Axis) TargetElements() []element.ID { return []element.ID{element.AxisID(m.Target)} }

func (m Axis) Clone() ElementMapper { return m }

// Button emits pressed/released for one virtual button. Target is a
// 1-based button label, matching the original's EButton::B1..B128
// convention, not a 0-based array index.
type Button struct {
	Target int
}

func (m Button) ContributeFromAnalog(acc *Accumulator, value int16) {
	half := int32(element.AnalogMax) / 2
	pressed := int32(value) >= half || int32(value) <= -half
	acc.SetButton(m.Target-1, pressed)
}

func (m Button) ContributeFromTrigger(acc *Accumulator, value uint8) {
	half := int32(element.TriggerMax) / 2
	acc.SetButton(m.Target-1, int32(value) >= half)
}

func (m Button) ContributeFromDigital(acc *Accumulator, pressed bool) {
	acc.SetButton(m.Target-1, pressed)
}

func (m Button) TargetElements() []element.ID { return []element.ID{element.ButtonID(m.Target - 1)} }

func (m Button) Clone() ElementMapper { return m }

// PovDirection writes one boolean component of the hat, with the same
// thresholds as Button.
type PovDirection struct {
	Direction element.HatDirection
}

func (m PovDirection) ContributeFromAnalog(acc *Accumulator, value int16) {
	half := int32(element.AnalogMax) / 2
	pressed := int32(value) >= half || int32(value) <= -half
	acc.SetHat(m.Direction, pressed)
}

func (m PovDirection) ContributeFromTrigger(acc *Accumulator, value uint8) {
	half := int32(element.TriggerMax) / 2
	acc.SetHat(m.Direction, int32(value) >= half)
}

func (m PovDirection) ContributeFromDigital(acc *Accumulator, pressed bool) {
	acc.SetHat(m.Direction, pressed)
}

func (m PovDirection) TargetElements() []element.ID {
	return []element.ID{element.HatID(m.Direction)}
}

func (m PovDirection) Clone() ElementMapper { return m }

// Invert forwards to an inner mapper with analog/trigger inputs numerically
// negated around the input midpoint, and digital input inverted.
type Invert struct {
	Inner ElementMapper
}

func (m Invert) ContributeFromAnalog(acc *Accumulator, value int16) {
	// Negate around the midpoint of a signed range: -value, saturating at
	// the one value (AnalogMin) that has no positive counterpart.
	neg := -int32(value)
	if neg > int32(element.AnalogMax) {
		neg = int32(element.AnalogMax)
	}
	m.Inner.ContributeFromAnalog(acc, int16(neg))
}

func (m Invert) ContributeFromTrigger(acc *Accumulator, value uint8) {
	m.Inner.ContributeFromTrigger(acc, element.TriggerMax-value)
}

func (m Invert) ContributeFromDigital(acc *Accumulator, pressed bool) {
	m.Inner.ContributeFromDigital(acc, !pressed)
}

func (m Invert) TargetElements() []element.ID { return m.Inner.TargetElements() }

func (m Invert) Clone() ElementMapper { return Invert{Inner: m.Inner.Clone()} }

// SplitAxis routes the negative half of an analog input (as a positive
// magnitude) to Negative, and the positive half to Positive. An input of
// exactly zero routes to neither half.
type SplitAxis struct {
	Negative ElementMapper
	Positive ElementMapper
}

func (m SplitAxis) ContributeFromAnalog(acc *Accumulator, value int16) {
	switch {
	case value > 0:
		if m.Positive != nil {
			m.Positive.ContributeFromAnalog(acc, value)
		}
	case value < 0:
		if m.Negative != nil {
			mag := int32(value)
			if mag == int32(element.AnalogMin) {
				mag = int32(element.AnalogMax)
			} else {
				mag = -mag
			}
			m.Negative.ContributeFromAnalog(acc, int16(mag))
		}
	}
}

func (m SplitAxis) ContributeFromTrigger(acc *Accumulator, value uint8) {
	// Triggers are unsigned; only the positive half receives anything,
	// mirroring the "sign <= 0 routes nowhere, sign > 0 routes positive" rule.
	if value > 0 && m.Positive != nil {
		m.Positive.ContributeFromTrigger(acc, value)
	}
}

func (m SplitAxis) ContributeFromDigital(acc *Accumulator, pressed bool) {
	if pressed && m.Positive != nil {
		m.Positive.ContributeFromDigital(acc, pressed)
	}
}

func (m SplitAxis) TargetElements() []element.ID {
	var out []element.ID
	if m.Negative != nil {
		out = append(out, m.Negative.TargetElements()...)
	}
	if m.Positive != nil {
		out = append(out, m.Positive.TargetElements()...)
	}
	return out
}

func (m SplitAxis) Clone() ElementMapper {
	c := SplitAxis{}
	if m.Negative != nil {
		c.Negative = m.Negative.Clone()
	}
	if m.Positive != nil {
		c.Positive = m.Positive.Clone()
	}
	return c
}

// Compound forwards the same input to every element of the list, in order.
type Compound struct {
	Mappers []ElementMapper
}

func (m Compound) ContributeFromAnalog(acc *Accumulator, value int16) {
	for _, sub := range m.Mappers {
		sub.ContributeFromAnalog(acc, value)
	}
}

func (m Compound) ContributeFromTrigger(acc *Accumulator, value uint8) {
	for _, sub := range m.Mappers {
		sub.ContributeFromTrigger(acc, value)
	}
}

func (m Compound) ContributeFromDigital(acc *Accumulator, pressed bool) {
	for _, sub := range m.Mappers {
		sub.ContributeFromDigital(acc, pressed)
	}
}

func (m Compound) TargetElements() []element.ID {
	var out []element.ID
	for _, sub := range m.Mappers {
		out = append(out, sub.TargetElements()...)
	}
	return out
}

func (m Compound) Clone() ElementMapper {
	c := Compound{Mappers: make([]ElementMapper, len(m.Mappers))}
	for i, sub := range m.Mappers {
		c.Mappers[i] = sub.Clone()
	}
	return c
}
