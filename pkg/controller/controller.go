// Package controller implements the Virtual Controller Facade (C6): the
// single object an application-facing collaborator (a virtual joystick
// driver, in the original Xidi design) interacts with. It owns one Mapper
// Layout, the per-axis property pipeline, the buffered event queue, and
// exclusive delegation to a force-feedback Device.
package controller

import (
	"sync"
	"sync/atomic"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/ff"
	"github.com/joao678/Xidi-xtended/pkg/mapper"
)

// AxisProperties holds the per-axis deadzone/saturation/range transform
// configuration: deadzone and saturation on a 0-10000 scale, range as an
// arbitrary caller-chosen [Min, Max] interval. DeadzonePct is the share of
// travel around the centre that reads as zero. SaturationPct is the share
// of travel at each end that reads as full deflection, so 0 means no
// saturation; this is the inverse of DirectInput's DIPROP_SATURATION, whose
// value is the point of full deflection (10000 meaning none).
type AxisProperties struct {
	DeadzonePct   int32 // 0-10000
	SaturationPct int32 // 0-10000
	RangeMin      int32
	RangeMax      int32
	TransformOn   bool
}

// DefaultAxisProperties returns the identity transform: no deadzone, no
// saturation, range equal to the virtual axis's native bounds.
func DefaultAxisProperties() AxisProperties {
	return AxisProperties{
		DeadzonePct:   0,
		SaturationPct: 0,
		RangeMin:      element.VirtualAxisMin,
		RangeMax:      element.VirtualAxisMax,
		TransformOn:   true,
	}
}

// Controller is the facade over one Mapper Layout: it caches the last
// composed virtual state, runs the axis transform pipeline, buffers
// change events, and exclusively owns at most one force-feedback Device
// registration at a time.
//
// RefreshState and SetAxisProperties take the exclusive lock. GetState and
// the property getters take the shared lock. The force-feedback
// registration methods take no lock; they use an atomic compare-and-swap
// on the owner pointer.
type Controller struct {
	mu sync.RWMutex

	layout *mapper.Layout
	state  element.State

	axisProps [element.NumAxes]AxisProperties
	events    *EventBuffer

	ffGain   int32
	ffOwner  atomic.Pointer[ff.Device]
	offsetFn DataFormatOffsetter
}

// DataFormatOffsetter resolves a virtual element identifier to an
// application-defined data-format offset for buffered event reporting.
// A nil offsetter (the default) means events carry offset 0.
type DataFormatOffsetter func(element.ID) uint32

// New constructs a Controller over layout with the given event buffer
// capacity and the identity axis-transform for every axis.
func New(layout *mapper.Layout, eventBufferCapacity int) *Controller {
	c := &Controller{
		layout: layout,
		events: NewEventBuffer(eventBufferCapacity),
		ffGain: int32(element.MaxGain),
	}
	for i := range c.axisProps {
		c.axisProps[i] = DefaultAxisProperties()
	}
	c.state = layout.MapNeutralPhysicalToVirtual(0)
	return c
}

// SetDataFormatOffsetter installs the function used to resolve buffered
// event offsets. Passing nil restores the offset-always-zero default.
func (c *Controller) SetDataFormatOffsetter(fn DataFormatOffsetter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offsetFn = fn
}

// GetState returns the last composed virtual state.
func (c *Controller) GetState() element.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Capabilities forwards to the underlying layout's memoised capabilities.
func (c *Controller) Capabilities() mapper.Capabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout.Capabilities()
}

// GetAxisProperties returns the configured transform for axis.
func (c *Controller) GetAxisProperties(axis element.Axis) AxisProperties {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.axisProps[axis]
}

// SetAxisProperties validates and installs a new transform for axis.
// DeadzonePct and SaturationPct must each lie in [0, 10000] and their sum
// must not exceed 10000, or the axis would have no live range left.
func (c *Controller) SetAxisProperties(axis element.Axis, p AxisProperties) error {
	if p.DeadzonePct < 0 || p.DeadzonePct > 10000 {
		return coreerr.New(coreerr.InvalidArgument, "Controller.SetAxisProperties", "deadzone %d out of [0,10000]", p.DeadzonePct)
	}
	if p.SaturationPct < 0 || p.SaturationPct > 10000 {
		return coreerr.New(coreerr.InvalidArgument, "Controller.SetAxisProperties", "saturation %d out of [0,10000]", p.SaturationPct)
	}
	if p.DeadzonePct+p.SaturationPct > 10000 {
		return coreerr.New(coreerr.InvalidArgument, "Controller.SetAxisProperties", "deadzone+saturation %d exceeds 10000", p.DeadzonePct+p.SaturationPct)
	}
	if p.RangeMin > p.RangeMax {
		return coreerr.New(coreerr.InvalidArgument, "Controller.SetAxisProperties", "range min %d exceeds max %d", p.RangeMin, p.RangeMax)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.axisProps[axis] = p
	return nil
}

// EventBuffer returns the controller's buffered-event queue.
func (c *Controller) EventBuffer() *EventBuffer {
	return c.events
}

// RefreshState runs the physical->virtual sweep, applies every axis's
// transform pipeline, diffs against the previously cached state to emit
// buffered change events, and installs the result as the new cached
// state. timestampMS stamps any emitted events.
func (c *Controller) RefreshState(snap element.Snapshot, sourceID uint32, timestampMS int64) element.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw := c.layout.MapPhysicalToVirtual(snap, sourceID)
	for i := range raw.Axes {
		raw.Axes[i] = c.applyAxisTransform(element.Axis(i), raw.Axes[i])
	}

	c.emitAxisDiffs(raw, timestampMS)
	c.emitButtonDiffs(raw, timestampMS)
	c.emitHatDiffs(raw, timestampMS)

	c.state = raw
	return raw
}

func (c *Controller) applyAxisTransform(axis element.Axis, raw int32) int32 {
	p := c.axisProps[axis]
	if !p.TransformOn {
		return raw
	}
	const vmax = float64(32767)
	v := float64(raw)
	sign := 1.0
	if v < 0 {
		sign = -1.0
		v = -v
	}
	lowThresh := vmax * float64(p.DeadzonePct) / 10000
	highThresh := vmax * float64(10000-p.SaturationPct) / 10000

	var out float64
	switch {
	case v <= lowThresh:
		out = 0
	case v >= highThresh:
		out = vmax
	default:
		out = (v - lowThresh) * vmax / (highThresh - lowThresh)
	}
	out *= sign

	lo, hi := float64(p.RangeMin), float64(p.RangeMax)
	mapped := lo + (out+vmax)*(hi-lo)/(2*vmax)
	return int32(mapped)
}

func (c *Controller) emitAxisDiffs(next element.State, ts int64) {
	for i, v := range next.Axes {
		if v != c.state.Axes[i] {
			c.pushEvent(element.AxisID(element.Axis(i)), ts, v)
		}
	}
}

func (c *Controller) emitButtonDiffs(next element.State, ts int64) {
	for i, v := range next.Buttons {
		if v != c.state.Buttons[i] {
			val := int32(0)
			if v {
				val = 1
			}
			c.pushEvent(element.ButtonID(i), ts, val)
		}
	}
}

func (c *Controller) emitHatDiffs(next element.State, ts int64) {
	for i, v := range next.Hat {
		if v != c.state.Hat[i] {
			val := int32(0)
			if v {
				val = 1
			}
			c.pushEvent(element.HatID(element.HatDirection(i)), ts, val)
		}
	}
}

func (c *Controller) pushEvent(id element.ID, ts int64, value int32) {
	var offset uint32
	if c.offsetFn != nil {
		offset = c.offsetFn(id)
	}
	c.events.Push(ts, offset, value)
}

// ForceFeedbackRegister installs device as this controller's exclusive
// force-feedback backend, provided no other device currently owns the
// slot. Registration is a single atomic compare-and-swap against the
// owner pointer, so two concurrent registrants cannot both succeed.
func (c *Controller) ForceFeedbackRegister(device *ff.Device) error {
	if device == nil {
		return coreerr.New(coreerr.InvalidArgument, "Controller.ForceFeedbackRegister", "nil device")
	}
	if !c.ffOwner.CompareAndSwap(nil, device) {
		return coreerr.New(coreerr.NotExclusiveRegistered, "Controller.ForceFeedbackRegister", "a force-feedback device is already registered")
	}
	return nil
}

// ForceFeedbackUnregister releases ownership, provided device is the
// current owner.
func (c *Controller) ForceFeedbackUnregister(device *ff.Device) error {
	if !c.ffOwner.CompareAndSwap(device, nil) {
		return coreerr.New(coreerr.NotExclusiveRegistered, "Controller.ForceFeedbackUnregister", "device is not the registered owner")
	}
	return nil
}

// ForceFeedbackDevice returns the currently registered device, or nil if
// none is registered.
func (c *Controller) ForceFeedbackDevice() *ff.Device {
	return c.ffOwner.Load()
}

// SetForceFeedbackGain sets the global gain (0-10000) applied when
// projecting the registered device's sampled magnitude vector onto this
// controller's actuators.
func (c *Controller) SetForceFeedbackGain(gain int32) error {
	if gain < 0 || int32(element.MaxGain) < gain {
		return coreerr.New(coreerr.InvalidArgument, "Controller.SetForceFeedbackGain", "gain %d out of [0,%d]", gain, int32(element.MaxGain))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ffGain = gain
	return nil
}

// SampleForceFeedback pulls one sample from the registered device, if
// any, and projects it through the layout's actuator mapping. Returns the
// zero ActuatorOutput if no device is registered or the layout has no
// actuators.
func (c *Controller) SampleForceFeedback(timestamp *int64) mapper.ActuatorOutput {
	dev := c.ffOwner.Load()
	if dev == nil {
		return mapper.ActuatorOutput{}
	}
	c.mu.RLock()
	layout := c.layout
	gain := c.ffGain
	c.mu.RUnlock()

	if !layout.HasActuators() {
		return mapper.ActuatorOutput{}
	}
	magnitude := dev.PlayEffects(timestamp)
	return layout.ProjectForceFeedback(magnitude, gain)
}
