// Package element defines the fixed physical and virtual input element
// spaces the mapping engine translates between: the XInput-style physical
// gamepad surface on one side, and the legacy DirectInput axis/button/POV
// surface on the other.
package element

// Numeric bounds of the physical reading ranges.
const (
	AnalogMin int16 = -32768
	AnalogMax int16 = 32767

	TriggerMin uint8 = 0
	TriggerMax uint8 = 255
)

// Numeric bounds of the virtual axis range. Symmetric per spec: VMin == -VMax.
const (
	VirtualAxisMax int32 = 32767
	VirtualAxisMin int32 = -VirtualAxisMax
)

// MaxButtons is the number of buttons the virtual element space supports
// (0-based indices 0 through MaxButtons-1).
const MaxButtons = 128

// MaxGain and MaxMagnitude are the DirectInput-style force-feedback scales
// shared by the mapping engine's actuator projection and the FF device
// emulator's effect magnitudes: both gain and magnitude are expressed on a
// 0-10000 scale, matching DIPROP_FFGAIN and DI_FFNOMINALMAX.
const (
	MaxGain      float64 = 10000
	MaxMagnitude float64 = 10000
)

// Physical is one physical input element on the XInput-style source device.
type Physical int

const (
	LeftStickX Physical = iota
	LeftStickY
	RightStickX
	RightStickY
	TriggerLT
	TriggerRT
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonBack
	ButtonStart
	ButtonLS
	ButtonRS

	numPhysical
)

// NumPhysical is the number of distinct physical elements.
const NumPhysical = int(numPhysical)

func (p Physical) String() string {
	switch p {
	case LeftStickX:
		return "LeftStickX"
	case LeftStickY:
		return "LeftStickY"
	case RightStickX:
		return "RightStickX"
	case RightStickY:
		return "RightStickY"
	case TriggerLT:
		return "TriggerLT"
	case TriggerRT:
		return "TriggerRT"
	case DPadUp:
		return "DPadUp"
	case DPadDown:
		return "DPadDown"
	case DPadLeft:
		return "DPadLeft"
	case DPadRight:
		return "DPadRight"
	case ButtonA:
		return "ButtonA"
	case ButtonB:
		return "ButtonB"
	case ButtonX:
		return "ButtonX"
	case ButtonY:
		return "ButtonY"
	case ButtonLB:
		return "ButtonLB"
	case ButtonRB:
		return "ButtonRB"
	case ButtonBack:
		return "ButtonBack"
	case ButtonStart:
		return "ButtonStart"
	case ButtonLS:
		return "ButtonLS"
	case ButtonRS:
		return "ButtonRS"
	default:
		return "Physical(?)"
	}
}

// IsAnalog reports whether p is one of the four signed-16-bit stick axes.
func (p Physical) IsAnalog() bool {
	return p == LeftStickX || p == LeftStickY || p == RightStickX || p == RightStickY
}

// IsTrigger reports whether p is one of the two unsigned-8-bit triggers.
func (p Physical) IsTrigger() bool {
	return p == TriggerLT || p == TriggerRT
}

// IsDigital reports whether p carries a boolean pressed/released reading.
func (p Physical) IsDigital() bool {
	return !p.IsAnalog() && !p.IsTrigger()
}

// Snapshot is one fixed-point-in-time reading of every physical element,
// as pushed by the driver collaborator outside the core.
type Snapshot struct {
	LeftStickX, LeftStickY   int16
	RightStickX, RightStickY int16

	LT, RT uint8

	DPadUp, DPadDown, DPadLeft, DPadRight bool

	A, B, X, Y       bool
	LB, RB           bool
	Back, Start      bool
	LS, RS           bool
}

// Analog returns the signed reading for an analog stick axis element.
// ok is false if p is not an analog element.
func (s Snapshot) Analog(p Physical) (v int16, ok bool) {
	switch p {
	case LeftStickX:
		return s.LeftStickX, true
	case LeftStickY:
		return s.LeftStickY, true
	case RightStickX:
		return s.RightStickX, true
	case RightStickY:
		return s.RightStickY, true
	default:
		return 0, false
	}
}

// Trigger returns the unsigned reading for a trigger element.
func (s Snapshot) Trigger(p Physical) (v uint8, ok bool) {
	switch p {
	case TriggerLT:
		return s.LT, true
	case TriggerRT:
		return s.RT, true
	default:
		return 0, false
	}
}

// Digital returns the pressed/released reading for a digital element.
func (s Snapshot) Digital(p Physical) (pressed, ok bool) {
	switch p {
	case DPadUp:
		return s.DPadUp, true
	case DPadDown:
		return s.DPadDown, true
	case DPadLeft:
		return s.DPadLeft, true
	case DPadRight:
		return s.DPadRight, true
	case ButtonA:
		return s.A, true
	case ButtonB:
		return s.B, true
	case ButtonX:
		return s.X, true
	case ButtonY:
		return s.Y, true
	case ButtonLB:
		return s.LB, true
	case ButtonRB:
		return s.RB, true
	case ButtonBack:
		return s.Back, true
	case ButtonStart:
		return s.Start, true
	case ButtonLS:
		return s.LS, true
	case ButtonRS:
		return s.RS, true
	default:
		return false, false
	}
}

// Axis is one virtual analog axis on the legacy joystick surface.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisRotX
	AxisRotY
	AxisRotZ
	AxisSlider
	AxisDial

	numAxes
)

// NumAxes is the number of distinct virtual axes.
const NumAxes = int(numAxes)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisRotX:
		return "RotX"
	case AxisRotY:
		return "RotY"
	case AxisRotZ:
		return "RotZ"
	case AxisSlider:
		return "Slider"
	case AxisDial:
		return "Dial"
	default:
		return "Axis(?)"
	}
}

// HatDirection is one of the four booleans composing the single POV hat.
type HatDirection int

const (
	HatUp HatDirection = iota
	HatDown
	HatLeft
	HatRight

	numHatDirections
)

// NumHatDirections is the number of POV directional components.
const NumHatDirections = int(numHatDirections)

func (h HatDirection) String() string {
	switch h {
	case HatUp:
		return "Up"
	case HatDown:
		return "Down"
	case HatLeft:
		return "Left"
	case HatRight:
		return "Right"
	default:
		return "HatDirection(?)"
	}
}

// Kind distinguishes the three virtual element families.
type Kind int

const (
	KindAxis Kind = iota
	KindButton
	KindHat
)

// ID identifies one virtual element: an axis, a button index, or one hat
// direction. Zero value is AxisX, which is always a valid identifier, so
// callers constructing IDs should always set Kind explicitly.
type ID struct {
	Kind   Kind
	Axis   Axis
	Button int
	Hat    HatDirection
}

// AxisID builds a virtual element identifier targeting an axis.
func AxisID(a Axis) ID { return ID{Kind: KindAxis, Axis: a} }

// ButtonID builds a virtual element identifier targeting a button index.
func ButtonID(n int) ID { return ID{Kind: KindButton, Button: n} }

// HatID builds a virtual element identifier targeting one hat direction.
func HatID(h HatDirection) ID { return ID{Kind: KindHat, Hat: h} }

// State is a fully composed virtual controller snapshot.
type State struct {
	Axes    [NumAxes]int32
	Buttons [MaxButtons]bool
	Hat     [NumHatDirections]bool
}

// Neutral returns the all-zero/all-false virtual state.
func Neutral() State { return State{} }

// ClampAxis clamps v into [VirtualAxisMin, VirtualAxisMax].
func ClampAxis(v int32) int32 {
	if v > VirtualAxisMax {
		return VirtualAxisMax
	}
	if v < VirtualAxisMin {
		return VirtualAxisMin
	}
	return v
}
