package mapper

import "github.com/joao678/Xidi-xtended/pkg/element"

// Accumulator collects contributions from every Element Mapper during one
// physical-to-virtual sweep. Axis contributions are summed and clamped once
// at the end of the sweep; button and hat contributions are composed by
// logical OR as each mapper writes to them.
type Accumulator struct {
	axisSum [element.NumAxes]int32
	buttons [element.MaxButtons]bool
	hat     [element.NumHatDirections]bool
}

// AddAxis adds a signed contribution to one virtual axis.
func (a *Accumulator) AddAxis(axis element.Axis, v int32) {
	a.axisSum[axis] += v
}

// SetButton ORs a pressed state into one virtual button.
func (a *Accumulator) SetButton(n int, pressed bool) {
	if n < 0 || n >= element.MaxButtons {
		return
	}
	a.buttons[n] = a.buttons[n] || pressed
}

// SetHat ORs a pressed state into one POV hat direction.
func (a *Accumulator) SetHat(dir element.HatDirection, pressed bool) {
	a.hat[dir] = a.hat[dir] || pressed
}

// State saturates the accumulated axis sums and returns the finished
// virtual state.
func (a *Accumulator) State() element.State {
	var st element.State
	for i, v := range a.axisSum {
		st.Axes[i] = element.ClampAxis(v)
	}
	st.Buttons = a.buttons
	st.Hat = a.hat
	return st
}
