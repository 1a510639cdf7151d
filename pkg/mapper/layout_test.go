package mapper_test

import (
	"testing"

	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickToAxisRouting(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.Axis{Target: element.AxisX},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 1111}, 0)
	assert.Equal(t, int32(1111), st.Axes[element.AxisX])
	for a, v := range st.Axes {
		if element.Axis(a) != element.AxisX {
			assert.Zero(t, v)
		}
	}
}

func TestSaturatingFourWaySum(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX:  mapper.Axis{Target: element.AxisX},
		element.LeftStickY:  mapper.Axis{Target: element.AxisX},
		element.RightStickX: mapper.Axis{Target: element.AxisX},
		element.RightStickY: mapper.Axis{Target: element.AxisX},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapPhysicalToVirtual(element.Snapshot{
		LeftStickX: 32767, LeftStickY: 32767, RightStickX: 32767, RightStickY: 32767,
	}, 0)
	assert.Equal(t, int32(32767), st.Axes[element.AxisX])
}

func TestDisjointButtonsSetCapability(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.Button{Target: 2},
		element.DPadUp:     mapper.Button{Target: 6},
		element.DPadLeft:   mapper.Button{Target: 10},
		element.ButtonLB:   mapper.Button{Target: 4},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	caps := l.Capabilities()
	assert.Equal(t, 0, caps.NumAxes())
	assert.Equal(t, 10, caps.NumButtons)
	assert.False(t, caps.HasHat)
}

func TestNeutralIsAllZero(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX:  mapper.Axis{Target: element.AxisX},
		element.ButtonA:     mapper.Button{Target: 1},
		element.DPadUp:      mapper.PovDirection{Direction: element.HatUp},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapNeutralPhysicalToVirtual(0)
	for _, v := range st.Axes {
		assert.Zero(t, v)
	}
	for _, v := range st.Buttons {
		assert.False(t, v)
	}
	for _, v := range st.Hat {
		assert.False(t, v)
	}
}

func TestButtonThresholdInclusiveAtHalf(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.Button{Target: 1},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	half := int16(element.AnalogMax / 2)
	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: half}, 0)
	assert.True(t, st.Buttons[0])
}

func TestSplitAxisZeroRoutesToNeither(t *testing.T) {
	var negHit, posHit bool
	neg := recordingMapper{hit: &negHit}
	pos := recordingMapper{hit: &posHit}

	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.SplitAxis{Negative: neg, Positive: pos},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	_ = l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 0}, 0)
	assert.False(t, negHit)
	assert.False(t, posHit)
}

func TestSplitAxisRoutesMagnitude(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.SplitAxis{
			Negative: mapper.Button{Target: 1},
			Positive: mapper.Button{Target: 2},
		},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: -20000}, 0)
	assert.True(t, st.Buttons[0])
	assert.False(t, st.Buttons[1])
}

func TestInvertNegatesAnalog(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.Invert{Inner: mapper.Axis{Target: element.AxisX}},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 1000}, 0)
	assert.Equal(t, int32(-1000), st.Axes[element.AxisX])
}

func TestCompoundForwardsToAll(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.ButtonA: mapper.Compound{Mappers: []mapper.ElementMapper{
			mapper.Button{Target: 1},
			mapper.Button{Target: 2},
		}},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	st := l.MapPhysicalToVirtual(element.Snapshot{A: true}, 0)
	assert.True(t, st.Buttons[0])
	assert.True(t, st.Buttons[1])
}

func TestCloneElementMapIsDeepCopy(t *testing.T) {
	l, err := mapper.New(map[element.Physical]mapper.ElementMapper{
		element.LeftStickX: mapper.Compound{Mappers: []mapper.ElementMapper{
			mapper.Axis{Target: element.AxisX},
		}},
	}, [mapper.NumActuators]mapper.ActuatorMapping{})
	require.NoError(t, err)

	cloned := l.CloneElementMap()
	require.Contains(t, cloned, element.LeftStickX)
	compound := cloned[element.LeftStickX].(mapper.Compound)
	compound.Mappers[0] = mapper.Axis{Target: element.AxisY}

	// Mutating the clone's slice must not affect the original layout's mapper.
	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 500}, 0)
	assert.Equal(t, int32(500), st.Axes[element.AxisX])
}

func TestProjectForceFeedback(t *testing.T) {
	l, err := mapper.New(nil, [mapper.NumActuators]mapper.ActuatorMapping{
		mapper.LeftMotor: {Present: true, AxisFirst: element.AxisX, AxisSecond: element.AxisY},
	})
	require.NoError(t, err)

	var mag [element.NumAxes]float64
	mag[element.AxisX] = element.MaxMagnitude
	out := l.ProjectForceFeedback(mag, int32(element.MaxGain))
	assert.Equal(t, uint8(255), out.LeftMotor)
	assert.Zero(t, out.RightMotor)
}

type recordingMapper struct {
	hit *bool
}

func (r recordingMapper) ContributeFromAnalog(acc *mapper.Accumulator, value int16) { *r.hit = true }
func (r recordingMapper) ContributeFromTrigger(acc *mapper.Accumulator, value uint8) { *r.hit = true }
func (r recordingMapper) ContributeFromDigital(acc *mapper.Accumulator, pressed bool) { *r.hit = true }
func (r recordingMapper) TargetElements() []element.ID                                { return nil }
func (r recordingMapper) Clone() mapper.ElementMapper                                 { return r }
