package ff_test

import (
	"testing"

	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/ff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestEffectIterationAccounting(t *testing.T) {
	d := ff.NewDevice()
	e := newConstant(t, 1, 100, 500)
	require.NoError(t, d.AddOrUpdateEffect(e))
	require.NoError(t, d.StartEffect(1, 2, ptr(0)))

	out := d.PlayEffects(ptr(50))
	assert.InDelta(t, 500, out[element.AxisX], 1)

	out = d.PlayEffects(ptr(150))
	assert.InDelta(t, 500, out[element.AxisX], 1)

	out = d.PlayEffects(ptr(250))
	assert.Zero(t, out[element.AxisX])
	assert.False(t, d.IsEffectPlaying(1))
}

func TestCapacityExceeded(t *testing.T) {
	d := ff.NewDevice()
	for i := uint64(0); i < ff.MaxEffectCount; i++ {
		require.NoError(t, d.AddOrUpdateEffect(newConstant(t, i, 100, 1)))
	}
	err := d.AddOrUpdateEffect(newConstant(t, ff.MaxEffectCount, 100, 1))
	require.Error(t, err)
}

func TestMuteReturnsZeroVector(t *testing.T) {
	d := ff.NewDevice()
	e, err := ff.NewEffect(1, ff.SineWave, 0, true)
	require.NoError(t, err)
	e.Axes = []element.Axis{element.AxisX}
	e.Periodic = &ff.PeriodicParams{Magnitude: 1000, PeriodMS: 100}
	require.NoError(t, d.AddOrUpdateEffect(e))
	require.NoError(t, d.StartEffect(1, 1, ptr(0)))

	d.SetMutedState(true)
	for _, tv := range []int64{0, 10, 1000, 99999} {
		out := d.PlayEffects(ptr(tv))
		for _, v := range out {
			assert.Zero(t, v)
		}
	}
}

func TestPauseFreezesMagnitudeAndClock(t *testing.T) {
	d := ff.NewDevice()
	e, err := ff.NewEffect(1, ff.SineWave, 0, true)
	require.NoError(t, err)
	e.Axes = []element.Axis{element.AxisX}
	e.Periodic = &ff.PeriodicParams{Magnitude: 1000, PeriodMS: 400}
	require.NoError(t, d.AddOrUpdateEffect(e))
	require.NoError(t, d.StartEffect(1, 1, ptr(0)))

	_ = d.PlayEffects(ptr(37))
	d.SetPauseState(true)

	first := d.PlayEffects(ptr(1000))
	second := d.PlayEffects(ptr(5000))
	assert.Equal(t, first, second)
}

func TestStopAndRemove(t *testing.T) {
	d := ff.NewDevice()
	e := newConstant(t, 1, 100, 500)
	require.NoError(t, d.AddOrUpdateEffect(e))
	require.NoError(t, d.StartEffect(1, 1, ptr(0)))
	assert.True(t, d.IsEffectPlaying(1))

	require.NoError(t, d.StopEffect(1))
	assert.False(t, d.IsEffectPlaying(1))
	assert.True(t, d.IsEffectOnDevice(1))

	require.NoError(t, d.RemoveEffect(1))
	assert.False(t, d.IsEffectOnDevice(1))
}

func TestStopEffectNotPlayingFails(t *testing.T) {
	d := ff.NewDevice()
	err := d.StopEffect(42)
	require.Error(t, err)
}

func TestClearResetsMuteAndPause(t *testing.T) {
	d := ff.NewDevice()
	d.SetMutedState(true)
	d.SetPauseState(true)
	d.Clear()
	assert.False(t, d.GetMutedState())
	assert.False(t, d.GetPauseState())
}

func TestAddOrUpdatePlayingEffectPreservesStartTime(t *testing.T) {
	d := ff.NewDevice()
	e := newConstant(t, 1, 1000, 500)
	require.NoError(t, d.AddOrUpdateEffect(e))
	require.NoError(t, d.StartEffect(1, 1, ptr(0)))
	_ = d.PlayEffects(ptr(500))

	updated := newConstant(t, 1, 1000, 999)
	require.NoError(t, d.AddOrUpdateEffect(updated))

	out := d.PlayEffects(ptr(600))
	assert.InDelta(t, 999, out[element.AxisX], 1)
	assert.True(t, d.IsEffectPlaying(1))
}
