package builder_test

import (
	"testing"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/mapper"
	"github.com/joao678/Xidi-xtended/pkg/mapper/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSimpleBlueprint(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)

	require.NoError(t, b.CreateBlueprint("base"))
	require.NoError(t, b.SetBlueprintElementMapper("base", element.LeftStickX, mapper.Axis{Target: element.AxisX}))

	l, err := b.Build("base")
	require.NoError(t, err)
	st := l.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 4242}, 0)
	assert.Equal(t, int32(4242), st.Axes[element.AxisX])

	got, ok := reg.Get("base")
	require.True(t, ok)
	assert.Same(t, l, got)
}

func TestBuildFromTemplateInheritsAndOverrides(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)

	require.NoError(t, b.CreateBlueprint("base"))
	require.NoError(t, b.SetBlueprintElementMapper("base", element.LeftStickX, mapper.Axis{Target: element.AxisX}))
	require.NoError(t, b.SetBlueprintElementMapper("base", element.LeftStickY, mapper.Axis{Target: element.AxisY}))
	_, err := b.Build("base")
	require.NoError(t, err)

	require.NoError(t, b.CreateBlueprint("child"))
	require.NoError(t, b.SetBlueprintTemplate("child", "base"))
	require.NoError(t, b.SetBlueprintElementMapper("child", element.LeftStickY, mapper.Axis{Target: element.AxisRotY}))
	require.NoError(t, b.ClearBlueprintElementMapper("child", element.LeftStickX))

	child, err := b.Build("child")
	require.NoError(t, err)
	st := child.MapPhysicalToVirtual(element.Snapshot{LeftStickX: 100, LeftStickY: 200}, 0)
	assert.Zero(t, st.Axes[element.AxisX])
	assert.Zero(t, st.Axes[element.AxisY])
	assert.Equal(t, int32(200), st.Axes[element.AxisRotY])
}

func TestCycleDetection(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)

	require.NoError(t, b.CreateBlueprint("A"))
	require.NoError(t, b.CreateBlueprint("B"))
	require.NoError(t, b.SetBlueprintTemplate("A", "B"))
	require.NoError(t, b.SetBlueprintTemplate("B", "A"))

	err := b.BuildAll()
	require.Error(t, err)
	assert.True(t, coreerr.Is(err, coreerr.CycleInDependencies))

	_, ok := reg.Get("A")
	assert.False(t, ok)
	_, ok = reg.Get("B")
	assert.False(t, ok)
}

func TestInvalidatedBlueprintFailsBuild(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)
	require.NoError(t, b.CreateBlueprint("x"))
	require.NoError(t, b.InvalidateBlueprint("x"))

	_, err := b.Build("x")
	require.Error(t, err)
}

func TestCreateBlueprintConflictsWithRegisteredLayout(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)
	require.NoError(t, b.CreateBlueprint("dup"))
	_, err := b.Build("dup")
	require.NoError(t, err)

	err = b.CreateBlueprint("dup")
	require.Error(t, err)
}

func TestBuildAllBuildsEveryPending(t *testing.T) {
	reg := builder.NewRegistry()
	b := builder.New(reg)
	require.NoError(t, b.CreateBlueprint("one"))
	require.NoError(t, b.CreateBlueprint("two"))

	require.NoError(t, b.BuildAll())
	_, ok := reg.Get("one")
	assert.True(t, ok)
	_, ok = reg.Get("two")
	assert.True(t, ok)
}
