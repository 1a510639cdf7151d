package cmd

import (
	"log/slog"
	"time"

	"github.com/joao678/Xidi-xtended/internal/configpaths"
	"github.com/joao678/Xidi-xtended/pkg/controller"
	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/ff"
	"github.com/joao678/Xidi-xtended/pkg/mapper/builder"
)

// Serve builds the default blueprint set, instantiates a Controller over
// the requested blueprint, registers a force-feedback Device, and drives
// a fixed number of simulated refresh/sample cycles to stdout via the
// logger. It stands in for the long-running USB-IP/virtual-bus service
// loop a real driver collaborator would run.
type Serve struct {
	Blueprint   string        `help:"Blueprint to serve" default:"xbox" env:"XIMAPPERD_BLUEPRINT"`
	EventBuffer int           `help:"Buffered event queue capacity" default:"32" env:"XIMAPPERD_EVENT_BUFFER"`
	Interval    time.Duration `help:"Simulated poll interval" default:"16ms" env:"XIMAPPERD_INTERVAL"`
	Iterations  int           `help:"Number of simulated poll cycles to run" default:"10" env:"XIMAPPERD_ITERATIONS"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger) error {
	reg := builder.NewRegistry()
	if err := buildDefaultBlueprints(reg); err != nil {
		return err
	}
	if dir, err := configpaths.BlueprintDir(); err == nil {
		if err := LoadBlueprintOverrides(reg, dir); err != nil {
			return err
		}
	}

	layout, ok := reg.Get(s.Blueprint)
	if !ok {
		logger.Error("blueprint not found", "blueprint", s.Blueprint)
		return nil
	}

	ctl := controller.New(layout, s.EventBuffer)

	dev := ff.NewDevice()
	if err := ctl.ForceFeedbackRegister(dev); err != nil {
		return err
	}
	rumble, err := ff.NewEffect(1, ff.Constant, 0, true)
	if err != nil {
		return err
	}
	rumble.Axes = []element.Axis{element.AxisX, element.AxisY}
	rumble.Direction = []float64{1, 1}
	rumble.Constant = &ff.ConstantParams{Magnitude: element.MaxMagnitude / 2}
	if err := dev.AddOrUpdateEffect(rumble); err != nil {
		return err
	}
	if err := dev.StartEffect(1, 1, nil); err != nil {
		return err
	}

	logger.Info("serving blueprint", "blueprint", s.Blueprint, "iterations", s.Iterations)
	for i := 0; i < s.Iterations; i++ {
		snap := element.Snapshot{LeftStickX: int16(i * 1000), A: i%2 == 0}
		st := ctl.RefreshState(snap, 0, int64(i)*s.Interval.Milliseconds())
		out := ctl.SampleForceFeedback(nil)
		logger.Info("tick",
			"i", i,
			"axisX", st.Axes[element.AxisX],
			"buttonA", st.Buttons[0],
			"leftMotor", out.LeftMotor,
			"rightMotor", out.RightMotor,
		)
	}

	events := ctl.EventBuffer().PopOldest(ctl.EventBuffer().Capacity())
	logger.Info("drained events", "count", len(events), "overflow", ctl.EventBuffer().Overflow())
	return nil
}
