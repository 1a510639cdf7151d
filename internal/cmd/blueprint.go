package cmd

import (
	"log/slog"

	"github.com/joao678/Xidi-xtended/internal/configpaths"
	"github.com/joao678/Xidi-xtended/pkg/mapper/builder"
)

// Blueprint inspects the default blueprint set without running a serve
// loop: useful for validating that a blueprint builds cleanly and for
// listing what it exposes.
type Blueprint struct {
	List bool `help:"List every registered blueprint and its capabilities" default:"true"`
}

// Run is called by Kong when the blueprint command is executed.
func (b *Blueprint) Run(logger *slog.Logger) error {
	reg := builder.NewRegistry()
	if err := buildDefaultBlueprints(reg); err != nil {
		return err
	}
	if dir, err := configpaths.BlueprintDir(); err == nil {
		if err := LoadBlueprintOverrides(reg, dir); err != nil {
			return err
		}
	}
	if !b.List {
		return nil
	}
	for _, name := range reg.Names() {
		layout, _ := reg.Get(name)
		caps := layout.Capabilities()
		logger.Info("blueprint",
			"name", name,
			"axes", caps.NumAxes(),
			"buttons", caps.NumButtons,
			"hasHat", caps.HasHat,
		)
	}
	return nil
}
