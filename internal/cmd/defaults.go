package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/mapper"
	"github.com/joao678/Xidi-xtended/pkg/mapper/builder"

	"gopkg.in/yaml.v3"
)

// buildDefaultBlueprints populates reg with the stock "xbox" blueprint and
// an "xbox-swapped" variant with the two sticks' X axes exchanged, then
// builds both.
// This is the layout set a fresh ximapperd install ships with; LoadBlueprintOverrides
// layers standalone blueprint files from configpaths.BlueprintDir on top of it at
// startup.
func buildDefaultBlueprints(reg *builder.Registry) error {
	b := builder.New(reg)

	if err := b.CreateBlueprint("xbox"); err != nil {
		return err
	}
	stock := map[element.Physical]mapper.ElementMapper{
		element.LeftStickX:  mapper.Axis{Target: element.AxisX},
		element.LeftStickY:  mapper.Axis{Target: element.AxisY},
		element.RightStickX: mapper.Axis{Target: element.AxisRotX},
		element.RightStickY: mapper.Axis{Target: element.AxisRotY},
		element.TriggerLT:   mapper.Axis{Target: element.AxisZ, Direction: mapper.Negative},
		element.TriggerRT:   mapper.Axis{Target: element.AxisZ, Direction: mapper.Positive},
		element.DPadUp:      mapper.PovDirection{Direction: element.HatUp},
		element.DPadDown:    mapper.PovDirection{Direction: element.HatDown},
		element.DPadLeft:    mapper.PovDirection{Direction: element.HatLeft},
		element.DPadRight:   mapper.PovDirection{Direction: element.HatRight},
		element.ButtonA:     mapper.Button{Target: 1},
		element.ButtonB:     mapper.Button{Target: 2},
		element.ButtonX:     mapper.Button{Target: 3},
		element.ButtonY:     mapper.Button{Target: 4},
		element.ButtonLB:    mapper.Button{Target: 5},
		element.ButtonRB:    mapper.Button{Target: 6},
		element.ButtonBack:  mapper.Button{Target: 7},
		element.ButtonStart: mapper.Button{Target: 8},
		element.ButtonLS:    mapper.Button{Target: 9},
		element.ButtonRS:    mapper.Button{Target: 10},
	}
	for elem, m := range stock {
		if err := b.SetBlueprintElementMapper("xbox", elem, m); err != nil {
			return err
		}
	}
	var actuators [mapper.NumActuators]mapper.ActuatorMapping
	actuators[mapper.LeftMotor] = mapper.ActuatorMapping{Present: true, AxisFirst: element.AxisX, AxisSecond: element.AxisY}
	actuators[mapper.RightMotor] = mapper.ActuatorMapping{Present: true, AxisFirst: element.AxisRotX, AxisSecond: element.AxisRotY}
	if err := b.SetBlueprintActuators("xbox", actuators); err != nil {
		return err
	}

	if err := b.CreateBlueprint("xbox-swapped"); err != nil {
		return err
	}
	if err := b.SetBlueprintTemplate("xbox-swapped", "xbox"); err != nil {
		return err
	}
	if err := b.SetBlueprintElementMapper("xbox-swapped", element.LeftStickX, mapper.Axis{Target: element.AxisRotX}); err != nil {
		return err
	}
	if err := b.SetBlueprintElementMapper("xbox-swapped", element.RightStickX, mapper.Axis{Target: element.AxisX}); err != nil {
		return err
	}

	return b.BuildAll()
}

// blueprintOverrideFile is the on-disk shape of one standalone blueprint
// file under configpaths.BlueprintDir: a named layout, optionally
// inheriting from one of the stock blueprints, with physical-element
// overrides expressed by name rather than Go identifier.
type blueprintOverrideFile struct {
	Template string            `json:"template" yaml:"template"`
	Axes     map[string]string `json:"axes" yaml:"axes"`
	Buttons  map[string]int    `json:"buttons" yaml:"buttons"`
}

// LoadBlueprintOverrides scans dir for standalone blueprint files
// (*.json, *.yaml, *.yml) and registers one blueprint per file, named
// after the file's stem, on top of whatever reg already holds. A missing
// dir is not an error: it just means no operator overrides are present.
func LoadBlueprintOverrides(reg *builder.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	b := builder.New(reg)
	built := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		var override blueprintOverrideFile
		if ext == ".json" {
			err = json.Unmarshal(data, &override)
		} else {
			err = yaml.Unmarshal(data, &override)
		}
		if err != nil {
			return fmt.Errorf("parse blueprint override %s: %w", entry.Name(), err)
		}
		if err := applyBlueprintOverride(b, name, override); err != nil {
			return err
		}
		built = true
	}
	if !built {
		return nil
	}
	return b.BuildAll()
}

func applyBlueprintOverride(b *builder.Builder, name string, override blueprintOverrideFile) error {
	if err := b.CreateBlueprint(name); err != nil {
		return err
	}
	if override.Template != "" {
		if err := b.SetBlueprintTemplate(name, override.Template); err != nil {
			return err
		}
	}
	for elemName, axisName := range override.Axes {
		phys, ok := physicalByName(elemName)
		if !ok {
			return coreerr.New(coreerr.InvalidArgument, "LoadBlueprintOverrides", "blueprint %q: unknown physical element %q", name, elemName)
		}
		axis, ok := axisByName(axisName)
		if !ok {
			return coreerr.New(coreerr.InvalidArgument, "LoadBlueprintOverrides", "blueprint %q: unknown axis %q", name, axisName)
		}
		if err := b.SetBlueprintElementMapper(name, phys, mapper.Axis{Target: axis}); err != nil {
			return err
		}
	}
	for elemName, target := range override.Buttons {
		phys, ok := physicalByName(elemName)
		if !ok {
			return coreerr.New(coreerr.InvalidArgument, "LoadBlueprintOverrides", "blueprint %q: unknown physical element %q", name, elemName)
		}
		if err := b.SetBlueprintElementMapper(name, phys, mapper.Button{Target: target}); err != nil {
			return err
		}
	}
	return nil
}

func physicalByName(name string) (element.Physical, bool) {
	for i := 0; i < element.NumPhysical; i++ {
		p := element.Physical(i)
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}

func axisByName(name string) (element.Axis, bool) {
	for i := 0; i < element.NumAxes; i++ {
		a := element.Axis(i)
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}
