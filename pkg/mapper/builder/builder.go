// Package builder implements the Mapper Builder (C5): runtime assembly of
// new Mapper Layouts from a template plus per-element overrides, with
// cycle detection across template dependencies.
//
// The process-wide registry of built layouts is never an ambient global:
// callers construct a Registry explicitly at startup and hand it to every
// Builder that needs to publish into, or read from, it.
package builder

import (
	"sort"
	"sync"

	"github.com/joao678/Xidi-xtended/pkg/coreerr"
	"github.com/joao678/Xidi-xtended/pkg/element"
	"github.com/joao678/Xidi-xtended/pkg/mapper"

	"golang.org/x/exp/maps"
)

// Registry is the append-only, process-wide set of built layouts. Lookup
// is lock-free only in the sense that it never blocks on construction
// work; it still takes a read lock to protect the underlying map.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]*mapper.Layout
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]*mapper.Layout)}
}

// Get returns the layout registered under name, if any.
func (r *Registry) Get(name string) (*mapper.Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layouts[name]
	return l, ok
}

// Names returns every registered layout name, sorted for deterministic
// iteration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.layouts)
	sort.Strings(names)
	return names
}

func (r *Registry) register(name string, l *mapper.Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layouts[name]; ok {
		return coreerr.New(coreerr.InvalidArgument, "Registry.register", "layout %q already registered", name)
	}
	r.layouts[name] = l
	return nil
}

func (r *Registry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.layouts[name]
	return ok
}

type blueprint struct {
	name     string
	template string

	overrides map[element.Physical]mapper.ElementMapper
	cleared   map[element.Physical]bool
	actuators *[mapper.NumActuators]mapper.ActuatorMapping

	buildAttempted  bool
	buildCanAttempt bool
}

// Builder owns a set of named blueprints and assembles them into Layouts,
// publishing finished layouts into its Registry.
type Builder struct {
	mu         sync.Mutex
	registry   *Registry
	blueprints map[string]*blueprint
}

// New constructs a Builder that publishes into registry.
func New(registry *Registry) *Builder {
	return &Builder{registry: registry, blueprints: make(map[string]*blueprint)}
}

// CreateBlueprint registers a new, empty blueprint. Fails if a layout of
// that name is already registered globally, or a blueprint of that name
// already exists in this builder.
func (b *Builder) CreateBlueprint(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.registry.has(name) {
		return coreerr.New(coreerr.InvalidArgument, "Builder.CreateBlueprint", "layout %q already registered", name)
	}
	if _, ok := b.blueprints[name]; ok {
		return coreerr.New(coreerr.InvalidArgument, "Builder.CreateBlueprint", "blueprint %q already exists", name)
	}
	b.blueprints[name] = &blueprint{
		name:            name,
		overrides:       make(map[element.Physical]mapper.ElementMapper),
		cleared:         make(map[element.Physical]bool),
		buildCanAttempt: true,
	}
	return nil
}

func (b *Builder) mustGet(name, op string) (*blueprint, error) {
	bp, ok := b.blueprints[name]
	if !ok {
		return nil, coreerr.New(coreerr.ObjectNotFound, op, "blueprint %q not found", name)
	}
	return bp, nil
}

// SetBlueprintElementMapper records an override for one physical element.
func (b *Builder) SetBlueprintElementMapper(name string, elem element.Physical, m mapper.ElementMapper) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bp, err := b.mustGet(name, "Builder.SetBlueprintElementMapper")
	if err != nil {
		return err
	}
	delete(bp.cleared, elem)
	bp.overrides[elem] = m
	return nil
}

// ClearBlueprintElementMapper records that a physical element's mapper
// should be removed even if the template provides one.
func (b *Builder) ClearBlueprintElementMapper(name string, elem element.Physical) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bp, err := b.mustGet(name, "Builder.ClearBlueprintElementMapper")
	if err != nil {
		return err
	}
	delete(bp.overrides, elem)
	bp.cleared[elem] = true
	return nil
}

// SetBlueprintTemplate records which layout or blueprint this one builds on
// top of.
func (b *Builder) SetBlueprintTemplate(name, templateName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bp, err := b.mustGet(name, "Builder.SetBlueprintTemplate")
	if err != nil {
		return err
	}
	bp.template = templateName
	return nil
}

// SetBlueprintActuators overrides the actuator mapping for a blueprint.
func (b *Builder) SetBlueprintActuators(name string, actuators [mapper.NumActuators]mapper.ActuatorMapping) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bp, err := b.mustGet(name, "Builder.SetBlueprintActuators")
	if err != nil {
		return err
	}
	bp.actuators = &actuators
	return nil
}

// InvalidateBlueprint marks a blueprint as unbuildable until reconfigured.
func (b *Builder) InvalidateBlueprint(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bp, err := b.mustGet(name, "Builder.InvalidateBlueprint")
	if err != nil {
		return err
	}
	bp.buildCanAttempt = false
	return nil
}

// Build assembles and registers the named blueprint, recursively building
// its template first if needed. Cycle detection is exactly the
// buildAttempted re-entrance check: a blueprint whose build is already in
// flight, and that has not yet completed registration, is a cycle.
func (b *Builder) Build(name string) (*mapper.Layout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buildLocked(name)
}

func (b *Builder) buildLocked(name string) (*mapper.Layout, error) {
	if l, ok := b.registry.Get(name); ok {
		return l, nil
	}
	bp, err := b.mustGet(name, "Builder.Build")
	if err != nil {
		return nil, err
	}

	if bp.buildAttempted {
		return nil, coreerr.New(coreerr.CycleInDependencies, "Builder.Build", "circular template dependency at %q", name)
	}
	if !bp.buildCanAttempt {
		return nil, coreerr.New(coreerr.InvalidArgument, "Builder.Build", "blueprint %q has an invalid configuration", name)
	}
	bp.buildAttempted = true

	elements := make(map[element.Physical]mapper.ElementMapper)
	var actuators [mapper.NumActuators]mapper.ActuatorMapping

	if bp.template != "" {
		templateLayout, err := b.buildLocked(bp.template)
		if err != nil {
			return nil, err
		}
		elements = templateLayout.CloneElementMap()
	}

	for elem := range bp.cleared {
		delete(elements, elem)
	}
	for elem, m := range bp.overrides {
		elements[elem] = m
	}
	if bp.actuators != nil {
		actuators = *bp.actuators
	}

	layout, err := mapper.New(elements, actuators)
	if err != nil {
		return nil, err
	}
	if err := b.registry.register(name, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// BuildAll builds every blueprint not yet attempted and whose
// buildCanAttempt is true, in name order. Any failure propagates
// immediately.
func (b *Builder) BuildAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := maps.Keys(b.blueprints)
	sort.Strings(names)
	for _, name := range names {
		bp := b.blueprints[name]
		if bp.buildAttempted || !bp.buildCanAttempt {
			continue
		}
		if _, ok := b.registry.Get(name); ok {
			continue
		}
		if _, err := b.buildLocked(name); err != nil {
			return err
		}
	}
	return nil
}
