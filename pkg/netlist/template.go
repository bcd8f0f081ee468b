// Package netlist builds generated-cell netlists without a hand-drawn
// schematic symbol.
//
// A Template starts from a placeholder reference instance and its pin
// list. Callers append concrete instances (or transistor primitives) with
// explicit connection lists, then Finalize strips the placeholder and its
// pins, leaving only the instances the generator added. This replaces the
// array-then-replace indirection of schematic databases with a direct
// builder over netlist nodes.
package netlist

import (
	clamperr "github.com/jmorra/clampgen/pkg/errors"
)

// RefInstance is the placeholder instance every fresh template contains.
const RefInstance = "XINST"

// refPins are the placeholder's pins, removed on Finalize.
var refPins = []string{"IN", "OUT", "VSUP"}

// Conn binds an instance terminal to a net.
type Conn struct {
	Term string
	Net  string
}

// Instance is one netlist node: a named cell instantiation with its
// terminal connections.
type Instance struct {
	Name  string
	Lib   string
	Cell  string
	Conns []Conn
}

// MOSType selects a transistor flavor for AddTransistor.
type MOSType string

const (
	NCh MOSType = "nch"
	PCh MOSType = "pch"
)

// Template accumulates netlist instances for one generated cell.
// It is not safe for concurrent use.
type Template struct {
	insts     []Instance
	pins      []string
	finalized bool
}

// New returns a template holding the placeholder reference instance and
// its default pin list.
func New() *Template {
	return &Template{
		insts: []Instance{{Name: RefInstance}},
		pins:  append([]string(nil), refPins...),
	}
}

// Pins returns the template's current exported pin names.
func (t *Template) Pins() []string {
	return append([]string(nil), t.pins...)
}

// Instances returns the current instance list, placeholder included until
// Finalize runs.
func (t *Template) Instances() []Instance {
	return append([]Instance(nil), t.insts...)
}

// AddPin declares an exported pin on the generated cell.
func (t *Template) AddPin(name string) error {
	if t.finalized {
		return clamperr.New(clamperr.ErrCodeInvalidConfig, "template already finalized")
	}
	if name == "" {
		return clamperr.New(clamperr.ErrCodeInvalidConfig, "pin name must not be empty")
	}
	for _, p := range t.pins {
		if p == name {
			return clamperr.New(clamperr.ErrCodeInvalidConfig, "pin %q already declared", name)
		}
	}
	t.pins = append(t.pins, name)
	return nil
}

// AddInstance appends an instance of the named library cell with the given
// connections. Both lib and cell are required.
func (t *Template) AddInstance(name, lib, cell string, conns []Conn) error {
	if t.finalized {
		return clamperr.New(clamperr.ErrCodeInvalidConfig, "template already finalized")
	}
	if name == "" {
		return clamperr.New(clamperr.ErrCodeInvalidConfig, "instance name must not be empty")
	}
	if lib == "" || cell == "" {
		return clamperr.New(clamperr.ErrCodeInvalidConfig,
			"instance %q: both lib and cell names are required", name)
	}
	for _, inst := range t.insts {
		if inst.Name == name {
			return clamperr.New(clamperr.ErrCodeInvalidConfig, "instance %q already exists", name)
		}
	}
	t.insts = append(t.insts, Instance{
		Name:  name,
		Lib:   lib,
		Cell:  cell,
		Conns: append([]Conn(nil), conns...),
	})
	return nil
}

// AddInstanceModule would instantiate from an in-memory module definition
// instead of a library/cell pair. The path exists for API symmetry but is
// intentionally unimplemented.
func (t *Template) AddInstanceModule(name string, module any, conns []Conn) error {
	return clamperr.New(clamperr.ErrCodeUnsupported,
		"instance %q: direct module substitution without a lib/cell pair is not supported", name)
}

// AddTransistor appends a 4-terminal MOS primitive. Stacked devices come
// from the xbase stack library, plain devices from the primitive library.
func (t *Template) AddTransistor(name string, mos MOSType, stacked bool, conns []Conn) error {
	lib := "BAG_prim"
	if stacked {
		lib = "xbase"
	}
	var cell string
	switch mos {
	case NCh:
		cell = "nmos4_standard"
		if stacked {
			cell = "nmos4_stack"
		}
	case PCh:
		cell = "pmos4_standard"
		if stacked {
			cell = "pmos4_stack"
		}
	default:
		return clamperr.New(clamperr.ErrCodeInvalidConfig,
			"instance %q: unsupported transistor type %q", name, mos)
	}
	return t.AddInstance(name, lib, cell, conns)
}

// Finalize strips the placeholder instance and its pins and returns the
// remaining instances. The template rejects further additions afterwards.
func (t *Template) Finalize() ([]Instance, error) {
	if t.finalized {
		return nil, clamperr.New(clamperr.ErrCodeInvalidConfig, "template already finalized")
	}
	t.finalized = true

	kept := t.insts[:0]
	for _, inst := range t.insts {
		if inst.Name != RefInstance {
			kept = append(kept, inst)
		}
	}
	t.insts = kept

	pins := t.pins[:0]
	for _, p := range t.pins {
		if !isRefPin(p) {
			pins = append(pins, p)
		}
	}
	t.pins = pins

	return t.Instances(), nil
}

func isRefPin(name string) bool {
	for _, p := range refPins {
		if p == name {
			return true
		}
	}
	return false
}
