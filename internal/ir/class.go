package ir

import (
	"fmt"
	"io"
	"sort"

	"github.com/pathway-lang/pathwayc/internal/identnorm"
)

// Class is a single target-VM class: its own fields/methods plus, for
// prototype-language user types, nested child classes.
type Class struct {
	SimpleName      string
	FullyQualified  string
	Parent          string
	Accessibility   ClassAccessibility
	IsStatic        bool
	BeforeFieldInit bool

	children map[string]*Class
	fields   map[string]*Field
	methods  map[string]*Method
}

// NewClass builds a Class whose parent defaults to the target VM's root
// object when none is supplied.
func NewClass(simpleName, fullyQualified string, accessibility ClassAccessibility, parent string) *Class {
	if parent == "" {
		parent = RootObject
	}
	return &Class{
		SimpleName:     simpleName,
		FullyQualified: fullyQualified,
		Parent:         parent,
		Accessibility:  accessibility,
		children:       map[string]*Class{},
		fields:         map[string]*Field{},
		methods:        map[string]*Method{},
	}
}

// InsertChild adds a nested class. Its accessibility must be one of the
// Nested* variants; violating that is a programming error, never a
// user-observable one, so it panics.
func (c *Class) InsertChild(child *Class) {
	if !child.Accessibility.IsNested() {
		panic("ir: child class must use a nested accessibility modifier")
	}
	c.children[child.SimpleName] = child
}

// InsertField adds or replaces a field by name.
func (c *Class) InsertField(f *Field) {
	c.fields[f.Name] = f
}

// InsertMethod adds or replaces a method by name.
func (c *Class) InsertMethod(m *Method) {
	c.methods[m.Name] = m
}

// Method looks up a previously inserted method by name.
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Child looks up a previously inserted nested class by name.
func (c *Class) Child(name string) (*Class, bool) {
	ch, ok := c.children[name]
	return ch, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Write renders the class header, then its fields, methods, and nested
// children, each sorted by name so the output is reproducible run to run
// — downstream tooling diffs it.
func (c *Class) Write(w io.Writer) error {
	header := []string{".class", c.Accessibility.String()}
	if c.IsStatic {
		header = append(header, "abstract", "sealed")
	}
	if c.BeforeFieldInit {
		header = append(header, "beforefieldinit")
	}
	header = append(header, fmt.Sprintf("'%s'", identnorm.Normalize(c.SimpleName)), "extends", c.Parent, "{")

	if _, err := fmt.Fprintln(w, joinSpace(header)); err != nil {
		return err
	}

	for _, name := range sortedKeys(c.fields) {
		if err := c.fields[name].Write(w); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(c.methods) {
		if err := c.methods[name].Write(w); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(c.children) {
		if err := c.children[name].Write(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
