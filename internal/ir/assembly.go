package ir

import (
	"fmt"
	"io"
)

// Assembly is the top-level unit of output: a name, its extern assembly
// references, and its top-level classes.
type Assembly struct {
	Name    string
	Externs []string
	Classes []*Class
}

// NewAssembly builds an empty Assembly with the given name.
func NewAssembly(name string) *Assembly {
	return &Assembly{Name: name}
}

// AddExtern records a reference to an external assembly by name.
func (a *Assembly) AddExtern(name string) {
	a.Externs = append(a.Externs, name)
}

// AddClass appends a top-level class.
func (a *Assembly) AddClass(c *Class) {
	a.Classes = append(a.Classes, c)
}

// Write renders the extern declarations, the assembly/module headers, and
// then every top-level class in the order they were added.
func (a *Assembly) Write(w io.Writer) error {
	for _, ext := range a.Externs {
		if _, err := fmt.Fprintf(w, ".assembly extern '%s' {}\n", ext); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, ".assembly '%s' {}\n", a.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, ".module %s.dll\n", a.Name); err != nil {
		return err
	}

	for _, c := range a.Classes {
		if err := c.Write(w); err != nil {
			return err
		}
	}
	return nil
}
