package ir

import (
	"fmt"
	"io"

	"github.com/pathway-lang/pathwayc/internal/identnorm"
)

// Field is a single static or instance field of a Class.
type Field struct {
	Name          string
	TypeName      string
	Accessibility Accessibility
	IsStatic      bool
	IsInitOnly    bool
}

// Write renders `.field <accessibility> [static] [initonly] <type> '<name>'`.
func (f *Field) Write(w io.Writer) error {
	parts := []string{".field", f.Accessibility.String()}
	if f.IsStatic {
		parts = append(parts, "static")
	}
	if f.IsInitOnly {
		parts = append(parts, "initonly")
	}
	parts = append(parts, f.TypeName, fmt.Sprintf("'%s'", identnorm.Normalize(f.Name)))
	_, err := fmt.Fprintln(w, joinSpace(parts))
	return err
}
