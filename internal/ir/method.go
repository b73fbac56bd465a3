package ir

import (
	"fmt"
	"io"

	"github.com/pathway-lang/pathwayc/internal/identnorm"
)

// DefaultMaxStack is the conservative default maxstack value a Method gets
// unless the emitter knows it needs fewer or more slots.
const DefaultMaxStack = 32

// Param is a single method parameter: its declared type and its name.
type Param struct {
	Name     string
	TypeName string
}

// Local is a single method local variable slot's declared type. Locals are
// always referenced positionally, never by name, in emitted code.
type Local struct {
	TypeName string
}

// Method is a single method of a Class, including its complete
// instruction stream.
type Method struct {
	Name            string
	ReturnType      string
	Accessibility   Accessibility
	Code            InstructionBlob
	Virtuality      MethodVirtuality
	IsStatic        bool
	IsRTSpecialName bool
	IsSpecialName   bool
	Params          []Param
	Locals          []Local
	MaxStack        int
	IsEntryPoint    bool
}

// NewMethod builds a Method with the default maxstack.
func NewMethod(name, returnType string, accessibility Accessibility, virtuality MethodVirtuality, isStatic bool) *Method {
	return &Method{
		Name:          name,
		ReturnType:    returnType,
		Accessibility: accessibility,
		Virtuality:    virtuality,
		IsStatic:      isStatic,
		MaxStack:      DefaultMaxStack,
	}
}

func (m *Method) paramList() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = fmt.Sprintf("%s '%s'", p.TypeName, identnorm.Normalize(p.Name))
	}
	return joinCommaSpace(parts)
}

func (m *Method) localsDecl() string {
	if len(m.Locals) == 0 {
		return ""
	}
	parts := make([]string, len(m.Locals))
	for i, l := range m.Locals {
		parts[i] = fmt.Sprintf("[%d] %s", i, l.TypeName)
	}
	return ".locals init (" + joinCommaSpace(parts) + ")"
}

// Write renders the method's full `.method ... { ... }` declaration,
// including its entrypoint marker, maxstack, locals declaration, and code.
func (m *Method) Write(w io.Writer) error {
	header := []string{".method", "hidebysig"}
	if m.IsRTSpecialName {
		header = append(header, "rtspecialname")
	}
	if m.IsSpecialName {
		header = append(header, "specialname")
	}
	header = append(header, m.Accessibility.String())
	if v := m.Virtuality.String(); v != "" {
		header = append(header, v)
	}
	if m.IsStatic {
		header = append(header, "static")
	} else {
		header = append(header, "instance")
	}
	header = append(header, "default", m.ReturnType,
		fmt.Sprintf("'%s'", identnorm.Normalize(m.Name)),
		fmt.Sprintf("(%s)", m.paramList()),
		"cil", "managed", "{")

	if _, err := fmt.Fprintln(w, joinSpace(header)); err != nil {
		return err
	}

	if m.IsEntryPoint {
		if _, err := fmt.Fprintln(w, ".entrypoint"); err != nil {
			return err
		}
	}

	maxStack := m.MaxStack
	if maxStack == 0 {
		maxStack = DefaultMaxStack
	}
	if _, err := fmt.Fprintf(w, ".maxstack %d\n", maxStack); err != nil {
		return err
	}

	if decl := m.localsDecl(); decl != "" {
		if _, err := fmt.Fprintln(w, decl); err != nil {
			return err
		}
	}

	if err := m.Code.Write(w); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
