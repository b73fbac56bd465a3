// Package diag is the compiler's error/warning surface: a CompilerError
// type for per-proc failures that must not abort the whole compile, plus
// a Sink that collects both errors and warnings as the emission driver
// works through global and per-type procs.
package diag

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/source"
)

// CompilerError is raised inside the transpiler when an AST construct is
// unsupported, an identifier is unknown, a proc body cannot be located, or
// a labeled break/continue is seen. It is caught at the per-proc boundary,
// never lower, and never aborts the whole compile.
type CompilerError struct {
	Location    *source.Location
	EndLocation *source.Location
	Message     string
}

// New builds a CompilerError with no source location attached.
func New(message string) *CompilerError {
	return &CompilerError{Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(format string, args ...any) *CompilerError {
	return New(fmt.Sprintf(format, args...))
}

// At attaches a source location and returns the receiver, for chaining
// directly off New/Newf at the call site.
func (e *CompilerError) At(loc source.Location) *CompilerError {
	e.Location = &loc
	return e
}

func (e *CompilerError) Error() string {
	return e.Message
}

// Warning is printed and does not interrupt compilation. Used for
// multi-valued proc declarations and unsupported constant kinds in global
// initializers.
type Warning struct {
	Message string
}

// Sink collects every error and warning produced while compiling one
// translation unit, without ever aborting the walk that produces them.
type Sink struct {
	Errors   []ProcError
	Warnings []Warning
}

// ProcError pairs a CompilerError with the proc name it was raised while
// compiling, feeding the "ERROR in proc <name>: <message>" log line.
type ProcError struct {
	ProcName string
	Err      *CompilerError
}

// ReportProcError records that compiling procName failed; the caller
// drops the proc and continues with the rest of the compile.
func (s *Sink) ReportProcError(procName string, err *CompilerError) {
	s.Errors = append(s.Errors, ProcError{ProcName: procName, Err: err})
}

// Warn records a warning.
func (s *Sink) Warn(message string) {
	s.Warnings = append(s.Warnings, Warning{Message: message})
}

// Warnf is Warn with fmt.Sprintf-style formatting.
func (s *Sink) Warnf(format string, args ...any) {
	s.Warn(fmt.Sprintf(format, args...))
}

// HasErrors reports whether any proc failed to compile.
func (s *Sink) HasErrors() bool {
	return len(s.Errors) > 0
}
