package scenario

import (
	"fmt"
	"strings"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/emitdriver"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/semantic"
)

// Result is one scenario's compiled output: the rendered textual IL plus
// whatever errors/warnings the emission driver recorded along the way
// (a failed proc is omitted, never fatal to the run).
type Result struct {
	IL   string
	Sink *diag.Sink
}

// build runs the scenario through the semantic builder and the emission
// driver, the one compile pipeline both Compile and BuildModel drive.
func (s *Scenario) build() (*model.State, *ir.Assembly, *ir.Class, *diag.Sink, error) {
	tree, index, err := s.Build()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	sink := &diag.Sink{}
	state := semantic.Build(tree, sink)

	asm := emitdriver.Run(state, sink, emitdriver.Options{
		AssemblyName:  s.assemblyName(),
		RootClassName: s.rootClassName(),
		EntryProc:     s.entryProc(),
		Index:         index,
	})
	if len(asm.Classes) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("scenario: emission produced no root class")
	}
	return state, asm, asm.Classes[0], sink, nil
}

// BuildModel runs the scenario through the semantic builder and the
// emission driver, returning the raw model.State and ir.Assembly rather
// than rendered text — the shape `pathwayc inspect` needs to browse a
// compiled model directly instead of re-parsing its textual IL.
func (s *Scenario) BuildModel() (*model.State, *ir.Assembly, *ir.Class, *diag.Sink, error) {
	return s.build()
}

// Compile runs the scenario through the semantic builder and the
// emission driver, and renders the resulting Assembly to text — the same
// pipeline `pathwayc compile` drives for a real input file, minus the
// external assembler/verifier invocation.
func (s *Scenario) Compile() (*Result, error) {
	_, asm, _, sink, err := s.build()
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	if err := asm.Write(&out); err != nil {
		return nil, err
	}

	return &Result{IL: out.String(), Sink: sink}, nil
}

// CheckExpectations compares r's emitted IL against the scenario's
// il_contains assertions, returning one description per failed
// assertion. stdout_contains/exit_code describe running the assembled
// executable and can only be checked by a caller that actually invokes
// the toolchain package and executes the result; CheckExpectations never
// claims to verify those itself.
func (s *Scenario) CheckExpectations(r *Result) []string {
	var failures []string
	for _, want := range s.Expect.ILContains {
		if !strings.Contains(r.IL, want) {
			failures = append(failures, "expected IL to contain: "+want)
		}
	}
	return failures
}

// RenderDiagnostics formats sink's errors and warnings:
// "ERROR in proc <name>: <message>" and "WARNING: <text>",
// one per line, errors first.
func RenderDiagnostics(sink *diag.Sink) []string {
	lines := make([]string, 0, len(sink.Errors)+len(sink.Warnings))
	for _, e := range sink.Errors {
		lines = append(lines, "ERROR in proc "+e.ProcName+": "+e.Err.Message)
	}
	for _, w := range sink.Warnings {
		lines = append(lines, "WARNING: "+w.Message)
	}
	return lines
}
