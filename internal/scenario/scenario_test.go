package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testdataScenarios lists every end-to-end fixture under testdata/scenarios.
var testdataScenarios = []string{
	"empty_proc.yaml",
	"world_output.yaml",
	"arithmetic.yaml",
	"if_else.yaml",
	"while_break.yaml",
	"readonly_global.yaml",
}

func TestTestdataScenariosCompileAndSatisfyExpectations(t *testing.T) {
	for _, name := range testdataScenarios {
		name := name
		t.Run(name, func(t *testing.T) {
			s, err := LoadFile(filepath.Join("..", "..", "testdata", "scenarios", name))
			require.NoError(t, err)

			result, err := s.Compile()
			require.NoError(t, err)
			require.False(t, result.Sink.HasErrors(), "unexpected compile errors: %v", result.Sink.Errors)

			failures := s.CheckExpectations(result)
			require.Empty(t, failures, "scenario %s failed expectations:\n%s", name, failures)
		})
	}
}

func TestEmptyProcBodyIsLdnullStlocRet(t *testing.T) {
	s, err := LoadFile(filepath.Join("..", "..", "testdata", "scenarios", "empty_proc.yaml"))
	require.NoError(t, err)

	result, err := s.Compile()
	require.NoError(t, err)
	require.Contains(t, result.IL, "ldnull")
	require.Contains(t, result.IL, "stloc.0")
}

func TestRenderDiagnosticsFormatsPerSpec(t *testing.T) {
	s := &Scenario{
		Name:      "broken",
		RootClass: "Program",
		EntryProc: "main",
		Tree: TreeSpec{
			Procs: map[string]ProcSpec{
				"main": {
					Body: []StmtSpec{
						{Break: true},
					},
				},
			},
		},
	}

	result, err := s.Compile()
	require.NoError(t, err)
	require.True(t, result.Sink.HasErrors())

	lines := RenderDiagnostics(result.Sink)
	require.Contains(t, lines, "ERROR in proc main: Encountered break outside loop")
}
