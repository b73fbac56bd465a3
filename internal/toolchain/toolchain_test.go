package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStub installs a shell script named name on PATH (via t.Setenv) that
// writes stdout/stderr and exits with the given code, standing in for a
// real ilasm/peverify the test environment has no reason to carry.
func writeStub(t *testing.T, name, stdout, stderr string, exitCode int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts are POSIX shell only")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, name)
	body := "#!/bin/sh\n"
	if stdout != "" {
		body += "printf '%s' " + shellQuote(stdout) + "\n"
	}
	if stderr != "" {
		body += "printf '%s' " + shellQuote(stderr) + " 1>&2\n"
	}
	body += "exit " + itoa(exitCode) + "\n"

	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func shellQuote(s string) string {
	return "'" + s + "'"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestAssembleSucceeds(t *testing.T) {
	writeStub(t, "ilasm", "Assembled successfully\n", "", 0)

	result, err := Assemble("program.il", "program.exe")
	require.NoError(t, err)
	require.True(t, result.Ok())
	require.Contains(t, result.Stdout, "Assembled successfully")
}

func TestAssembleFails(t *testing.T) {
	writeStub(t, "ilasm", "", "syntax error at line 3\n", 1)

	result, err := Assemble("broken.il", "broken.exe")
	require.NoError(t, err)
	require.False(t, result.Ok())
	require.Equal(t, 1, result.ExitCode)
	require.Contains(t, result.Stderr, "syntax error")
}

func TestVerifySucceeds(t *testing.T) {
	writeStub(t, "peverify", "All Classes and Methods in program.exe Verified.\n", "", 0)

	result, err := Verify("program.exe")
	require.NoError(t, err)
	require.True(t, result.Ok())
}

func TestVerifyFails(t *testing.T) {
	writeStub(t, "peverify", "", "[IL]: Error: type load failed\n", 2)

	result, err := Verify("bad.exe")
	require.NoError(t, err)
	require.False(t, result.Ok())
	require.Equal(t, 2, result.ExitCode)
}

func TestRunReportsMissingExecutable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Assemble("x.il", "x.exe")
	require.Error(t, err)
}
