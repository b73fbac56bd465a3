// Package toolchain invokes the external assembler and verifier the
// emission driver hands its textual IL to: the compiler never assembles
// or verifies anything itself, it only shells out with a blocking
// exec.Command call, stdout/stderr captured separately, and surfaces the
// subprocess's exit status.
package toolchain

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Result captures one subprocess invocation's outcome.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Ok reports whether the subprocess exited zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// run is the shared blocking-subprocess plumbing: start name with args,
// capture stdout/stderr independently, and translate a non-zero exit into
// a Result rather than an error — the exit status is the only
// synchronization event this pipeline needs.
func run(name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return Result{}, fmt.Errorf("toolchain: starting %s: %w", name, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

// Assemble invokes `ilasm /exe /output:<outputPath> <ilPath>`. A non-zero
// exit is fatal for the whole run — the caller is expected to treat a
// non-nil error, or an Ok() false Result, as terminal.
func Assemble(ilPath, outputPath string) (Result, error) {
	return run("ilasm", "/exe", "/output:"+outputPath, ilPath)
}

// Verify invokes `peverify <outputPath>`.
func Verify(outputPath string) (Result, error) {
	return run("peverify", outputPath)
}
