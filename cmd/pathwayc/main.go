// Command pathwayc drives one whole compile: it loads a scenario's
// already-parsed source model (real parsing is an external concern
// pathwayc never implements), builds the compiler state, runs the
// emission driver, writes the resulting textual IL, and optionally hands
// it to the external assembler and verifier.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/pathway-lang/pathwayc/internal/inspect"
	"github.com/pathway-lang/pathwayc/internal/scenario"
	"github.com/pathway-lang/pathwayc/internal/toolchain"
)

// newFlagSet builds a FlagSet for one subcommand, exiting on a parse
// error exactly like the top-level flag.CommandLine does.
func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]
	rest := os.Args[2:]

	switch command {
	case "compile":
		runCompile(rest)
	case "inspect":
		runInspect(rest)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("pathwayc - the prototype-language to target-VM assembly compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pathwayc compile <input> [flags]")
	fmt.Println("  pathwayc inspect <input>")
	fmt.Println()
	fmt.Println("Flags (compile):")
	fmt.Println("  -o, --output PATH   output executable path (default: <input stem>.exe)")
	fmt.Println("  --noassemble        skip the assembler; only write textual IL (requires --il)")
	fmt.Println("  --nopeverify        skip the verification pass")
	fmt.Println("  --il PATH           path to dump the textual IL")
}

// compileFlags registers both a short and a long flag name for the
// output path; whichever the user set wins.
type compileFlags struct {
	output     string
	outputLong string
	noAssemble bool
	noPeVerify bool
	ilPath     string
}

func runCompile(args []string) {
	fs := newFlagSet("compile")
	var f compileFlags
	fs.StringVar(&f.output, "o", "", "output executable path")
	fs.StringVar(&f.outputLong, "output", "", "output executable path")
	fs.BoolVar(&f.noAssemble, "noassemble", false, "skip the assembler invocation")
	fs.BoolVar(&f.noPeVerify, "nopeverify", false, "skip the verifier invocation")
	fs.StringVar(&f.ilPath, "il", "", "path to dump the textual IL")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing input argument\n", red("Error"))
		fmt.Println("Usage: pathwayc compile <input> [flags]")
		os.Exit(1)
	}
	input := fs.Arg(0)

	output := f.output
	if output == "" {
		output = f.outputLong
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if output == "" {
		output = stem + ".exe"
	}

	// `--noassemble` with no `--il` would compile to nowhere; treat it as
	// a programming error and abort immediately.
	if f.noAssemble && f.ilPath == "" {
		panic("pathwayc: --noassemble requires --il")
	}

	s, err := scenario.LoadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	result, err := s.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	renderDiagnostics(result)

	ilPath := f.ilPath
	if ilPath == "" {
		tmp, err := os.CreateTemp("", stem+"-*.il")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		ilPath = tmp.Name()
		defer os.Remove(ilPath)
		tmp.Close()
	}

	if err := os.WriteFile(ilPath, []byte(result.IL), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: writing IL: %v\n", red("Error"), err)
		os.Exit(1)
	}

	if f.noAssemble {
		fmt.Printf("%s wrote IL to %s\n", green("OK"), ilPath)
		return
	}

	asmResult, err := toolchain.Assemble(ilPath, output)
	if err != nil || !asmResult.Ok() {
		fmt.Fprintf(os.Stderr, "%s: assembler failed\n%s", red("Error"), asmResult.Stderr)
		os.Exit(1)
	}

	if !f.noPeVerify {
		verResult, err := toolchain.Verify(output)
		if err != nil || !verResult.Ok() {
			fmt.Fprintf(os.Stderr, "%s: verifier failed\n%s", red("Error"), verResult.Stderr)
			os.Exit(1)
		}
	}

	fmt.Printf("%s compiled %s -> %s\n", green("OK"), input, output)
}

// renderDiagnostics prints every recorded error and warning, errors red,
// warnings yellow.
func renderDiagnostics(result *scenario.Result) {
	for _, e := range result.Sink.Errors {
		fmt.Fprintf(os.Stderr, "%s\n", red(fmt.Sprintf("ERROR in proc %s: %s", e.ProcName, e.Err.Message)))
	}
	for _, w := range result.Sink.Warnings {
		fmt.Fprintf(os.Stderr, "%s\n", yellow(fmt.Sprintf("WARNING: %s", w.Message)))
	}
}

func runInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing input argument\n", red("Error"))
		fmt.Println("Usage: pathwayc inspect <input>")
		os.Exit(1)
	}

	s, err := scenario.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	state, asm, root, sink, err := s.BuildModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	renderDiagnostics(&scenario.Result{Sink: sink})

	session := inspect.NewSession(state, asm, root)
	session.Start(os.Stdout)
}
