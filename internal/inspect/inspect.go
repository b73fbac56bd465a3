// Package inspect is a read-only, `peterh/liner`-backed interactive shell
// for browsing an already-built model.State and ir.Assembly without
// re-running the compile pipeline: line editing with history, tab
// completion, and a prompt loop dispatching on leading `:`-commands.
package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// historyFileName lives in os.TempDir, one history per tool.
const historyFileName = ".pathwayc_inspect_history"

// Session is one inspector session over an already-compiled model and
// assembly. Nothing here mutates either.
type Session struct {
	State *model.State
	Asm   *ir.Assembly
	Root  *ir.Class
}

// NewSession builds a Session over a compiled model.State/ir.Assembly
// pair. root is the assembly's root class, the entry point for every
// browsing command.
func NewSession(state *model.State, asm *ir.Assembly, root *ir.Class) *Session {
	return &Session{State: state, Asm: asm, Root: root}
}

var commands = []string{
	":help", ":quit", ":types", ":globals", ":procs", ":il", ":clear",
}

// Start runs the interactive shell, reading lines from a liner.Liner
// until the user quits or sends EOF.
func (s *Session) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(input string) (c []string) {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("pathwayc"), bold("inspect"))
	fmt.Fprintln(out, "Type :help for commands, :quit to exit.")

	for {
		input, err := line.Prompt("inspect> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		line.AppendHistory(input)
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}

		s.dispatch(out, input)
	}

	if f, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (s *Session) dispatch(out io.Writer, input string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":help", ":h":
		s.printHelp(out)
	case ":types":
		s.printTypes(out)
	case ":globals":
		s.printGlobals(out)
	case ":procs":
		s.printProcs(out, fields[1:])
	case ":il":
		s.printIL(out, fields[1:])
	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("Error"), fields[0])
	}
}

func (s *Session) printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  :types              list every user type's path")
	fmt.Fprintln(out, "  :globals            list every global variable")
	fmt.Fprintln(out, "  :procs [type]        list procs on the root or a named type")
	fmt.Fprintln(out, "  :il <proc> [type]    print the emitted IL of one proc")
	fmt.Fprintln(out, "  :clear              clear the screen")
	fmt.Fprintln(out, "  :quit               exit")
}

func (s *Session) printTypes(out io.Writer) {
	names := make([]string, 0, len(s.State.Types))
	for key := range s.State.Types {
		names = append(names, key)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", cyan(name))
	}
}

func (s *Session) printGlobals(out io.Writer) {
	names := make([]string, 0, len(s.State.GlobalVars))
	for name := range s.State.GlobalVars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gv := s.State.GlobalVars[name]
		fmt.Fprintf(out, "  %s %s\n", yellow(name), mutabilityLabel(gv.Mutability))
	}
}

func mutabilityLabel(m model.Mutability) string {
	switch m {
	case model.Readonly:
		return "(readonly)"
	case model.Constant:
		return "(const)"
	default:
		return ""
	}
}

func (s *Session) printProcs(out io.Writer, args []string) {
	names := make([]string, 0, len(s.State.GlobalProcs))
	for name := range s.State.GlobalProcs {
		names = append(names, name)
	}
	if len(args) > 0 {
		typ, ok := s.State.Types[args[0]]
		if !ok {
			fmt.Fprintf(out, "%s: no such type %q\n", red("Error"), args[0])
			return
		}
		names = names[:0]
		for name := range typ.Procs {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", cyan(name))
	}
}

// printIL renders one proc's already-emitted method body by walking the
// Assembly's class tree — it never re-runs the transpiler.
func (s *Session) printIL(out io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(out, "%s: usage :il <proc> [type]\n", red("Error"))
		return
	}
	class := s.Root
	if len(args) > 1 {
		child, ok := findClass(s.Root, args[1])
		if !ok {
			fmt.Fprintf(out, "%s: no such type %q\n", red("Error"), args[1])
			return
		}
		class = child
	}
	m, ok := class.Method(args[0])
	if !ok {
		fmt.Fprintf(out, "%s: no such proc %q\n", red("Error"), args[0])
		return
	}
	if err := m.Write(out); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
	}
}

// findClass walks path segments through nested children starting at
// root, matching the source language's slash-delimited type path.
func findClass(root *ir.Class, typePath string) (*ir.Class, bool) {
	segments := strings.Split(strings.TrimPrefix(typePath, "/"), "/")
	current := root
	for _, seg := range segments {
		child, ok := current.Child(seg)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}
