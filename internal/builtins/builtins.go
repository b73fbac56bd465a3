// Package builtins seeds a model.State with the compiler's standard
// library before the semantic builder walks user code: the global math
// procs, the root `world` singleton type, and the `world` global
// variable.
package builtins

import (
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// WorldPath is the rooted path of the built-in world singleton type.
var WorldPath = path.New([]string{"world"}, true)

// Install populates state with the standard global procs and the world
// type/variable. It must run before the semantic builder, so that an
// `abs` entry the tree carries from the built-ins file resolves to the
// installer's version rather than a fresh Unimplemented stub.
func Install(state *model.State) {
	installMathProcs(state)
	installWorld(state)
}

func stdProc(name string, kind model.StdProcKind, params ...model.ProcParameter) *model.Proc {
	return &model.Proc{
		Name:       name,
		Parameters: params,
		Source: model.ProcSource{
			Kind: model.SourceStd,
			Std:  model.StdProc{Kind: kind},
		},
		IsStatic: true,
	}
}

func unspecified(name string) model.ProcParameter {
	return model.ProcParameter{Name: name, Type: model.VariableType{Kind: model.Unspecified}}
}

func installMathProcs(state *model.State) {
	abs := stdProc("abs", model.StdAbs, unspecified("A"))
	state.GlobalProcs[abs.Name] = abs

	sin := stdProc("sin", model.StdSin, unspecified("X"))
	state.GlobalProcs[sin.Name] = sin

	cos := stdProc("cos", model.StdCos, unspecified("X"))
	state.GlobalProcs[cos.Name] = cos

	// min/max are variadic in the source language but the installer only
	// ever aliases Abs's body for them — a known limitation. TODO: install
	// a real variadic lowering, or at minimum an Unimplemented stub.
	min := stdProc("min", model.StdAbs)
	min.VarArg = true
	state.GlobalProcs[min.Name] = min

	max := stdProc("max", model.StdAbs)
	max.VarArg = true
	state.GlobalProcs[max.Name] = max
}

func installWorld(state *model.State) {
	worldType := model.NewType(WorldPath)
	worldType.Special = model.WorldClass

	output := stdProc("output", model.StdWorldOutput, unspecified("O"))
	output.IsStatic = false
	worldType.Procs["output"] = output

	state.Types[WorldPath.Key()] = worldType

	state.GlobalVars["world"] = &model.GlobalVar{
		Name:       "world",
		Type:       model.VariableType{Kind: model.ObjectType, Path: WorldPath},
		Mutability: model.Readonly,
	}
}

// Unimplemented builds the stub Proc installed for a built-in name the
// parsed tree declares but pathwayc's own installer does not implement.
func Unimplemented(name string) *model.Proc {
	return &model.Proc{
		Name: name,
		Source: model.ProcSource{
			Kind:     model.SourceStd,
			Std:      model.StdProc{Kind: model.StdUnimplemented, UnimplName: name},
			Location: source.Location{},
		},
		IsStatic: true,
	}
}
