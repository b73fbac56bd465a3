// Package semantic builds a model.State from a parsed object tree: it
// flattens the source language's prototype/path
// hierarchy into the compiler's own type table, resolving globals,
// procedures, parameters, and initializers, after first seeding the state
// with the built-in library so built-ins-file entries for names the
// installer already provides are skipped. A global proc declared in user
// code replaces an installed proc of the same name.
package semantic

import (
	"github.com/pathway-lang/pathwayc/internal/builtins"
	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// Build walks tree and returns a fully-populated model.State. Warnings
// (over-declared procs, in particular) are recorded on sink; nothing here
// aborts the walk.
func Build(tree source.ObjectTree, sink *diag.Sink) *model.State {
	state := model.NewState()
	builtins.Install(state)

	root := tree.Root()
	buildGlobalVars(state, root)
	buildGlobalProcs(state, root, sink)
	buildUserTypes(state, root, path.New(nil, true), sink)

	return state
}

func buildGlobalVars(state *model.State, root source.ObjectNode) {
	for name, v := range root.Vars() {
		if v.Declaration == nil {
			panic("semantic: global var " + name + " has no declaration")
		}
		varType := resolveVarType(v.Declaration.VarType)

		gv := &model.GlobalVar{Name: name, Type: varType}
		gv.Initializer = resolveInitializer(v.Value)
		if v.Declaration.IsConst {
			gv.Mutability = model.Constant
		}
		state.GlobalVars[name] = gv
	}
}

func resolveVarType(vt source.VarType) model.VariableType {
	if len(vt.TypePath) == 0 {
		return model.VariableType{Kind: model.Unspecified}
	}
	return model.VariableType{
		Kind: model.ObjectType,
		Path: path.New(vt.TypePath, true),
	}
}

func resolveInitializer(v source.Value) *model.VariableInitializer {
	if v.Constant != nil {
		return &model.VariableInitializer{
			Kind:     model.InitConstant,
			Constant: resolveConstant(*v.Constant),
		}
	}
	if v.Expression != nil {
		return &model.VariableInitializer{
			Kind: model.InitExpression,
			Expr: v.Expression,
		}
	}
	return nil
}

func resolveConstant(c source.ConstantLiteral) model.ConstantValue {
	switch c.Kind {
	case source.ConstantNull:
		return model.ConstantValue{Kind: model.ConstNull}
	case source.ConstantInt:
		return model.ConstantValue{Kind: model.ConstInt, Int: c.Int}
	case source.ConstantFloat:
		return model.ConstantValue{Kind: model.ConstFloat, Float: c.Float}
	case source.ConstantString:
		return model.ConstantValue{Kind: model.ConstString, String: c.String}
	default:
		return model.ConstantValue{Kind: model.ConstOther}
	}
}

func buildGlobalProcs(state *model.State, root source.ObjectNode, sink *diag.Sink) {
	for name, decl := range root.Procs() {
		if len(decl.Values) > 1 {
			sink.Warnf("Skipping proc with multiple values: %s", name)
			continue
		}
		value := decl.Values[0]

		if value.Location.IsBuiltin() {
			if _, already := state.GlobalProcs[name]; already {
				// Implemented std proc that already exists: skip.
				continue
			}
			stub := &model.Proc{
				Name: name,
				Source: model.ProcSource{
					Kind: model.SourceStd,
					Std:  model.StdProc{Kind: model.StdUnimplemented, UnimplName: name},
				},
				IsStatic: true,
			}
			state.GlobalProcs[name] = stub
			continue
		}

		proc := &model.Proc{
			Name: name,
			Source: model.ProcSource{
				Kind:     model.SourceCode,
				Location: value.Location,
			},
			Parameters: translateParams(value.Parameters),
			IsStatic:   true,
		}
		state.GlobalProcs[name] = proc
	}
}

func translateParams(params []source.Parameter) []model.ProcParameter {
	out := make([]model.ProcParameter, 0, len(params))
	for _, p := range params {
		out = append(out, model.ProcParameter{
			Name: p.Name,
			Type: resolveVarType(p.VarType),
		})
	}
	return out
}

func buildUserTypes(state *model.State, node source.ObjectNode, parentPath path.Path, sink *diag.Sink) {
	for _, child := range node.Children() {
		segments := append(append([]string{}, parentPath.Segments()...), child.Name())
		childPath := path.New(segments, true)

		typ := model.NewType(childPath)
		for name, decl := range child.Procs() {
			if len(decl.Values) > 1 {
				sink.Warnf("Skipping proc with multiple values: %s", name)
				continue
			}
			value := decl.Values[0]
			typ.Procs[name] = &model.Proc{
				Name: name,
				Source: model.ProcSource{
					Kind:     model.SourceCode,
					Location: value.Location,
				},
				Parameters: translateParams(value.Parameters),
			}
		}
		for _, grandchild := range child.Children() {
			typ.Children = append(typ.Children, grandchild.Name())
		}

		state.Types[childPath.Key()] = typ
		buildUserTypes(state, child, childPath, sink)
	}
}
