package semantic

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/source"
)

func userLoc(line int) source.Location {
	return source.Location{File: "game.src", Line: line, Column: 1}
}

func builtinLoc(line int) source.Location {
	return source.Location{File: source.BuiltinFile, Line: line, Column: 1}
}

func TestBuildPrefersInstalledBuiltinOverTreeDeclaration(t *testing.T) {
	tree := source.NewTree()
	tree.RootNode().AddProc("abs", source.Value{Location: builtinLoc(1)})

	state := Build(tree, &diag.Sink{})

	abs := state.GlobalProcs["abs"]
	require.NotNil(t, abs)
	require.Equal(t, model.SourceStd, abs.Source.Kind)
	require.Equal(t, model.StdAbs, abs.Source.Std.Kind)
}

func TestBuildStubsUnknownBuiltinAsUnimplemented(t *testing.T) {
	tree := source.NewTree()
	tree.RootNode().AddProc("alert", source.Value{Location: builtinLoc(1)})

	state := Build(tree, &diag.Sink{})

	alert := state.GlobalProcs["alert"]
	require.NotNil(t, alert)
	require.Equal(t, model.SourceStd, alert.Source.Kind)
	require.Equal(t, model.StdUnimplemented, alert.Source.Std.Kind)
	require.Equal(t, "alert", alert.Source.Std.UnimplName)
}

func TestBuildGlobalVarsResolveTypeInitializerAndMutability(t *testing.T) {
	tree := source.NewTree()
	ten := int32(10)
	tree.RootNode().AddVar("score", source.Variable{
		Declaration: &source.Declaration{IsConst: true},
		Value: source.Value{
			Location: userLoc(1),
			Constant: &source.ConstantLiteral{Kind: source.ConstantInt, Int: ten},
		},
	})
	tree.RootNode().AddVar("target", source.Variable{
		Declaration: &source.Declaration{VarType: source.VarType{TypePath: source.TypePath{"mob"}}},
		Value:       source.Value{Location: userLoc(2)},
	})

	state := Build(tree, &diag.Sink{})

	score := state.GlobalVars["score"]
	require.NotNil(t, score)
	require.Equal(t, model.Constant, score.Mutability)
	require.NotNil(t, score.Initializer)
	require.Equal(t, model.InitConstant, score.Initializer.Kind)
	require.Equal(t, ten, score.Initializer.Constant.Int)

	target := state.GlobalVars["target"]
	require.NotNil(t, target)
	require.Equal(t, model.ObjectType, target.Type.Kind)
	require.Equal(t, "/mob", target.Type.Path.String())
	require.Nil(t, target.Initializer)
	require.Equal(t, model.Normal, target.Mutability)
}

func TestBuildWarnsAndSkipsMultiValueProc(t *testing.T) {
	tree := source.NewTree()
	tree.RootNode().AddProc("clash", source.Value{Location: userLoc(1)})
	tree.RootNode().AddProc("clash", source.Value{Location: userLoc(2)})

	sink := &diag.Sink{}
	state := Build(tree, sink)

	_, ok := state.GlobalProcs["clash"]
	require.False(t, ok)
	require.Len(t, sink.Warnings, 1)
	require.Contains(t, sink.Warnings[0].Message, "clash")
}

func TestBuildUserTypesKeyedByRootedPath(t *testing.T) {
	tree := source.NewTree()
	mob := source.NewNode(source.TypePath{"mob"})
	mob.AddProc("bark", source.Value{Location: userLoc(3)})
	dog := source.NewNode(source.TypePath{"mob", "dog"})
	mob.AddChild(dog)
	tree.RootNode().AddChild(mob)

	state := Build(tree, &diag.Sink{})

	keys := make([]string, 0, len(state.Types))
	for key := range state.Types {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	// /world comes from the built-in installer.
	if diff := cmp.Diff([]string{"/mob", "/mob/dog", "/world"}, keys); diff != "" {
		t.Fatalf("type table keys mismatch (-want +got):\n%s", diff)
	}

	for key, typ := range state.Types {
		require.Equal(t, key, typ.Path.Key())
		require.Equal(t, typ.Path.LastSegment(), typ.Path.Segments()[typ.Path.SegmentCount()-1])
	}

	mobType := state.Types["/mob"]
	if diff := cmp.Diff([]string{"dog"}, mobType.Children); diff != "" {
		t.Fatalf("mob children mismatch (-want +got):\n%s", diff)
	}
	bark := mobType.Procs["bark"]
	require.NotNil(t, bark)
	require.Equal(t, model.SourceCode, bark.Source.Kind)
	require.False(t, bark.IsStatic)
}
