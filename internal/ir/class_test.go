package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassEmitsFieldsMethodsChildrenSortedByName(t *testing.T) {
	c := NewClass("Root", "Root", ClassPublic, "")
	c.InsertField(&Field{Name: "zeta", TypeName: "object", Accessibility: Public, IsStatic: true})
	c.InsertField(&Field{Name: "alpha", TypeName: "object", Accessibility: Public, IsStatic: true})
	c.InsertMethod(NewMethod("zzz", "void", Public, NotVirtual, true))
	c.InsertMethod(NewMethod("aaa", "void", Public, NotVirtual, true))
	c.InsertChild(NewClass("Zeb", "Root/Zeb", ClassNestedPublic, "Root"))
	c.InsertChild(NewClass("Abe", "Root/Abe", ClassNestedPublic, "Root"))

	var out strings.Builder
	require.NoError(t, c.Write(&out))
	text := out.String()

	alphaIdx := strings.Index(text, "'alpha'")
	zetaIdx := strings.Index(text, "'zeta'")
	require.True(t, alphaIdx < zetaIdx, "fields must be in ascending name order")

	aaaIdx := strings.Index(text, "'aaa'")
	zzzIdx := strings.Index(text, "'zzz'")
	require.True(t, aaaIdx < zzzIdx, "methods must be in ascending name order")

	abeIdx := strings.Index(text, "'Abe'")
	zebIdx := strings.Index(text, "'Zeb'")
	require.True(t, abeIdx < zebIdx, "children must be in ascending name order")
}

func TestInsertChildRequiresNestedAccessibility(t *testing.T) {
	c := NewClass("Root", "Root", ClassPublic, "")
	require.Panics(t, func() {
		c.InsertChild(NewClass("Bad", "Root/Bad", ClassPublic, "Root"))
	})
}

func TestClassHeaderDefaultsToRootObjectParent(t *testing.T) {
	c := NewClass("Root", "Root", ClassPublic, "")
	var out strings.Builder
	require.NoError(t, c.Write(&out))
	require.Contains(t, out.String(), "extends "+RootObject)
}

func TestStaticClassEmitsAbstractSealed(t *testing.T) {
	c := NewClass("Holder", "Root/Holder", ClassNestedPublic, "Root")
	c.IsStatic = true
	var out strings.Builder
	require.NoError(t, c.Write(&out))
	require.Contains(t, out.String(), "abstract sealed")
}
