// Package ir is the structured, textually serializable model of target-VM
// metadata: instructions, instruction blobs, and the assembly/class/field/
// method tree that the emission driver serializes to assembler input.
package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// opKind tags which of the fixed target-VM opcodes an Instruction carries.
// Unexported: callers build instructions with the constructor functions
// below, never by touching opKind directly.
type opKind int

const (
	opNop opKind = iota
	opPop
	opDup
	opRet
	opThrow

	opLdNull
	opLdC4
	opLdC4_0
	opLdC4_1
	opLdCR4
	opLdStr
	opLdToken

	opLdArg
	opLdArg0
	opLdArg1
	opLdLoc
	opLdLoc0
	opStLoc
	opStLoc0

	opLdFld
	opLdSFld
	opStSFld

	opCall
	opCallVirt
	opNewObj
	opNewArr

	opBr
	opBrTrue
	opBrFalse

	opBox
	opUnbox
	opUnboxAny
	opCastClass
	opConvR4
	opConvR8

	opStElemRef
)

// Instruction is a single target-VM opcode with whatever payload its
// variant carries (none, a small integer, or an opaque metadata/label
// string). Values are immutable and created only via the constructors
// below, so an Instruction is always one of the fixed opcode variants.
type Instruction struct {
	op   opKind
	i32  int32
	u16  uint16
	f32  float32
	meta string
}

// Stack manipulation, no payload.
var (
	Nop   = Instruction{op: opNop}
	Pop   = Instruction{op: opPop}
	Dup   = Instruction{op: opDup}
	Ret   = Instruction{op: opRet}
	Throw = Instruction{op: opThrow}
)

// Constants.
var (
	LdNull = Instruction{op: opLdNull}
	LdC4_0 = Instruction{op: opLdC4_0}
	LdC4_1 = Instruction{op: opLdC4_1}
)

// LdC4 loads a literal 32-bit integer constant.
func LdC4(v int32) Instruction { return Instruction{op: opLdC4, i32: v} }

// LdCR4 loads a literal 32-bit float constant.
func LdCR4(v float32) Instruction { return Instruction{op: opLdCR4, f32: v} }

// LdStr loads a string literal.
func LdStr(s string) Instruction { return Instruction{op: opLdStr, meta: s} }

// LdToken loads a metadata token for the given fully-qualified signature.
func LdToken(meta string) Instruction { return Instruction{op: opLdToken, meta: meta} }

// Locals/args.
var (
	LdArg0 = Instruction{op: opLdArg0}
	LdArg1 = Instruction{op: opLdArg1}
	LdLoc0 = Instruction{op: opLdLoc0}
	StLoc0 = Instruction{op: opStLoc0}
)

func LdArg(idx uint16) Instruction { return Instruction{op: opLdArg, u16: idx} }
func LdLoc(idx uint16) Instruction { return Instruction{op: opLdLoc, u16: idx} }
func StLoc(idx uint16) Instruction { return Instruction{op: opStLoc, u16: idx} }

// Fields.
func LdFld(meta string) Instruction  { return Instruction{op: opLdFld, meta: meta} }
func LdSFld(meta string) Instruction { return Instruction{op: opLdSFld, meta: meta} }
func StSFld(meta string) Instruction { return Instruction{op: opStSFld, meta: meta} }

// Calls.
func Call(meta string) Instruction     { return Instruction{op: opCall, meta: meta} }
func CallVirt(meta string) Instruction { return Instruction{op: opCallVirt, meta: meta} }
func NewObj(meta string) Instruction   { return Instruction{op: opNewObj, meta: meta} }
func NewArr(meta string) Instruction   { return Instruction{op: opNewArr, meta: meta} }

// Control flow. label is a bare label name, not quoted.
func Br(label string) Instruction      { return Instruction{op: opBr, meta: label} }
func BrTrue(label string) Instruction  { return Instruction{op: opBrTrue, meta: label} }
func BrFalse(label string) Instruction { return Instruction{op: opBrFalse, meta: label} }

// Type conversion.
func Box(meta string) Instruction       { return Instruction{op: opBox, meta: meta} }
func Unbox(meta string) Instruction     { return Instruction{op: opUnbox, meta: meta} }
func UnboxAny(meta string) Instruction  { return Instruction{op: opUnboxAny, meta: meta} }
func CastClass(meta string) Instruction { return Instruction{op: opCastClass, meta: meta} }

var (
	ConvR4 = Instruction{op: opConvR4}
	ConvR8 = Instruction{op: opConvR8}
)

// Array.
var StElemRef = Instruction{op: opStElemRef}

// quoteString renders a Go string as a double-quoted IL string literal,
// escaping backslashes and embedded quotes.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatF32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Format renders the instruction to its canonical target-VM mnemonic. It
// is a pure function of the instruction alone.
func (i Instruction) Format() string {
	switch i.op {
	case opNop:
		return "nop"
	case opPop:
		return "pop"
	case opDup:
		return "dup"
	case opRet:
		return "ret"
	case opThrow:
		return "throw"

	case opLdNull:
		return "ldnull"
	case opLdC4:
		return fmt.Sprintf("ldc.i4 %d", i.i32)
	case opLdC4_0:
		return "ldc.i4.0"
	case opLdC4_1:
		return "ldc.i4.1"
	case opLdCR4:
		return fmt.Sprintf("ldc.r4 %s", formatF32(i.f32))
	case opLdStr:
		return fmt.Sprintf("ldstr %s", quoteString(i.meta))
	case opLdToken:
		return fmt.Sprintf("ldtoken %s", i.meta)

	case opLdArg:
		return fmt.Sprintf("ldarg %d", i.u16)
	case opLdArg0:
		return "ldarg.0"
	case opLdArg1:
		return "ldarg.1"
	case opLdLoc:
		return fmt.Sprintf("ldloc %d", i.u16)
	case opLdLoc0:
		return "ldloc.0"
	case opStLoc:
		return fmt.Sprintf("stloc %d", i.u16)
	case opStLoc0:
		return "stloc.0"

	case opLdFld:
		return fmt.Sprintf("ldfld %s", i.meta)
	case opLdSFld:
		return fmt.Sprintf("ldsfld %s", i.meta)
	case opStSFld:
		return fmt.Sprintf("stsfld %s", i.meta)

	case opCall:
		return fmt.Sprintf("call %s", i.meta)
	case opCallVirt:
		return fmt.Sprintf("callvirt %s", i.meta)
	case opNewObj:
		return fmt.Sprintf("newobj %s", i.meta)
	case opNewArr:
		return fmt.Sprintf("newarr %s", i.meta)

	case opBr:
		return fmt.Sprintf("br %s", i.meta)
	case opBrTrue:
		return fmt.Sprintf("brtrue %s", i.meta)
	case opBrFalse:
		return fmt.Sprintf("brfalse %s", i.meta)

	case opBox:
		return fmt.Sprintf("box %s", i.meta)
	case opUnbox:
		return fmt.Sprintf("unbox %s", i.meta)
	case opUnboxAny:
		return fmt.Sprintf("unbox.any %s", i.meta)
	case opCastClass:
		return fmt.Sprintf("castclass %s", i.meta)
	case opConvR4:
		return "conv.r4"
	case opConvR8:
		return "conv.r8"

	case opStElemRef:
		return "stelem.ref"
	}
	panic("ir: unhandled instruction kind")
}
