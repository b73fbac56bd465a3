package ir

import (
	"fmt"
	"io"
)

// codePart is either an instruction or a label marker, in emission order.
type codePart struct {
	isLabel bool
	instr   Instruction
	label   string
}

// InstructionBlob is an append-only ordered sequence of instructions and
// labels. It is the unit the procedure transpiler builds method bodies out
// of, one per lexical subexpression, absorbing smaller blobs into larger
// ones as it walks back up the tree.
type InstructionBlob struct {
	parts []codePart
}

// Push appends an instruction to the blob.
func (b *InstructionBlob) Push(instr Instruction) {
	b.parts = append(b.parts, codePart{instr: instr})
}

// Label appends a label marker, bound to whatever code part follows it.
func (b *InstructionBlob) Label(name string) {
	b.parts = append(b.parts, codePart{isLabel: true, label: name})
}

// Absorb splices another blob onto the end of this one, consuming it. The
// other blob is left empty.
func (b *InstructionBlob) Absorb(other *InstructionBlob) {
	b.parts = append(b.parts, other.parts...)
	other.parts = nil
}

// Len reports the number of code parts (instructions plus labels) in the
// blob. Primarily useful in tests.
func (b *InstructionBlob) Len() int {
	return len(b.parts)
}

// NotImplemented appends the idiomatic "this isn't done yet" body: push the
// reason string, construct a NotImplementedException, and throw it.
func (b *InstructionBlob) NotImplemented(reason string) {
	b.Push(LdStr(reason))
	b.Push(NewObj("instance void [mscorlib]System.NotImplementedException::'.ctor'(string)"))
	b.Push(Throw)
}

// Write renders every code part in order: each instruction on its own
// line, each label inline with the code part that follows it.
func (b *InstructionBlob) Write(w io.Writer) error {
	for _, part := range b.parts {
		if part.isLabel {
			if _, err := fmt.Fprintf(w, "%s: ", part.label); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, part.instr.Format()); err != nil {
			return err
		}
	}
	return nil
}
