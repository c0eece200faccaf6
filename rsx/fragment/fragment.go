// Package fragment implements the linear-scan analyzer for RSX fragment
// program microcode (C2). Unlike the vertex-program analyzer, it never
// branches: fragment programs are walked strictly in instruction order
// until the end-of-program bit is seen, trusting hardware to have placed
// it correctly.
package fragment

import (
	"math"

	"github.com/rsxtools/shaderkey/rsx/isa"
)

// UnsetOffset is the sentinel value of ProgramStartOffset before the
// walker has observed any non-branch, non-NOP instruction.
const UnsetOffset = math.MaxUint32

// Metadata is the result of analyzing a fragment program's microcode.
type Metadata struct {
	ProgramStartOffset           uint32
	ProgramUcodeLength           uint32
	ProgramConstantsBufferLength uint32
	ReferencedTexturesMask       uint32
	HasBranchInstructions        bool
	HasPackInstructions          bool
	IsNopShader                  bool
}

// Analyse walks data, a flat buffer of fragment-program instruction words
// (4 uint32s per slot), starting at slot 0, until the end-of-program bit
// is observed. data must be long enough to contain a terminated program;
// the walker does not bounds-check (matches hardware semantics — a
// malformed, unterminated program is a caller error, not a fault this
// package recovers from).
func Analyse(data []uint32) Metadata {
	m := Metadata{ProgramStartOffset: UnsetOffset}

	index := 0
	for {
		w := isa.LoadFP(data, index)

		if w.IsBranch() {
			m.HasBranchInstructions = true
		} else {
			opcode := w.Opcode()
			if opcode != 0 {
				if m.ProgramStartOffset == UnsetOffset {
					m.ProgramStartOffset = uint32(index * 16)
				}
				if isa.IsTextureOpcode(opcode) {
					m.ReferencedTexturesMask |= 1 << w.TexUnit()
				}
				if isa.IsPackOpcode(opcode) {
					m.HasPackInstructions = true
				}
			}

			if w.IsConstantOperand() {
				index++
				m.ProgramUcodeLength += 16
				m.ProgramConstantsBufferLength += 16
			}
		}

		if m.ProgramStartOffset != UnsetOffset {
			m.ProgramUcodeLength += 16
		}

		if w.End() {
			if m.ProgramStartOffset == UnsetOffset {
				m.ProgramStartOffset = uint32(index * 16)
				m.ProgramUcodeLength = 16
				m.IsNopShader = true
			}
			break
		}

		index++
	}

	return m
}

// UcodeSize restricts Analyse to measuring the program's size: it applies
// the same end-bit and constant-slot rules and returns the byte offset
// one past the last walked slot.
func UcodeSize(data []uint32) uint32 {
	index := 0
	for {
		w := isa.LoadFP(data, index)
		end := w.End()

		if w.IsConstantOperand() {
			index += 2
			if end {
				return uint32(index * 16)
			}
			continue
		}

		index++
		if end {
			return uint32(index * 16)
		}
	}
}
