// Package cache computes the content hash and structural equality that
// together form the lookup key for a host-side compiled-shader cache
// (C4). Two programs that differ only in upload address or in unused
// instruction slots hash and compare equal.
package cache

import (
	"slices"

	"github.com/rsxtools/shaderkey/rsx/fragment"
	"github.com/rsxtools/shaderkey/rsx/isa"
	"github.com/rsxtools/shaderkey/rsx/vertex"
)

const fnvOffsetBasis uint64 = 0xCBF29CE484222325

// mix applies the non-standard avalanche step this cache has always used;
// it is not part of the FNV-1a spec and must not be "corrected" — doing
// so would invalidate every on-disk cache entry.
func mix(h uint64) uint64 {
	return h + (h << 1) + (h << 4) + (h << 5) + (h << 7) + (h << 8) + (h << 40)
}

func mixWord(h, v uint64) uint64 {
	h ^= v
	return mix(h)
}

// VPHash hashes the live ucode of an analyzed vertex program plus its
// output mask and texture dimension bits.
func VPHash(p *vertex.Program) uint64 {
	h := fnvOffsetBasis

	slots := len(p.Data) / 4
	for i := 0; i < slots; i++ {
		if !p.InstructionMask.Get(i) {
			continue
		}
		w := isa.LoadVP(p.Data, i)
		h = mixWord(h, uint64(w.W0)|uint64(w.W1)<<32)
		h = mixWord(h, uint64(w.W2)|uint64(w.W3)<<32)
	}

	h ^= uint64(p.OutputMask)
	h ^= uint64(p.TextureState.Dimensions)
	return h
}

// VPEqual reports structural equality of two analyzed vertex programs:
// same output mask, texture state, data length and jump table, and
// bitwise-identical bytes at every live slot (dead slots are not
// compared).
func VPEqual(a, b *vertex.Program) bool {
	if a.OutputMask != b.OutputMask {
		return false
	}
	if a.TextureState != b.TextureState {
		return false
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	if !slices.Equal(a.JumpTable, b.JumpTable) {
		return false
	}

	slots := len(a.Data) / 4
	for i := 0; i < slots; i++ {
		active := a.InstructionMask.Get(i)
		if active != b.InstructionMask.Get(i) {
			return false
		}
		if !active {
			continue
		}
		wa := isa.LoadVP(a.Data, i)
		wb := isa.LoadVP(b.Data, i)
		if wa != wb {
			return false
		}
	}
	return true
}

// FPHash hashes a fragment program's ucode, walking until the end bit
// (skipping constant slots, same rule as the analyzer), plus the guest
// render state bundled for cache-key purposes.
func FPHash(p *fragment.Program) uint64 {
	h := fnvOffsetBasis

	data := p.Data()
	index := 0
	for {
		w := isa.LoadFP(data, index)
		h = mixWord(h, uint64(w.W0)|uint64(w.W1)<<32)
		h = mixWord(h, uint64(w.W2)|uint64(w.W3)<<32)

		index++
		if w.IsConstantOperand() {
			index++
		}
		if w.End() {
			break
		}
	}

	h ^= uint64(p.Ctrl)
	if p.TwoSidedLighting {
		h ^= 1
	}
	h ^= uint64(p.TextureState.Dimensions)
	h ^= uint64(p.TextureState.Shadow)
	h ^= uint64(p.TextureState.Redirected)
	h ^= uint64(p.TexcoordControlMask)
	return h
}

// FPEqual reports structural equality of two fragment programs: same
// guest render state, then a bitwise lockstep walk over both ucode
// streams (following the same constant-slot skip rule), terminating when
// the end bit is set in both streams simultaneously.
func FPEqual(a, b *fragment.Program) bool {
	if a.Ctrl != b.Ctrl || a.TextureState != b.TextureState ||
		a.TexcoordControlMask != b.TexcoordControlMask ||
		a.TwoSidedLighting != b.TwoSidedLighting {
		return false
	}

	da, db := a.Data(), b.Data()
	index := 0
	for {
		wa := isa.LoadFP(da, index)
		wb := isa.LoadFP(db, index)
		if wa != wb {
			return false
		}

		index++
		if wa.IsConstantOperand() {
			index++
		}

		if wa.End() && wb.End() {
			return true
		}
	}
}
