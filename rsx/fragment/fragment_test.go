package fragment

import (
	"testing"

	"github.com/rsxtools/shaderkey/rsx/isa"
)

func slot(w0, w1, w2, w3 uint32) []uint32 { return []uint32{w0, w1, w2, w3} }

func concat(slots ...[]uint32) []uint32 {
	var out []uint32
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}

func TestAnalyseNopShader(t *testing.T) {
	data := concat(slot(1<<8, 0, 0, 0))

	m := Analyse(data)
	if !m.IsNopShader {
		t.Error("expected is_nop_shader")
	}
	if m.ProgramStartOffset != 0 {
		t.Errorf("program_start_offset = %d, want 0", m.ProgramStartOffset)
	}
	if m.ProgramUcodeLength != 16 {
		t.Errorf("program_ucode_length = %d, want 16", m.ProgramUcodeLength)
	}
}

func TestAnalyseTexWithConstant(t *testing.T) {
	texUnit := uint32(3)
	opWord := (isa.OpTEX << 16) | (texUnit << 25)

	data := concat(
		slot(opWord, 0x200, 0, 0), // TEX, w1 marked constant, not end
		slot(0, 0, 0, 0),          // constant payload slot
		slot(1<<8, 0, 0, 0),       // terminating NOP
	)

	m := Analyse(data)
	if m.ReferencedTexturesMask != 1<<texUnit {
		t.Errorf("referenced_textures_mask = %#x, want %#x", m.ReferencedTexturesMask, uint32(1)<<texUnit)
	}
	if m.ProgramUcodeLength != 48 {
		t.Errorf("program_ucode_length = %d, want 48", m.ProgramUcodeLength)
	}
	if m.ProgramConstantsBufferLength != 16 {
		t.Errorf("program_constants_buffer_length = %d, want 16", m.ProgramConstantsBufferLength)
	}
	if m.IsNopShader {
		t.Error("did not expect is_nop_shader")
	}
}

func TestAnalysePackInstruction(t *testing.T) {
	opWord := (isa.OpPK4 << 16)
	data := concat(
		slot(opWord, 0, 0, 0),
		slot(1<<8, 0, 0, 0),
	)

	m := Analyse(data)
	if !m.HasPackInstructions {
		t.Error("expected has_pack_instructions")
	}
}

func TestAnalyseBranchMarker(t *testing.T) {
	data := concat(
		slot(0, 0, 1<<23, 0),
		slot(1<<8, 0, 0, 0),
	)

	m := Analyse(data)
	if !m.HasBranchInstructions {
		t.Error("expected has_branch_instructions")
	}
}

func TestUcodeSizeMatchesAnalyse(t *testing.T) {
	data := concat(
		slot((isa.OpTEX<<16)|(3<<25), 0x200, 0, 0),
		slot(0, 0, 0, 0),
		slot(1<<8, 0, 0, 0),
	)

	m := Analyse(data)
	size := UcodeSize(data)
	if size != m.ProgramUcodeLength+m.ProgramStartOffset {
		// program_start_offset is 0 here (first instruction is live), so
		// UcodeSize (measuring from slot 0) and ucode_length coincide.
		t.Errorf("UcodeSize() = %d, want %d", size, m.ProgramUcodeLength)
	}
}
