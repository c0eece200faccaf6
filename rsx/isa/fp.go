package isa

// FPWord is one 128-bit fragment-program instruction, addressable as four
// 32-bit subwords. Bit positions here are fixed hardware contracts (every
// one is pinned by the spec this analyzer implements) and must not change.
type FPWord struct {
	W0, W1, W2, W3 uint32
}

// LoadFP reads the instruction at byte offset slot*16 from a flat word
// buffer (4 words per slot). Unlike LoadVP, slot is not bounds-checked even
// in debug builds: a fragment program's length is self-describing via the
// end bit, so reading one slot past a malformed, unterminated buffer is a
// caller error the walker is not expected to catch (§7).
func LoadFP(data []uint32, slot int) FPWord {
	i := slot * 4
	return FPWord{W0: data[i], W1: data[i+1], W2: data[i+2], W3: data[i+3]}
}

// Fragment-program opcodes the analyzer dispatches on by name.
const (
	OpTEX    uint32 = 0x01
	OpTEXBEM uint32 = 0x02
	OpTXP    uint32 = 0x03
	OpTXPBEM uint32 = 0x04
	OpTXD    uint32 = 0x05
	OpTXB    uint32 = 0x06
	OpTXL    uint32 = 0x07

	OpPK4  uint32 = 0x08
	OpUP4  uint32 = 0x09
	OpPK2  uint32 = 0x0A
	OpUP2  uint32 = 0x0B
	OpPKB  uint32 = 0x0C
	OpUPB  uint32 = 0x0D
	OpPK16 uint32 = 0x0E
	OpUP16 uint32 = 0x0F
	OpPKG  uint32 = 0x10
	OpUPG  uint32 = 0x11
)

// IsConstant reports whether a 32-bit source operand references a constant
// slot: (src>>8)&0x3 == 2.
func IsConstant(sourceOperand uint32) bool {
	return (sourceOperand>>8)&0x3 == 2
}

// End reports the end-of-program bit: (w0>>8)&1.
func (w FPWord) End() bool { return (w.W0>>8)&0x1 != 0 }

// Opcode extracts the 6-bit opcode field: (w0>>16)&0x3F.
func (w FPWord) Opcode() uint32 { return (w.W0 >> 16) & 0x3F }

// IsBranch reports the branch marker bit in w2: w2 & (1<<23).
func (w FPWord) IsBranch() bool { return w.W2&(1<<23) != 0 }

// TexUnit extracts the texture unit for TEX/TXP/TXD/TXB/TXL/TEXBEM/TXPBEM:
// (w0>>25)&0xF.
func (w FPWord) TexUnit() uint32 { return (w.W0 >> 25) & 0xF }

// IsTextureOpcode reports whether op is one of the texture-sampling
// opcodes that contribute to the referenced-textures mask.
func IsTextureOpcode(op uint32) bool {
	switch op {
	case OpTEX, OpTEXBEM, OpTXP, OpTXPBEM, OpTXD, OpTXB, OpTXL:
		return true
	default:
		return false
	}
}

// IsPackOpcode reports whether op is one of the pack/unpack opcodes.
func IsPackOpcode(op uint32) bool {
	switch op {
	case OpPK4, OpUP4, OpPK2, OpUP2, OpPKB, OpUPB, OpPK16, OpUP16, OpPKG, OpUPG:
		return true
	default:
		return false
	}
}

// IsConstantOperand reports whether any of w1/w2/w3 references a constant
// slot, meaning the next 128-bit slot is literal data rather than an
// instruction.
func (w FPWord) IsConstantOperand() bool {
	return IsConstant(w.W1) || IsConstant(w.W2) || IsConstant(w.W3)
}
