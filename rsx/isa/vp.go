// Package isa decodes the bit-packed fields of RSX vertex- and
// fragment-program instruction words. A vertex-program instruction is four
// 32-bit words (W0..W3, naming mirrors the RSX docs' D0..D3); a
// fragment-program instruction uses the same four-word layout but a
// different field set. Bit positions for the fields the FP analyzer reads
// are fixed hardware contracts and must stay bit-exact; the handful of VP
// field positions not pinned by any external contract are fixed by this
// package and documented inline.
package isa

import "github.com/rsxtools/shaderkey/debug"

// VPWord is one 128-bit vertex-program instruction, addressable as four
// 32-bit subwords.
type VPWord struct {
	W0, W1, W2, W3 uint32
}

// MaxSlots is the RSX hardware limit on vertex-program instruction slots.
const MaxSlots = 512

// LoadVP reads the instruction at the given slot from a flat word buffer
// (4 words per slot, unaligned loads are fine since data is plain []uint32).
func LoadVP(data []uint32, slot int) VPWord {
	i := slot * 4
	if debug.Enabled {
		debug.Assert(i+4 <= len(data), "isa: LoadVP slot out of range")
	}
	return VPWord{W0: data[i], W1: data[i+1], W2: data[i+2], W3: data[i+3]}
}

// StoreVP writes w back into the given slot of a flat word buffer.
func StoreVP(data []uint32, slot int, w VPWord) {
	i := slot * 4
	if debug.Enabled {
		debug.Assert(i+4 <= len(data), "isa: StoreVP slot out of range")
	}
	data[i], data[i+1], data[i+2], data[i+3] = w.W0, w.W1, w.W2, w.W3
}

// Vertex-program scalar opcodes referenced by the analyzer. Real hardware
// defines many more scalar ops; only the control-flow-relevant ones are
// named here, the rest decode to 0 (NOP) for our purposes.
const (
	ScaNOP uint32 = 0x00
	ScaBRI uint32 = 0x08 // conditional static-able branch
	ScaBRB uint32 = 0x09 // branch on boolean register
	ScaCAL uint32 = 0x0A // subroutine call, static address
	ScaCLI uint32 = 0x0B // subroutine call, immediate-conditional
	ScaCLB uint32 = 0x0C // subroutine call, boolean-conditional
	ScaRET uint32 = 0x0D
)

// Vertex-program vector opcodes referenced by the analyzer.
const (
	VecNOP uint32 = 0x00
	VecTXL uint32 = 0x01 // texture sample
)

// RegisterTypeInput is the 2-bit register-type tag that marks a source
// operand as reading a vertex input stream.
const RegisterTypeInput uint32 = 0x1

// Field layout. Widths for the three branch-address subfields (iaddrh2:1,
// iaddrh:6, iaddrl:3) and the meaning of cond==0x7 ("always true", i.e. a
// static branch) are fixed by spec; their bit offsets, and the offsets/
// widths of every other VP field below, are this package's own placement.
const (
	condShift    = 4
	condMask     = 0x7
	iaddrh2Shift = 7
	iaddrh2Mask  = 0x1

	inputSrcShift = 0
	inputSrcMask  = 0xF
	scaOpShift    = 4
	scaOpMask     = 0x3F
	vecOpShift    = 10
	vecOpMask     = 0x1F

	src0lShift  = 0
	src0lMask   = 0x3
	src1Shift   = 2
	src1Mask    = 0x3
	iaddrhShift = 4
	iaddrhMask  = 0x3F
	texNumShift = 10
	texNumMask  = 0xF

	src2lShift  = 0
	src2lMask   = 0x3
	iaddrlShift = 2
	iaddrlMask  = 0x7
	endShift    = 5
	endMask     = 0x1
)

func (w VPWord) Cond() uint32    { return (w.W0 >> condShift) & condMask }
func (w VPWord) IAddrH2() uint32 { return (w.W0 >> iaddrh2Shift) & iaddrh2Mask }

func (w VPWord) InputSrc() uint32  { return (w.W1 >> inputSrcShift) & inputSrcMask }
func (w VPWord) ScaOpcode() uint32 { return (w.W1 >> scaOpShift) & scaOpMask }
func (w VPWord) VecOpcode() uint32 { return (w.W1 >> vecOpShift) & vecOpMask }

func (w VPWord) Src0l() uint32  { return (w.W2 >> src0lShift) & src0lMask }
func (w VPWord) Src1() uint32   { return (w.W2 >> src1Shift) & src1Mask }
func (w VPWord) IAddrH() uint32 { return (w.W2 >> iaddrhShift) & iaddrhMask }
func (w VPWord) TexNum() uint32 { return (w.W2 >> texNumShift) & texNumMask }

func (w VPWord) Src2l() uint32  { return (w.W3 >> src2lShift) & src2lMask }
func (w VPWord) IAddrL() uint32 { return (w.W3 >> iaddrlShift) & iaddrlMask }
func (w VPWord) End() bool      { return (w.W3>>endShift)&endMask != 0 }

// IsStaticBranch reports whether a SCA_BRI instruction's condition field
// selects the always-true condition, making the branch unconditional.
func (w VPWord) IsStaticBranch() bool { return w.Cond() == 0x7 }

// BranchTarget reconstructs the branch/call target slot index from the
// three address subfields, per the fixed formula
// (iaddrh2<<9) | (iaddrh<<3) | iaddrl.
func (w VPWord) BranchTarget() uint32 {
	return (w.IAddrH2() << 9) | (w.IAddrH() << 3) | w.IAddrL()
}

// PatchBranchTarget rewrites W0/W2/W3's address subfields to encode addr,
// leaving every other field untouched. It is the exact inverse of
// BranchTarget.
func (w *VPWord) PatchBranchTarget(addr uint32) {
	iaddrh2 := (addr >> 9) & iaddrh2Mask
	iaddrh := (addr >> 3) & iaddrhMask
	iaddrl := addr & iaddrlMask

	w.W0 = (w.W0 &^ (iaddrh2Mask << iaddrh2Shift)) | (iaddrh2 << iaddrh2Shift)
	w.W2 = (w.W2 &^ (iaddrhMask << iaddrhShift)) | (iaddrh << iaddrhShift)
	w.W3 = (w.W3 &^ (iaddrlMask << iaddrlShift)) | (iaddrl << iaddrlShift)
}

// IsInputRegister reports whether a 2-bit source register-type tag marks an
// input-stream read.
func IsInputRegister(tag uint32) bool { return tag&RegisterTypeInput != 0 }
