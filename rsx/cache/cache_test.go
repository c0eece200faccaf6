package cache

import (
	"testing"

	"github.com/rsxtools/shaderkey/rsx"
	"github.com/rsxtools/shaderkey/rsx/fragment"
	"github.com/rsxtools/shaderkey/rsx/isa"
	"github.com/rsxtools/shaderkey/rsx/vertex"
)

func vpFixture() *vertex.Program {
	data := make([]uint32, 4*3)
	isa.StoreVP(data, 0, isa.VPWord{W0: 1, W1: 2, W2: 3, W3: 4})
	isa.StoreVP(data, 2, isa.VPWord{W0: 5, W1: 6, W2: 7, W3: 8})

	var mask vertex.Mask
	mask.Set(0)
	mask.Set(2)

	return &vertex.Program{
		Data:            data,
		InstructionMask: mask,
		OutputMask:      0xABC,
		TextureState:    rsx.TextureState{Dimensions: 1, Shadow: 2, Redirected: 3},
	}
}

func TestVPHashIgnoresDeadSlotContent(t *testing.T) {
	a := vpFixture()
	b := vpFixture()

	// Mutate the dead slot (index 1) only.
	isa.StoreVP(b.Data, 1, isa.VPWord{W0: 0xFFFFFFFF, W1: 0xFFFFFFFF, W2: 0xFFFFFFFF, W3: 0xFFFFFFFF})

	if VPHash(a) != VPHash(b) {
		t.Error("hash must ignore bytes in dead slots")
	}
	if !VPEqual(a, b) {
		t.Error("equality must ignore bytes in dead slots")
	}
}

func TestVPHashChangesWithLiveContent(t *testing.T) {
	a := vpFixture()
	b := vpFixture()
	isa.StoreVP(b.Data, 0, isa.VPWord{W0: 0xFFFFFFFF, W1: 2, W2: 3, W3: 4})

	if VPHash(a) == VPHash(b) {
		t.Error("hash must change when a live slot's content changes")
	}
	if VPEqual(a, b) {
		t.Error("must not compare equal when a live slot's content differs")
	}
}

func TestVPEqualImpliesHashEqual(t *testing.T) {
	a := vpFixture()
	b := vpFixture()

	if !VPEqual(a, b) {
		t.Fatal("fixtures should be equal")
	}
	if VPHash(a) != VPHash(b) {
		t.Error("VPEqual(a,b) must imply VPHash(a) == VPHash(b)")
	}
}

func fpFixture() *fragment.Program {
	data := []uint32{
		(isa.OpTEX << 16) | (2 << 25), 0, 0, 0,
		1 << 8, 0, 0, 0, // end
	}
	return fragment.NewProgram(data, 0x1234, true, rsx.TextureState{Dimensions: 4}, 0x55)
}

func TestFPEqualImpliesHashEqual(t *testing.T) {
	a := fpFixture()
	b := fpFixture()

	if !FPEqual(a, b) {
		t.Fatal("fixtures should be equal")
	}
	if FPHash(a) != FPHash(b) {
		t.Error("FPEqual(a,b) must imply FPHash(a) == FPHash(b)")
	}
}

func TestFPHashChangesWithStateFields(t *testing.T) {
	a := fpFixture()
	b := fpFixture()
	b.Ctrl = a.Ctrl + 1

	if FPHash(a) == FPHash(b) {
		t.Error("hash must depend on ctrl")
	}
	if FPEqual(a, b) {
		t.Error("equality must depend on ctrl")
	}
}

func TestFPRoundTripAfterNoopCopy(t *testing.T) {
	a := fpFixture()
	dataCopy := append([]uint32(nil), a.Data()...)
	b := fragment.NewProgram(dataCopy, a.Ctrl, a.TwoSidedLighting, a.TextureState, a.TexcoordControlMask)

	if FPHash(a) != FPHash(b) {
		t.Error("hashing after a no-op copy must return the same value")
	}
	if !FPEqual(a, b) {
		t.Error("a no-op copy must compare equal")
	}
}
