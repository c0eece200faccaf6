package vertex

import "testing"

func TestMaskGetSet(t *testing.T) {
	var m Mask
	m.Set(0)
	m.Set(63)
	m.Set(64)
	m.Set(511)

	for _, i := range []int{0, 63, 64, 511} {
		if !m.Get(i) {
			t.Errorf("bit %d should be set", i)
		}
	}
	for _, i := range []int{1, 62, 65, 510} {
		if m.Get(i) {
			t.Errorf("bit %d should not be set", i)
		}
	}
}

func TestMaskPopCount(t *testing.T) {
	var m Mask
	if m.PopCount() != 0 {
		t.Fatalf("PopCount() = %d, want 0", m.PopCount())
	}
	m.Set(1)
	m.Set(100)
	m.Set(500)
	if got := m.PopCount(); got != 3 {
		t.Errorf("PopCount() = %d, want 3", got)
	}
}

func TestMaskShiftRight(t *testing.T) {
	var m Mask
	m.Set(10)
	m.Set(64)
	m.Set(127)

	shifted := m.ShiftRight(10)
	for _, i := range []int{0, 54, 117} {
		if !shifted.Get(i) {
			t.Errorf("expected bit %d set after shift, mask=%v", i, shifted)
		}
	}
	if shifted.PopCount() != 3 {
		t.Errorf("PopCount() after shift = %d, want 3", shifted.PopCount())
	}
}

func TestMaskShiftRightByZero(t *testing.T) {
	var m Mask
	m.Set(5)
	m.Set(400)

	shifted := m.ShiftRight(0)
	if shifted != m {
		t.Error("ShiftRight(0) should be identity")
	}
}

func TestMaskShiftRightAcrossWordBoundary(t *testing.T) {
	var m Mask
	m.Set(63)
	m.Set(64)

	shifted := m.ShiftRight(63)
	if !shifted.Get(0) || !shifted.Get(1) {
		t.Errorf("expected bits 0 and 1 set, got %v", shifted)
	}
	if shifted.PopCount() != 2 {
		t.Errorf("PopCount() = %d, want 2", shifted.PopCount())
	}
}
