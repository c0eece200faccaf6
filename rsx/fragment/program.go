package fragment

import "github.com/rsxtools/shaderkey/rsx"

// Program bundles a fragment program's raw ucode with the guest render
// state that must be folded into its cache identity (rsx/cache).
type Program struct {
	Ctrl                uint32
	TwoSidedLighting    bool
	TextureState        rsx.TextureState
	TexcoordControlMask uint32

	data []uint32 // host-owned view; this package never copies or mutates it
}

// NewProgram wraps data (not copied) together with the guest state fields
// used by rsx/cache.
func NewProgram(data []uint32, ctrl uint32, twoSided bool, ts rsx.TextureState, texcoordMask uint32) *Program {
	return &Program{
		Ctrl:                ctrl,
		TwoSidedLighting:    twoSided,
		TextureState:        ts,
		TexcoordControlMask: texcoordMask,
		data:                data,
	}
}

// Data returns the underlying ucode word buffer.
func (p *Program) Data() []uint32 { return p.data }
