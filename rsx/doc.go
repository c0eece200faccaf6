// Package rsx holds the types shared by the RSX shader microcode analyzer
// across both program kinds it understands:
//
//   - rsx/isa      decodes the bit-packed fields of a single 128-bit
//     instruction word, for both vertex and fragment programs.
//   - rsx/vertex    walks a vertex program's control flow, extracts the
//     live instruction range and patches branch targets so the result is
//     position-independent.
//   - rsx/fragment  linear-scans a fragment program to find its end,
//     constant slots and referenced texture units.
//   - rsx/cache     computes the content hash and equality used as the
//     lookup key for a host-side compiled-shader cache.
//
// The analyzer itself is pure and synchronous: it touches only the buffers
// and state passed to it, holds no global mutable state, and may be driven
// concurrently by multiple callers on disjoint inputs.
package rsx

// TextureState is the guest-supplied texture render state bundled with a
// program's microcode for cache-key purposes. Bit layout: one 2-bit
// dimension code, one shadow bit and one redirect bit per texture unit (16
// units), matching rsx::texture_dimension_extended in the original RSX
// implementation.
type TextureState struct {
	Dimensions uint32
	Shadow     uint32
	Redirected uint32
}
