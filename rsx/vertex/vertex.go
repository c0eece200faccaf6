// Package vertex implements the reachability-walk analyzer for RSX vertex
// program microcode (C3): it determines the live instruction range,
// follows CALL/RET and conditional/static branches, and emits a
// relocated, position-independent copy of the program with its jump
// table patched to the new coordinates.
package vertex

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rsxtools/shaderkey/rsx"
	"github.com/rsxtools/shaderkey/rsx/config"
	"github.com/rsxtools/shaderkey/rsx/isa"
	"github.com/rsxtools/shaderkey/rsxlog"
)

// MaxSlots is the RSX hardware limit on vertex program instruction slots.
const MaxSlots = isa.MaxSlots

// Program is an analyzed vertex program: position-independent, with a
// patched jump table, ready for the shader translator and for use as a
// cache key (see rsx/cache).
type Program struct {
	BaseAddress uint32
	Entry       uint32
	Data        []uint32

	InstructionMask Mask
	JumpTable       []uint32

	OutputMask   uint32
	TextureState rsx.TextureState
}

// Metadata is the transient result of Analyse, in upload coordinates.
type Metadata struct {
	InstructionMask        Mask
	UcodeLength            uint32
	ReferencedTexturesMask uint32
	ReferencedInputsMask   uint32
}

type walkEntry struct {
	start    uint32
	fastExit bool
}

// walkContext carries the mutable state shared across every walk entry
// processed for a single Analyse call, mirroring the captured-by-reference
// state of the original's recursive closure.
type walkContext struct {
	instructionMask     Mask
	instructionsToPatch Mask
	first, last         uint32
	hasBranchInstr      bool
	callStack           []uint32

	referencedTexturesMask uint32
	referencedInputsMask   uint32
}

// Analyse walks data (exactly 4*MaxSlots words — the full vertex
// instruction RAM) starting at entry, populates out with the relocated,
// patched program, and returns the walk metadata in upload coordinates.
func Analyse(data []uint32, entry uint32, out *Program) Metadata {
	if config.Video.DebugProgramAnalyser {
		if err := dumpDebugImage(data, entry); err != nil {
			rsxlog.Vertex.Error().Err(err).Msg("vp_analyser: failed to write debug dump")
		}
	}

	ctx := &walkContext{first: MaxSlots, last: 0}

	worklist := []walkEntry{{start: entry, fastExit: false}}
	for len(worklist) > 0 {
		e := worklist[0]
		worklist = worklist[1:]

		targets := ctx.walk(data, e.start, e.fastExit)
		for _, t := range targets {
			if !ctx.instructionMask.Get(int(t)) {
				worklist = append(worklist, walkEntry{start: t, fastExit: true})
			}
		}
	}

	instructionCount := ctx.last - ctx.first + 1
	ucodeLength := instructionCount * 16

	out.BaseAddress = ctx.first
	out.Entry = entry
	out.Data = make([]uint32, instructionCount*4)
	out.InstructionMask = ctx.instructionMask.ShiftRight(int(ctx.first))
	out.JumpTable = nil

	if !ctx.hasBranchInstr {
		if ctx.first != entry {
			panic(fmt.Sprintf("vp_analyser: structural fault: base_address %d != entry %d in branch-free program", ctx.first, entry))
		}
		copy(out.Data, data[ctx.first*4:ctx.first*4+ucodeLength/4])
	} else {
		jumpTable := map[uint32]bool{}
		for i, count := ctx.first, uint32(0); i <= ctx.last; i, count = i+1, count+1 {
			src := data[i*4 : i*4+4]
			dst := out.Data[count*4 : count*4+4]

			if !ctx.instructionMask.Get(int(i)) {
				continue // already zero
			}

			copy(dst, src)

			if ctx.instructionsToPatch.Get(int(i)) {
				w := isa.VPWord{W0: dst[0], W1: dst[1], W2: dst[2], W3: dst[3]}
				addr := w.BranchTarget() - ctx.first
				w.PatchBranchTarget(addr)
				dst[0], dst[2], dst[3] = w.W0, w.W2, w.W3
				jumpTable[addr] = true
			}
		}

		out.JumpTable = sortedKeys(jumpTable)
		for _, target := range out.JumpTable {
			if !out.InstructionMask.Get(int(target)) {
				rsxlog.Vertex.Error().Uint32("target", target).Msg("vp_analyser: branch target was not resolved")
			}
		}
	}

	ctx.referencedInputsMask |= 1 // VPOS is always enabled

	return Metadata{
		InstructionMask:        ctx.instructionMask,
		UcodeLength:            ucodeLength,
		ReferencedTexturesMask: ctx.referencedTexturesMask,
		ReferencedInputsMask:   ctx.referencedInputsMask,
	}
}

// walk runs the sequential part of one worklist entry and returns the
// conditional branch targets it discovered, for the caller to schedule as
// fast-exit secondary walks.
func (ctx *walkContext) walk(data []uint32, start uint32, fastExit bool) []uint32 {
	cur := start
	var conditionalTargets []uint32
	hasPrintedError := false

	for {
		if cur >= MaxSlots {
			panic(fmt.Sprintf("vp_analyser: structural fault: slot %d out of range", cur))
		}

		if ctx.instructionMask.Get(int(cur)) {
			if !fastExit {
				if !hasPrintedError {
					rsxlog.Vertex.Error().Msg("vp_analyser: possible infinite loop detected")
					hasPrintedError = true
				}
				cur++
				continue
			}
			break
		}

		w := isa.LoadVP(data, int(cur))

		ctx.instructionMask.Set(int(cur))
		if cur < ctx.first {
			ctx.first = cur
		}
		if cur > ctx.last {
			ctx.last = cur
		}

		testInputRead := false

		if w.VecOpcode() == isa.VecTXL {
			ctx.referencedTexturesMask |= 1 << w.TexNum()
		} else {
			testInputRead = w.InputSrc() != 0
		}

		staticJump := false
		functionCall := true

		switch w.ScaOpcode() {
		case isa.ScaBRI:
			staticJump = w.IsStaticBranch()
			fallthrough
		case isa.ScaBRB:
			functionCall = false
			fallthrough
		case isa.ScaCAL, isa.ScaCLI, isa.ScaCLB:
			ctx.instructionsToPatch.Set(int(cur))
			ctx.hasBranchInstr = true
			jumpAddress := w.BranchTarget()

			if functionCall {
				ctx.callStack = append(ctx.callStack, cur+1)
				cur = jumpAddress
				continue
			} else if staticJump {
				cur = jumpAddress
				continue
			}
			conditionalTargets = append(conditionalTargets, jumpAddress)
			if jumpAddress > ctx.last {
				ctx.last = jumpAddress
			}
		case isa.ScaRET:
			if len(ctx.callStack) == 0 {
				rsxlog.Vertex.Error().Msg("vp_analyser: RET found outside subroutine call")
			} else {
				n := len(ctx.callStack) - 1
				cur = ctx.callStack[n]
				ctx.callStack = ctx.callStack[:n]
				continue
			}
		default:
			testInputRead = w.InputSrc() != 0
		}

		if testInputRead {
			tag := w.Src0l() | w.Src1() | w.Src2l()
			if isa.IsInputRegister(tag) {
				ctx.referencedInputsMask |= 1 << w.InputSrc()
			}
		}

		if (w.End() && (fastExit || cur >= ctx.last)) || cur+1 == MaxSlots {
			break
		}
		cur++
	}

	return conditionalTargets
}

func sortedKeys(m map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// dumpDebugImage atomically writes the 4-byte entry point followed by the
// full MaxSlots*16-byte source buffer, for offline inspection when
// config.Video.DebugProgramAnalyser is set.
func dumpDebugImage(data []uint32, entry uint32) error {
	dir := filepath.Join(config.CacheDir, "shaderlog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "vp_analyser.bin.*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], entry)
	if _, err := tmp.Write(hdr[:]); err != nil {
		tmp.Close()
		return err
	}

	body := make([]byte, len(data)*4)
	for i, w := range data {
		binary.LittleEndian.PutUint32(body[i*4:], w)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, "vp_analyser.bin"))
}
