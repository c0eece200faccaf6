// Command shaderdump runs the vertex- or fragment-program analyzer over a
// raw ucode file and prints the resulting metadata. It also doubles as a
// standalone verifier for vp_analyser.bin debug dumps produced when
// config.Video.DebugProgramAnalyser is enabled.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sigurn/crc8"

	"github.com/rsxtools/shaderkey/rsx/fragment"
	"github.com/rsxtools/shaderkey/rsx/vertex"
)

const usageString = `RSX shader microcode analyzer.

Usage: %s -kind=vp|fp [-entry=N] <ucode-file>
       %s -verify-dump=<vp_analyser.bin>

`

var (
	flags = flag.NewFlagSet("shaderdump", flag.ExitOnError)

	kind       = flags.String("kind", "vp", "program kind to analyse: vp or fp")
	entry      = flags.Uint("entry", 0, "entry slot index (vp only)")
	verifyDump = flags.String("verify-dump", "", "re-parse and verify a vp_analyser.bin debug dump instead of analysing a file")

	// Standard CRC-8/SMBUS parameters; this tool's own trailer format, not
	// part of the analyzer's contract.
	dumpCRCTable = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xF4, Name: "CRC-8/SMBUS"})
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "shaderdump", "shaderdump")
	flags.PrintDefaults()
}

func main() {
	flags.Usage = usage
	flags.Parse(os.Args[1:])

	if *verifyDump != "" {
		if err := runVerifyDump(*verifyDump); err != nil {
			log.Fatalln(err)
		}
		return
	}

	if flags.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	words := bytesToWords(data)

	switch *kind {
	case "vp":
		runVP(words, uint32(*entry))
	case "fp":
		runFP(words)
	default:
		log.Fatalf("unknown -kind %q (want vp or fp)", *kind)
	}
}

func runVP(words []uint32, entry uint32) {
	padded := make([]uint32, vertex.MaxSlots*4)
	copy(padded, words)

	var prog vertex.Program
	meta := vertex.Analyse(padded, entry, &prog)

	fmt.Printf("base_address=%d entry=%d instruction_count=%d live_slots=%d\n",
		prog.BaseAddress, prog.Entry, len(prog.Data)/4, meta.InstructionMask.PopCount())
	fmt.Printf("ucode_length=%d referenced_textures_mask=%#x referenced_inputs_mask=%#x\n",
		meta.UcodeLength, meta.ReferencedTexturesMask, meta.ReferencedInputsMask)
	fmt.Printf("jump_table=%v\n", prog.JumpTable)
}

func runFP(words []uint32) {
	meta := fragment.Analyse(words)

	fmt.Printf("program_start_offset=%d program_ucode_length=%d program_constants_buffer_length=%d\n",
		meta.ProgramStartOffset, meta.ProgramUcodeLength, meta.ProgramConstantsBufferLength)
	fmt.Printf("referenced_textures_mask=%#x has_branch=%v has_pack=%v is_nop=%v\n",
		meta.ReferencedTexturesMask, meta.HasBranchInstructions, meta.HasPackInstructions, meta.IsNopShader)
}

// runVerifyDump re-parses a vp_analyser.bin written by the analyzer's debug
// sink — 4-byte entry followed by MaxSlots*16 bytes of source buffer — and
// re-runs Analyse over it, printing the entry, live-slot count and
// instruction count; the result is not compared against anything. A CRC8
// trailer byte, if present after the body, is checked against the header
// and body; the analyzer never writes one.
func runVerifyDump(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	const headerLen = 4
	const bodyLen = vertex.MaxSlots * 16
	if len(raw) < headerLen+bodyLen {
		return fmt.Errorf("shaderdump: dump too short: got %d bytes, want at least %d", len(raw), headerLen+bodyLen)
	}

	entry := binary.LittleEndian.Uint32(raw[:headerLen])
	body := raw[headerLen : headerLen+bodyLen]
	words := bytesToWords(body)

	var prog vertex.Program
	meta := vertex.Analyse(words, entry, &prog)
	fmt.Printf("verify: entry=%d live_slots=%d instruction_count=%d\n",
		entry, meta.InstructionMask.PopCount(), len(prog.Data)/4)

	if trailer := raw[headerLen+bodyLen:]; len(trailer) >= 1 {
		csum := crc8.Init(dumpCRCTable)
		csum = crc8.Update(csum, raw[:headerLen+bodyLen], dumpCRCTable)
		csum = crc8.Complete(csum, dumpCRCTable)

		got := trailer[0]
		if csum != got {
			return fmt.Errorf("shaderdump: crc8 mismatch: want %#x, got %#x", csum, got)
		}
		fmt.Println("verify: crc8 ok")
	}
	return nil
}

func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words
}
