// Package config holds the small set of process-wide settings the
// analyzer consults. There is no config file format here (unlike the
// original implementation's YAML-backed g_cfg): callers set these
// directly, typically from CLI flags.
package config

// Video mirrors the subset of the original implementation's g_cfg.video
// tree this analyzer cares about.
var Video = struct {
	// DebugProgramAnalyser enables the vertex-program debug dump: every
	// vertex-program analysis writes the 4-byte entry point followed by the
	// raw instruction buffer to CacheDir/shaderlog/vp_analyser.bin for
	// offline inspection.
	DebugProgramAnalyser bool
}{}

// CacheDir is the directory debug dumps and any other on-disk analyzer
// artifacts are written under.
var CacheDir = "."
