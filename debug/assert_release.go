//go:build !debug

// Package debug provides cheap, optional sanity checks for the instruction
// codec that can be enabled with the debug build tag or will otherwise
// compile to no-ops. It is not for the analyzer's hard contract violations
// (those always panic, see rsx/vertex) — only for extra checks that would be
// wasteful to pay for on every decode in a release build.
package debug

// Guard more complex assertions (i.e. anything that could panic) with `if
// debug.Enabled{...}`, otherwise they can't be removed in release builds.
const Enabled = false

// Assert does nothing in non-debug builds; see assert.go for the checking
// version.
func Assert(b bool, message string) {}

// AssertErrNil does nothing in non-debug builds; see assert.go for the
// checking version.
func AssertErrNil(err error) {}
