// Package bitops implements the deterministic fixed-width arithmetic engine.
//
// # Overview
//
// An Engine is an immutable (mode, width) pair. Width is one of 8, 16, 32, or
// 64 bits; every result is truncated to it. Mode selects the backend:
//
//   - Native delegates to the host's shift and bitwise operators for speed.
//   - Arithmetic expresses every bitwise primitive using only addition,
//     subtraction, multiplication, and division/modulo by powers of two —
//     never a host shift or bitwise operator — so results cannot inherit
//     host-specific integer promotion or shift-width behavior.
//
// The two modes must be numerically indistinguishable for every input; the
// cross-mode test grid enforces that. A divergence is a correctness defect,
// not a runtime condition.
//
// # Shift semantics
//
// Shifts report (value, carry, overflow). Carry holds the bits shifted
// beyond the configured width (left shifts) or out past bit zero (right
// shifts); overflow is simply carry != 0. ShiftRight is arithmetic
// (sign-propagating); UnsignedShiftRight zero-fills. Shift amounts outside
// [0, width] fail with ErrShiftRange — nothing is silently masked.
//
// Engines hold no operand state and are safe to share across goroutines.
package bitops
