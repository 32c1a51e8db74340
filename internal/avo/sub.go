//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
)

// genSubKernel emits subRowSIMDAsm, the SSE2 prefix-sum for the Sub filter's
// bpp=4 case: buf[i] += buf[i-4] chained across an entire row. It is the
// direct byte-lane analogue of the teacher's genDeltaDecodeKernel
// (internal/avo/delta.go, now removed from this tree) — that kernel ran a
// Kogge-Stone doubling prefix sum over 32-bit lanes with PADDL; this one
// runs the same doubling shape over byte lanes with PADDB, because a bpp=4
// Sub row is exactly "prefix sum of 4-byte groups" when viewed 16 bytes
// (4 groups) at a time. Stage shifts are 4 and 8 bytes, matching
// subShiftSchedule[4] in simd_generic.go.
//
// Unlike the teacher's unrolled 4x16 delta loop, this generator sticks to a
// single 16-byte block per iteration, as does simd_generic.go's portable
// subRowSIMD; go-highway is the implementation simd_generic.go actually
// runs, and this generator exists
// to document the real-assembly shape of that same algorithm, matching the
// relationship the teacher's own internal/avo held to its hand-written SIMD
// entry points.
func genSubKernel() {
	TEXT("subRowSIMDAsm", NOSPLIT, "func(row *byte, n int, carry *[16]byte)")
	Doc("subRowSIMDAsm applies the bpp=4 Sub filter prefix sum in place to the")
	Doc("whole 16-byte blocks among the n bytes at row, seeded by the 16-byte")
	Doc("carry block passed in; bytes past the last whole block are not touched.")

	rowBase := Load(Param("row"), GP64())
	rowLen := Load(Param("n"), GP64())
	carryPtr := Load(Param("carry"), GP64())

	index := GP64()
	XORQ(index, index)

	blockLimit := GP64()
	MOVQ(rowLen, blockLimit)
	ANDQ(op.Imm(0xfffffffffffffff0), blockLimit)

	carry := XMM()
	MOVOU(op.Mem{Base: carryPtr}, carry)

	v := XMM()
	t := XMM()

	loop := "sub_row_simd_loop"
	done := "sub_row_simd_done"

	Label(loop)
	CMPQ(index, blockLimit)
	JAE(op.LabelRef(done))

	block := op.Mem{Base: rowBase, Index: index, Scale: 1}
	MOVOU(block, v)

	// Stage 1: shift by one 4-byte group (4 bytes) and add.
	MOVOU(v, t)
	PSLLDQ(op.Imm(4), t)
	PADDB(t, v)

	// Stage 2: shift by two 4-byte groups (8 bytes) and add.
	MOVOU(v, t)
	PSLLDQ(op.Imm(8), t)
	PADDB(t, v)

	// Fold in the carry from the previous block / row.
	PADDB(carry, v)
	MOVOU(v, block)

	// Seed the next block's carry: isolate the trailing 4-byte group
	// (the block's running total) then tile it across all four
	// 4-byte lanes by the same doubling shape the stages above use, so
	// PADDB against the next block adds it uniformly to every group.
	MOVOU(v, carry)
	PSRLDQ(op.Imm(12), carry)
	MOVOU(carry, t)
	PSLLDQ(op.Imm(4), t)
	PADDB(t, carry)
	MOVOU(carry, t)
	PSLLDQ(op.Imm(8), t)
	PADDB(t, carry)

	ADDQ(op.Imm(16), index)
	JMP(op.LabelRef(loop))

	Label(done)
	RET()
}
