//go:build avogen
// +build avogen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	op "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

// genPaethKernel emits paethStepSIMDAsm, the 16-bit-lane predictor step the
// portable paethVecStep in simd_generic.go computes via go-highway. It takes
// one pixel's worth of widened (uint8->uint16) channel values for left (a),
// above (b), and above-left (c), and returns pred = a, b, or c per channel
// depending on which is closest to p = a+b-c, matching the branching
// reference paethRef exactly (paethOpt reorders arguments but computes the
// same function — see the note in defilter.go).
//
// Grounded the same way genSubKernel is grounded on the teacher's
// genDeltaDecodeKernel: real assembly documenting the shape of an algorithm
// this package actually executes through go-highway, not a second
// implementation the rest of the package depends on.
func genPaethKernel() {
	TEXT("paethStepSIMDAsm", NOSPLIT, "func(a, b, c *[8]uint16, out *[8]uint16)")
	Doc("paethStepSIMDAsm computes the Paeth predictor for 8 packed uint16")
	Doc("channel values at a time: pred = a if |p-a|<=|p-b| && |p-a|<=|p-c|,")
	Doc("else b if |p-b|<=|p-c|, else c, where p = a+b-c.")

	aPtr := Load(Param("a"), GP64())
	bPtr := Load(Param("b"), GP64())
	cPtr := Load(Param("c"), GP64())
	outPtr := Load(Param("out"), GP64())

	va := XMM()
	vb := XMM()
	vc := XMM()
	MOVOU(op.Mem{Base: aPtr}, va)
	MOVOU(op.Mem{Base: bPtr}, vb)
	MOVOU(op.Mem{Base: cPtr}, vc)

	// p = a + b - c
	p := XMM()
	MOVOU(va, p)
	PADDW(vb, p)
	PSUBW(vc, p)

	pa := XMM()
	MOVOU(p, pa)
	PSUBW(va, pa)
	absW(pa)

	pb := XMM()
	MOVOU(p, pb)
	PSUBW(vb, pb)
	absW(pb)

	pc := XMM()
	MOVOU(p, pc)
	PSUBW(vc, pc)
	absW(pc)

	// takeA = (pa <= pb) && (pa <= pc); ties favor a, matching paethRef's
	// <= comparisons. PCMPGTW is a strict compare, so x <= y is computed as
	// y+1 > x (y - (-1), with minusOne all-ones in every lane).
	minusOne := XMM()
	PCMPEQW(minusOne, minusOne)
	leAB := XMM()
	MOVOU(pb, leAB)
	PSUBW(minusOne, leAB)
	PCMPGTW(pa, leAB) // leAB = (pb+1 > pa), i.e. pa <= pb
	leAC := XMM()
	MOVOU(pc, leAC)
	PSUBW(minusOne, leAC)
	PCMPGTW(pa, leAC)
	takeA := XMM()
	MOVOU(leAB, takeA)
	PAND(leAC, takeA)

	// takeB (considered only where !takeA) = pb <= pc.
	leBC := XMM()
	MOVOU(pc, leBC)
	PSUBW(minusOne, leBC)
	PCMPGTW(pb, leBC)

	// bOrC = takeB ? b : c
	bOrC := XMM()
	MOVOU(vb, bOrC)
	PAND(leBC, bOrC)
	cPart := XMM()
	MOVOU(vc, cPart)
	PANDN(cPart, leBC)
	POR(leBC, bOrC)

	// result = takeA ? a : bOrC
	result := XMM()
	MOVOU(va, result)
	PAND(takeA, result)
	PANDN(bOrC, takeA)
	POR(takeA, result)

	MOVOU(result, op.Mem{Base: outPtr})
	RET()
}

// absW computes the absolute value of each packed signed 16-bit lane of v in
// place: mask = arithmetic-shift-right(v, 15) is all-ones where v is
// negative and all-zero otherwise, then (v XOR mask) - mask flips and
// increments exactly the negative lanes. SSE2 has no PABSW (that arrived
// with SSSE3), hence the mask trick.
func absW(v reg.VecVirtual) {
	mask := XMM()
	MOVOU(v, mask)
	PSRAW(op.Imm(15), mask)
	PXOR(mask, v)
	PSUBW(mask, v)
}
