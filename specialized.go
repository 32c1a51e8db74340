package pngdefilter

// DefilterOpt is the SpecializedKernel: identical semantics to DefilterRef.
// One named entry point exists per supported bpp
// (defilterOptBpp1..defilterOptBpp8), and the switch below selects among
// them at call time, the same switch-over-a-closed-set shape the teacher's
// simdPack uses over bit width. All six delegate to the shared
// defilterOptGeneric, which receives bpp as an ordinary run-time argument:
// there is no separate body per bpp, and bpp is not a compile-time constant
// inside the loops. Like DefilterRef, each call allocates a zeroed bpl-1
// byte row that stands in for the row above row 0.
func DefilterOpt(buf []byte, h, bpp, bpl int) {
	switch bpp {
	case 1:
		defilterOptBpp1(buf, h, bpl)
	case 2:
		defilterOptBpp2(buf, h, bpl)
	case 3:
		defilterOptBpp3(buf, h, bpl)
	case 4:
		defilterOptBpp4(buf, h, bpl)
	case 6:
		defilterOptBpp6(buf, h, bpl)
	case 8:
		defilterOptBpp8(buf, h, bpl)
	}
	// An unsupported bpp is a precondition violation: undefined behavior
	// per the kernel contract. DefilterChecked is the validating entry point.
}

func defilterOptBpp1(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 1, bpl) }
func defilterOptBpp2(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 2, bpl) }
func defilterOptBpp3(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 3, bpl) }
func defilterOptBpp4(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 4, bpl) }
func defilterOptBpp6(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 6, bpl) }
func defilterOptBpp8(buf []byte, h, bpl int) { defilterOptGeneric(buf, h, 8, bpl) }

// defilterOptGeneric is the shared body behind the six bpp-named entry
// points above. bpp arrives as an ordinary parameter here; each named
// wrapper is where a real per-bpp rewrite would inline it as a literal
// constant (manually, or via the `avogen`-style generator in internal/avo)
// once profiling shows the generic body isn't already being unrolled by the
// compiler for a given call site.
func defilterOptGeneric(buf []byte, h, bpp, bpl int) {
	zero := make([]byte, bpl-1)
	u := zero

	for y := 0; y < h; y++ {
		row := buf[y*bpl : (y+1)*bpl]
		filter := FilterType(row[0])
		p := row[1:]

		switch filter {
		case FilterNone:
		case FilterSub:
			for i := bpp; i < len(p); i++ {
				p[i] = sumMod256(p[i], p[i-bpp])
			}
		case FilterUp:
			for i := 0; i < len(p); i++ {
				p[i] = sumMod256(p[i], u[i])
			}
		case FilterAvg:
			for i := 0; i < bpp; i++ {
				p[i] = sumMod256(p[i], u[i]>>1)
			}
			for i := bpp; i < len(p); i++ {
				p[i] = sumMod256(p[i], avg(p[i-bpp], u[i]))
			}
		case FilterPaeth:
			for i := 0; i < bpp; i++ {
				p[i] = sumMod256(p[i], u[i])
			}
			for i := bpp; i < len(p); i++ {
				p[i] = sumMod256(p[i], paethRef(p[i-bpp], u[i], u[i-bpp]))
			}
		}

		u = p
	}
}
