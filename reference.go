package pngdefilter

// DefilterRef is the ReferenceKernel: a straight, unoptimized translation of
// the PNG reverse-filter algorithm. It is the oracle every other kernel is
// checked against (see Check in harness.go) and is never itself the fast
// path.
//
// buf holds h scanlines of bpl bytes each, back to back. bpl must equal
// w*bpp+1 for some w>=1, bpp must be one of {1,2,3,4,6,8}, and buf must have
// at least h*bpl bytes. Violating a precondition is undefined behavior: the
// kernel does not validate (see DefilterChecked for a validating wrapper).
func DefilterRef(buf []byte, h, bpp, bpl int) {
	zero := make([]byte, bpl-1)
	u := zero

	for y := 0; y < h; y++ {
		row := buf[y*bpl : (y+1)*bpl]
		filter := FilterType(row[0])
		p := row[1:]

		switch filter {
		case FilterNone:
			// no-op
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
