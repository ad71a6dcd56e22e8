package fonts

// Advance widths from the Adobe core-font AFM files, indexed by WinAnsi
// code. The ASCII run is stored as a slice starting at 0x20; the handful of
// CP-1252 punctuation codes the renderer emits are added on top.

var helveticaASCII = []int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldASCII = []int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

var helveticaWidths = buildWidths(helveticaASCII, map[byte]int{
	0x85: 1000, // ellipsis
	0x91: 222, 0x92: 222, // single quotes
	0x93: 333, 0x94: 333, // double quotes
	0x95: 350,  // bullet
	0x96: 556,  // en dash
	0x97: 1000, // em dash
	0xb0: 400,  // degree
})

var helveticaBoldWidths = buildWidths(helveticaBoldASCII, map[byte]int{
	0x85: 1000,
	0x91: 278, 0x92: 278,
	0x93: 500, 0x94: 500,
	0x95: 350,
	0x96: 556,
	0x97: 1000,
	0xb0: 400,
})

func buildWidths(ascii []int, extra map[byte]int) map[byte]int {
	m := make(map[byte]int, len(ascii)+len(extra))
	for i, w := range ascii {
		m[byte(0x20+i)] = w
	}
	for code, w := range extra {
		m[code] = w
	}
	return m
}
