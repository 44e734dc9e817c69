package render

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"sort"
	"sync"

	"github.com/go-pdf/fpdf"
)

// DejaVu Sans covers Latin, Greek, Cyrillic and the currency symbols.
//
//go:embed fonts/DejaVuSans.ttf
var regularFont []byte

//go:embed fonts/DejaVuSans-Bold.ttf
var boldFont []byte

const fontFamily = "DejaVu"

var errNoCmap = errors.New("font has no unicode character map")

// glyphRange is an inclusive run of code points that have a glyph
type glyphRange struct{ lo, hi rune }

// coverage is a sorted, non-overlapping set of glyph ranges
type coverage []glyphRange

func (c coverage) has(r rune) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i].hi >= r })
	return i < len(c) && c[i].lo <= r
}

func (c coverage) normalize() coverage {
	sort.Slice(c, func(i, j int) bool { return c[i].lo < c[j].lo })
	out := c[:0]
	for _, g := range c {
		if n := len(out); n > 0 && g.lo <= out[n-1].hi+1 {
			if g.hi > out[n-1].hi {
				out[n-1].hi = g.hi
			}
			continue
		}
		out = append(out, g)
	}
	return out
}

// fontSet is the pair of faces every PDF is drawn with
type fontSet struct {
	regular coverage
	bold    coverage
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := parseCoverage(regularFont)
	if err != nil {
		return nil, err
	}
	bold, err := parseCoverage(boldFont)
	if err != nil {
		return nil, err
	}
	return &fontSet{regular: regular, bold: bold}, nil
})

// supports reports whether both faces can draw r. Control characters are
// layout, not glyphs.
func (f *fontSet) supports(r rune) bool {
	if r < 0x20 || r == 0x7f {
		return true
	}
	return f.regular.has(r) && f.bold.has(r)
}

func (f *fontSet) register(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
}

// parseCoverage reads the unicode cmap of a TrueType font. Format 12
// subtables are preferred over the BMP-only format 4.
func parseCoverage(ttf []byte) (coverage, error) {
	be := binary.BigEndian
	if len(ttf) < 12 {
		return nil, errNoCmap
	}

	var cmap []byte
	numTables := int(be.Uint16(ttf[4:]))
	for i := 0; i < numTables; i++ {
		rec := 12 + 16*i
		if rec+16 > len(ttf) {
			return nil, errNoCmap
		}
		if string(ttf[rec:rec+4]) != "cmap" {
			continue
		}
		off, length := int(be.Uint32(ttf[rec+8:])), int(be.Uint32(ttf[rec+12:]))
		if off+length > len(ttf) {
			return nil, errNoCmap
		}
		cmap = ttf[off : off+length]
	}
	if len(cmap) < 4 {
		return nil, errNoCmap
	}

	var fmt4, fmt12 []byte
	numSubtables := int(be.Uint16(cmap[2:]))
	for i := 0; i < numSubtables; i++ {
		rec := 4 + 8*i
		if rec+8 > len(cmap) {
			break
		}
		platform, encoding := be.Uint16(cmap[rec:]), be.Uint16(cmap[rec+2:])
		off := int(be.Uint32(cmap[rec+4:]))
		if off+2 > len(cmap) {
			continue
		}
		isUnicode := platform == 0 || (platform == 3 && (encoding == 1 || encoding == 10))
		if !isUnicode {
			continue
		}
		sub := cmap[off:]
		switch be.Uint16(sub) {
		case 12:
			fmt12 = sub
		case 4:
			fmt4 = sub
		}
	}

	switch {
	case fmt12 != nil:
		return parseFormat12(fmt12)
	case fmt4 != nil:
		return parseFormat4(fmt4)
	}
	return nil, errNoCmap
}

func parseFormat12(sub []byte) (coverage, error) {
	be := binary.BigEndian
	if len(sub) < 16 {
		return nil, errNoCmap
	}
	groups := int(be.Uint32(sub[12:]))
	if 16+12*groups > len(sub) {
		return nil, errNoCmap
	}

	cov := make(coverage, 0, groups)
	for i := 0; i < groups; i++ {
		g := sub[16+12*i:]
		lo, hi, glyph := rune(be.Uint32(g)), rune(be.Uint32(g[4:])), be.Uint32(g[8:])
		if glyph == 0 {
			lo++ // the first code point maps to .notdef
		}
		if lo <= hi {
			cov = append(cov, glyphRange{lo, hi})
		}
	}
	return cov.normalize(), nil
}

func parseFormat4(sub []byte) (coverage, error) {
	be := binary.BigEndian
	if len(sub) < 14 {
		return nil, errNoCmap
	}
	segs := int(be.Uint16(sub[6:])) / 2
	endAt, startAt, deltaAt, rangeAt := 14, 16+2*segs, 16+4*segs, 16+6*segs
	if rangeAt+2*segs > len(sub) {
		return nil, errNoCmap
	}

	var cov coverage
	for i := 0; i < segs; i++ {
		end := int(be.Uint16(sub[endAt+2*i:]))
		start := int(be.Uint16(sub[startAt+2*i:]))
		delta := int(be.Uint16(sub[deltaAt+2*i:]))
		rangeOffset := int(be.Uint16(sub[rangeAt+2*i:]))

		for c := start; c <= end && c != 0xffff; c++ {
			glyph := (c + delta) & 0xffff
			if rangeOffset != 0 {
				at := rangeAt + 2*i + rangeOffset + 2*(c-start)
				if at+2 > len(sub) {
					break
				}
				if glyph = int(be.Uint16(sub[at:])); glyph != 0 {
					glyph = (glyph + delta) & 0xffff
				}
			}
			if glyph != 0 {
				cov = append(cov, glyphRange{rune(c), rune(c)})
			}
		}
	}
	return cov.normalize(), nil
}
