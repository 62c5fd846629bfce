package record

import (
	"strings"

	"golang.org/x/net/html/charset"
)

// TextLine is a decoded line of text, tagged with the code page that
// was actually used to decode it.
type TextLine struct {
	Text     string
	CodePage CodePage
}

// LoadLines segments bs into byte-lines (via SplitLines) and decodes
// each into a TextLine, per spec §4.3. def is the caller's starting
// default encoding, or CPUnknown if none is known. When
// retryOnConflict is true (the normal case), and a single pass
// produces more than one distinct code page, LoadLines retries with
// each observed code page as the starting default and keeps the pass
// whose dominant code page covers the most lines.
//
// LoadLines never fails outright: every line is decoded as something.
// A line the classifier rejects keeps the encoding then in effect for
// its pass (UTF-8, passed through unchanged, when no default is
// known). The returned error set holds an ErrEncodingUnresolved only
// when the selected pass still attributes its lines to more than one
// code page; a rejected classification is not reported on its own.
func LoadLines(bs []byte, def CodePage, retryOnConflict bool) ([]TextLine, CodePage, []error) {
	byteLines := SplitLines(bs)

	if def == CPUnknown {
		def = sniffBOM(bs)
		// A BOM that seeded the default is not part of the first
		// line's text.
		if len(byteLines) > 0 {
			switch def {
			case CPUTF8:
				byteLines[0] = byteLines[0][3:]
			case CPUTF16LE, CPUTF16BE:
				byteLines[0] = byteLines[0][2:]
			}
		}
	}

	type passResult struct {
		start     CodePage
		lines     []TextLine
		histogram map[CodePage]int
		dominant  CodePage
		domCount  int
	}

	toCheck := []CodePage{def}
	checked := map[CodePage]bool{}
	var passes []passResult

	for len(toCheck) > 0 {
		start := toCheck[0]
		toCheck = toCheck[1:]
		if checked[start] {
			continue
		}
		checked[start] = true

		lines, histogram := decodeOnePass(byteLines, start)

		dominant, domCount := CPUnknown, -1
		for cp, n := range histogram {
			if n > domCount {
				dominant, domCount = cp, n
			}
		}

		passes = append(passes, passResult{
			start:     start,
			lines:     lines,
			histogram: histogram,
			dominant:  dominant,
			domCount:  domCount,
		})

		if retryOnConflict && len(histogram) > 1 {
			for cp := range histogram {
				if !checked[cp] {
					toCheck = append(toCheck, cp)
				}
			}
		}
	}

	best := passes[0]
	for _, p := range passes[1:] {
		if p.domCount > best.domCount {
			best = p
		}
	}

	var errs []error
	if len(best.histogram) > 1 {
		unresolved := ErrEncodingUnresolved{}
		if def != CPUnknown {
			unresolved.Assumed = def.String()
		}
		errs = append(errs, unresolved)
	}

	return best.lines, best.dominant, errs
}

// decodeOnePass runs a single decode pass over byteLines, starting
// with startDefault as the effective encoding, applying C3's
// promotion rule as it goes.
func decodeOnePass(byteLines []ByteLine, startDefault CodePage) ([]TextLine, map[CodePage]int) {
	lines := make([]TextLine, 0, len(byteLines))
	histogram := map[CodePage]int{}

	haveDefault := startDefault != CPUnknown
	effective := startDefault
	if !haveDefault {
		effective = CPUTF8
	}

	for _, bl := range byteLines {
		decoded := decodeWith(bl, effective)
		lineCP := effective

		if !haveDefault || isLossyDecode(decoded) {
			cls := Classify(bl, effective)
			if (cls.Verdict == Confirmed || cls.Verdict == Inconclusive) && cls.Detected != effective && cls.Detected != CPUnknown {
				// Re-decode this line with the newly detected code
				// page, but only latch it in as the default for
				// subsequent lines if it earns promotion (spec §4.3
				// step 3): no default set yet, or it has already
				// appeared at least as often as the current leader.
				// Otherwise it stays local to this one line.
				lineCP = cls.Detected
				decoded = decodeWith(bl, lineCP)

				if !haveDefault || histogram[lineCP] >= mostUsedCount(histogram) {
					effective = lineCP
					haveDefault = true
				}
			}
		}

		histogram[lineCP]++
		lines = append(lines, TextLine{Text: decoded, CodePage: lineCP})
	}

	return lines, histogram
}

func mostUsedCount(histogram map[CodePage]int) int {
	max := 0
	for _, n := range histogram {
		if n > max {
			max = n
		}
	}
	return max
}

func decodeWith(bl ByteLine, cp CodePage) string {
	out, err := cp.Decoder().NewDecoder().Bytes(bl)
	if err != nil {
		// The x/text decoders used here substitute U+FFFD rather
		// than returning an error for malformed bytes, but guard
		// against it anyway rather than risk a nil slice.
		return string(bl)
	}
	return string(out)
}

// sniffBOM peeks the first few bytes of bs through a BOM-aware reader
// to pick a starting default when the caller didn't supply one,
// falling back to "no default" (UTF-8 for the first line, per spec)
// when no BOM is present (spec §4.3 step 1).
func sniffBOM(bs []byte) CodePage {
	const peekLen = 10
	peek := bs
	if len(peek) > peekLen {
		peek = peek[:peekLen]
	}

	_, name, certain := charset.DetermineEncoding(peek, "")
	if !certain {
		return CPUnknown
	}
	switch strings.ToLower(name) {
	case "utf-16le":
		return CPUTF16LE
	case "utf-16be":
		return CPUTF16BE
	case "utf-8":
		return CPUTF8
	default:
		return CPUnknown
	}
}
