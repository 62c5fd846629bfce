package record

// ByteLine is a contiguous slice of a byte buffer with its line
// terminator stripped. It aliases the input buffer's backing array;
// callers that need to retain a ByteLine past the lifetime of the
// input buffer should copy it.
type ByteLine []byte

// SplitLines segments bs into byte-lines at CR+LF or LF boundaries.
//
// A lone CR (0x0D) not immediately followed by LF is not a
// terminator, and is kept as data. The final byte-line is emitted
// even when bs does not end with a terminator. A trailing terminator
// does not itself produce an empty final byte-line, matching the
// convention of a typical line reader.
func SplitLines(bs []byte) []ByteLine {
	var ret []ByteLine

	start := 0
	for i := 0; i < len(bs); i++ {
		switch bs[i] {
		case '\n':
			ret = append(ret, ByteLine(bs[start:i]))
			start = i + 1
		case '\r':
			if i+1 < len(bs) && bs[i+1] == '\n' {
				ret = append(ret, ByteLine(bs[start:i]))
				i++
				start = i + 1
			}
			// A lone CR is not a terminator; leave it as data and
			// keep scanning.
		}
	}
	if start < len(bs) {
		ret = append(ret, ByteLine(bs[start:]))
	}
	return ret
}
