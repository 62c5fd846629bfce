package record

import "fmt"

// LineRange identifies a half-open [FirstLine:LastLine) span of
// 0-indexed lines that a diagnostic refers to. A single-line
// diagnostic has LastLine == FirstLine+1.
type LineRange struct {
	FirstLine int
	LastLine  int
}

// LocationString returns a short human-readable description of r,
// adjusted to the 1-indexed, inclusive convention editors use.
func (r LineRange) LocationString() string {
	start := r.FirstLine + 1
	end := r.LastLine

	if end <= start {
		return fmt.Sprintf("line %d", start)
	}
	return fmt.Sprintf("lines %d-%d", start, end)
}

func lineAt(i int) LineRange {
	return LineRange{i, i + 1}
}

// ErrEncodingUnresolved reports that the decoder's retry loop
// exhausted every candidate default without settling on a single
// consistent encoding: the pass LoadLines selected still attributes
// its lines to more than one code page.
type ErrEncodingUnresolved struct {
	LineRange
	Assumed string
}

func (e ErrEncodingUnresolved) Error() string {
	if e.Assumed == "" {
		return fmt.Sprintf("%s: could not determine a character encoding for this input", e.LocationString())
	}
	return fmt.Sprintf("%s: input is not consistent with assumed encoding %s, and no other encoding fits", e.LocationString(), e.Assumed)
}

// ErrFilterWindowMissing reports that a required start- or
// end-sentinel line was not found, or that the resolved window is
// empty or inverted.
type ErrFilterWindowMissing struct {
	Sentinel string
	IsStart  bool
}

func (e ErrFilterWindowMissing) Error() string {
	kind := "end"
	if e.IsStart {
		kind = "start"
	}
	if e.Sentinel == "" {
		return fmt.Sprintf("filter window is empty: the %s of the window is before its start", kind)
	}
	return fmt.Sprintf("%s-sentinel line %q was not found", kind, e.Sentinel)
}

// ErrFilterLineRejected reports that a line in the filter window
// failed one of the structural predicates (length, prefix, substring,
// suffix).
type ErrFilterLineRejected struct {
	LineRange
	Reason string
}

func (e ErrFilterLineRejected) Error() string {
	return fmt.Sprintf("%s: rejected by filter: %s", e.LocationString(), e.Reason)
}

// ErrFieldConstraintViolated reports that a field's minimum length,
// regular expression, or type coercion failed.
type ErrFieldConstraintViolated struct {
	LineRange
	Field string
	Raw   string
	Err   error
}

func (e ErrFieldConstraintViolated) Error() string {
	return fmt.Sprintf("%s: field %q (value %q): %v", e.LocationString(), e.Field, e.Raw, e.Err)
}

// errMinLength, errPattern and the coercion errors below are the Err
// values ErrFieldConstraintViolated wraps; they are not exported
// because callers only need ErrFieldConstraintViolated's own message
// and structured fields.

type errMinLength struct {
	got, want int
}

func (e errMinLength) Error() string {
	return fmt.Sprintf("length %d is shorter than the required minimum %d", e.got, e.want)
}

type errPattern struct {
	pattern string
}

func (e errPattern) Error() string {
	return fmt.Sprintf("does not match required pattern %q", e.pattern)
}

type errCoerce struct {
	kind Type
	err  error
}

func (e errCoerce) Error() string {
	return fmt.Sprintf("cannot parse as %s: %v", e.kind, e.err)
}

type errUnterminatedQuote struct{}

func (e errUnterminatedQuote) Error() string {
	return "quoted field has no matching closing quote"
}
