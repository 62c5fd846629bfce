package record

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// ReadFieldsOptions configures ReadFields, per spec §4.5.
type ReadFieldsOptions struct {
	// Separators are field delimiters, tried in declared order at
	// each cursor position. A nil/empty slice means fixed-width
	// parsing: every field consumes up to its MaxLength.
	Separators []string
	// Quotes are the permitted quote characters. Per §9's normative
	// resolution of the source's char[]-vs-string[] ambiguity, each
	// entry must be exactly one character long; ReadFields ignores
	// (does not attempt to match) any entry that is not.
	Quotes []string
	// StopAtFirstError halts parsing of a record line at its first
	// field constraint violation instead of recording the error and
	// continuing to the next field/line.
	StopAtFirstError bool
}

// ReadFieldsResult is the outcome of ReadFields.
type ReadFieldsResult struct {
	Records    []*Record
	Success    bool
	ErrorLines []int
	Errs       []error
}

// ReadFields parses each of lines into a Record according to defs,
// per spec §4.5. Field definitions are read-only except that a nil
// Format is lazily defaulted to DefaultFormat.
func ReadFields(lines []TextLine, defs []*FieldDef, opts ReadFieldsOptions) ReadFieldsResult {
	res := ReadFieldsResult{Success: true}

	for i, line := range lines {
		rec, lineErrs := parseRecordLine(i, line.Text, defs, opts)
		if len(lineErrs) > 0 {
			res.Success = false
			res.ErrorLines = append(res.ErrorLines, i)
			res.Errs = append(res.Errs, lineErrs...)
			if opts.StopAtFirstError {
				return res
			}
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res
}

func parseRecordLine(lineIdx int, line string, defs []*FieldDef, opts ReadFieldsOptions) (*Record, []error) {
	rec := newRecord()
	var errs []error
	loc := lineAt(lineIdx)

	cursor := 0
	for _, d := range defs {
		if d.Format == nil {
			d.Format = DefaultFormat
		}

		raw, next, err := extractField(line, cursor, d, opts)
		cursor = next
		if err != nil {
			errs = append(errs, ErrFieldConstraintViolated{LineRange: loc, Field: d.Name, Raw: raw, Err: err})
			if opts.StopAtFirstError {
				return rec, errs
			}
			continue
		}

		if d.MaxLength > 0 && len([]rune(raw)) > d.MaxLength {
			raw = string([]rune(raw)[:d.MaxLength])
		}

		if err := validateField(raw, d); err != nil {
			errs = append(errs, ErrFieldConstraintViolated{LineRange: loc, Field: d.Name, Raw: raw, Err: err})
			if opts.StopAtFirstError {
				return rec, errs
			}
			continue
		}

		val, err := coerce(raw, d)
		if err != nil {
			errs = append(errs, ErrFieldConstraintViolated{LineRange: loc, Field: d.Name, Raw: raw, Err: err})
			if opts.StopAtFirstError {
				return rec, errs
			}
			continue
		}

		rec.set(d, val)
	}

	return rec, errs
}

// extractField pulls the next field out of line starting at cursor,
// per spec §4.5 steps 1-5, and returns the raw field text plus the
// cursor position to resume at. A non-nil error means the field
// starts a quoted span with no matching closing quote; the returned
// cursor then points past the end of the line, since nothing after an
// unterminated quote can be reliably re-synchronized to a field
// boundary.
func extractField(line string, cursor int, d *FieldDef, opts ReadFieldsOptions) (string, int, error) {
	// budget is a byte count spanning at most d.MaxLength runes.
	budget := len(line) - cursor
	if budget < 0 {
		budget = 0
	}
	if d.MaxLength > 0 && cursor < len(line) {
		runes := 0
		for off := range line[cursor:] {
			if runes == d.MaxLength {
				budget = off
				break
			}
			runes++
		}
	}

	if cursor >= len(line) {
		return "", cursor, nil
	}

	// Quoted span attempt.
	if q, ok := singleQuoteAt(line, cursor, opts.Quotes); ok {
		if opensQuote, content, endQuote, terminated := scanQuoted(line, cursor, q); opensQuote {
			if !terminated {
				return line[cursor:], len(line), errUnterminatedQuote{}
			}
			// If a separator occurs anywhere after the closing
			// quote, advance past the first one; otherwise advance
			// past the quote.
			if len(opts.Separators) > 0 {
				if sepIdx, sepLen, ok := findSeparator(line, endQuote+1, opts.Separators); ok {
					return content, sepIdx + sepLen, nil
				}
			}
			return content, endQuote + 1, nil
		}
	}

	// Separator attempt.
	if len(opts.Separators) > 0 {
		if sepIdx, sepLen, ok := findSeparator(line, cursor, opts.Separators); ok {
			return line[cursor:sepIdx], sepIdx + sepLen, nil
		}
	}

	// Fallback: fixed-width / remainder-of-line slice.
	end := cursor + budget
	if end > len(line) {
		end = len(line)
	}
	return line[cursor:end], end, nil
}

// singleQuoteAt reports whether the byte at line[cursor] is one of
// the permitted single-character quotes, and returns it.
func singleQuoteAt(line string, cursor int, quotes []string) (byte, bool) {
	if cursor >= len(line) {
		return 0, false
	}
	b := line[cursor]
	for _, q := range quotes {
		if len(q) == 1 && q[0] == b {
			return b, true
		}
	}
	return 0, false
}

// scanQuoted scans a quoted span starting at the (odd) run of quote
// characters beginning at cursor. opensQuote reports whether cursor
// actually begins a quoted span at all (an even run, e.g. an empty ""
// immediately followed by more text, does not open one); when
// opensQuote is true, terminated reports whether a matching closing
// quote was found, and content/closeIdx are only meaningful when both
// are true.
func scanQuoted(line string, cursor int, q byte) (opensQuote bool, content string, closeIdx int, terminated bool) {
	count := 0
	for cursor+count < len(line) && line[cursor+count] == q {
		count++
	}
	if count%2 == 0 {
		return false, "", 0, false
	}

	scanFrom := cursor + count
	for i := scanFrom; i < len(line); i++ {
		if line[i] != q {
			continue
		}
		precededByBackslash := i > 0 && line[i-1] == '\\'
		followedByQuote := i+1 < len(line) && line[i+1] == q
		if precededByBackslash || followedByQuote {
			// Escaped quote: skip the pair and keep scanning.
			if followedByQuote {
				i++
			}
			continue
		}
		// A real closing quote.
		raw := line[scanFrom:i]
		raw = strings.ReplaceAll(raw, `\`+string(q), string(q))
		raw = strings.ReplaceAll(raw, string(q)+string(q), string(q))
		return true, raw, i, true
	}

	return true, "", 0, false
}

// findSeparator searches line starting at from for the first
// occurrence of any of seps, tried in declared order, and returns its
// index and byte length.
func findSeparator(line string, from int, seps []string) (idx int, length int, ok bool) {
	if from > len(line) {
		from = len(line)
	}
	best := -1
	bestLen := 0
	for _, sep := range seps {
		if sep == "" {
			continue
		}
		if i := strings.Index(line[from:], sep); i != -1 {
			abs := from + i
			if best == -1 || abs < best {
				best = abs
				bestLen = len(sep)
			}
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return best, bestLen, true
}

func validateField(raw string, d *FieldDef) error {
	if d.MinLength > 0 && len([]rune(raw)) < d.MinLength {
		return errMinLength{got: len([]rune(raw)), want: d.MinLength}
	}
	if d.Pattern != "" {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return errPattern{pattern: d.Pattern}
		}
		if !re.MatchString(raw) {
			return errPattern{pattern: d.Pattern}
		}
	}
	return nil
}

func coerce(raw string, d *FieldDef) (Value, error) {
	v := Value{Raw: raw, Kind: d.Kind}

	switch d.Kind {
	case Text:
		v.Text = raw

	case Boolean:
		b, err := coerceBoolean(raw, d.Format)
		if err != nil {
			return Value{}, errCoerce{kind: Boolean, err: err}
		}
		v.Boolean = b

	case Integer:
		base := d.Format.IntegerBase
		if base == 0 {
			base = 10
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), base, 64)
		if err != nil {
			return Value{}, errCoerce{kind: Integer, err: err}
		}
		v.Integer = n

	case Decimal:
		dec, err := coerceDecimal(raw, d.Format)
		if err != nil {
			return Value{}, errCoerce{kind: Decimal, err: err}
		}
		v.Decimal = dec

	case DateTime:
		t, err := coerceDateTime(raw, d.Format)
		if err != nil {
			return Value{}, errCoerce{kind: DateTime, err: err}
		}
		v.DateTime = t
	}

	return v, nil
}

func coerceBoolean(raw string, f *Format) (bool, error) {
	trimmed := strings.TrimSpace(raw)
	trues := f.BooleanTrue
	if len(trues) == 0 {
		trues = DefaultFormat.BooleanTrue
	}
	falses := f.BooleanFalse
	if len(falses) == 0 {
		falses = DefaultFormat.BooleanFalse
	}

	for _, t := range trues {
		if strings.EqualFold(trimmed, t) {
			return true, nil
		}
	}
	for _, fls := range falses {
		if strings.EqualFold(trimmed, fls) {
			return false, nil
		}
	}

	// Fall back to integer-valued coercion: exactly 0 is false, any
	// other representable integer is true.
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func coerceDecimal(raw string, f *Format) (decimal.Decimal, error) {
	thousands := f.DecimalThousands
	dec := f.DecimalDecimal
	if thousands == 0 {
		thousands = DefaultFormat.DecimalThousands
	}
	if dec == 0 {
		dec = DefaultFormat.DecimalDecimal
	}

	cleaned := strings.TrimSpace(raw)
	if thousands != 0 {
		cleaned = strings.ReplaceAll(cleaned, string(thousands), "")
	}
	if dec != '.' {
		cleaned = strings.ReplaceAll(cleaned, string(dec), ".")
	}

	return decimal.NewFromString(cleaned)
}

func coerceDateTime(raw string, f *Format) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if f.DateTimeLayout != "" {
		return time.ParseInLocation(f.DateTimeLayout, trimmed, time.Local)
	}
	// No layout hint: allow a wide range of textual formats, but
	// never default missing date components from today, per spec's
	// DateTime semantics. dateparse.ParseIn interprets input that
	// carries no timezone in the location it is given, here local time.
	t, err := dateparse.ParseIn(trimmed, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
