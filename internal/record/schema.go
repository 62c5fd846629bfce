package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is one of the declared data types a FieldDef can coerce a raw
// field string into. The set is closed: these are the only five
// types a field definition may name.
type Type int

const (
	// Text is the identity coercion: the raw field string, unmodified.
	Text Type = iota
	// Integer coerces the field to a signed integer.
	Integer
	// Decimal coerces the field to an arbitrary-precision decimal.
	Decimal
	// DateTime coerces the field to a local-time timestamp.
	DateTime
	// Boolean coerces the field to true/false.
	Boolean
)

func (t Type) String() string {
	switch t {
	case Text:
		return "Text"
	case Integer:
		return "Integer"
	case Decimal:
		return "Decimal"
	case DateTime:
		return "DateTime"
	case Boolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// FieldDef is a field definition: one column of a record schema.
//
// A FieldDef is a value struct, constructed once by the caller and
// read many times during parsing. Field Parse is permitted to fill in
// a nil Format with DefaultFormat, but must not otherwise modify a
// FieldDef. Two FieldDefs with the same Name are not required to be
// the same definition: identity for the purposes of Record lookups is
// by FieldDef value/reference, not by Name (see Record).
type FieldDef struct {
	// Name is a human-readable label for the field. It need not be
	// unique among the FieldDefs in a schema; callers that require
	// uniqueness must enforce it themselves.
	Name string
	// Kind is the declared data type.
	Kind Type
	// Format is an optional format/locale hint used when coercing
	// Integer, Decimal, DateTime and Boolean fields. A nil Format is
	// defaulted to DefaultFormat the first time the field is parsed.
	Format *Format
	// Pattern, if non-empty, is a regular expression the raw field
	// text must match before coercion is attempted.
	Pattern string
	// MinLength is the minimum permitted length of the raw field
	// text, in runes. Zero means no minimum.
	MinLength int
	// MaxLength is the maximum permitted length of the raw field
	// text, in runes, and also the fixed-width column width used when
	// no separators are configured. Zero means no maximum.
	MaxLength int
}

// Format is a locale/format hint for type coercion.
type Format struct {
	// IntegerBase is the base used to parse Integer fields. Zero
	// means base 10.
	IntegerBase int
	// DecimalThousands and DecimalDecimal name the separator runes
	// used when parsing Decimal fields, e.g. "," and "." for
	// "1,234.56", or "." and "," for the European convention
	// "1.234,56". Zero value defaults to "," and ".".
	DecimalThousands rune
	DecimalDecimal   rune
	// DateTimeLayout is a Go reference-time layout
	// (https://pkg.go.dev/time#pkg-constants) used to parse DateTime
	// fields. An empty layout means "parse leniently", falling back
	// to a best-effort multi-format parse in local time (see
	// coerceDateTime).
	DateTimeLayout string
	// BooleanTrue and BooleanFalse are the literal strings (compared
	// case-insensitively) recognized as true/false before the
	// fallback integer-valued coercion (§ Boolean in the field
	// parser) is attempted. A nil slice defaults to
	// {"true"}/{"false"}.
	BooleanTrue  []string
	BooleanFalse []string
}

// DefaultFormat is the locale-invariant format hint used when a
// FieldDef's Format is nil at parse time.
var DefaultFormat = &Format{
	DecimalThousands: ',',
	DecimalDecimal:   '.',
	BooleanTrue:      []string{"true"},
	BooleanFalse:     []string{"false"},
}

// Record is an ordered mapping from field definition to typed value.
//
// Identity within a Record is by FieldDef reference (pointer
// identity), not by Name: two distinct *FieldDef values with the same
// Name occupy two distinct slots. This matches the source library's
// use of object identity as the lookup key (see DESIGN.md), while
// remaining safe for concurrent, independent parses since a Record's
// keys are never mutated after insertion.
type Record struct {
	order  []*FieldDef
	values map[*FieldDef]Value
}

// Value is a coerced field value. Exactly one of the typed accessors
// is meaningful, determined by the FieldDef's Kind.
type Value struct {
	Raw  string
	Kind Type

	Text     string
	Integer  int64
	Decimal  decimal.Decimal
	DateTime time.Time
	Boolean  bool
}

// newRecord returns an empty record. Fields reports definitions in
// the order set first inserts them.
func newRecord() *Record {
	return &Record{values: map[*FieldDef]Value{}}
}

// set inserts or overwrites the value for d. If d is not already
// present, it is appended to the record's field order.
func (r *Record) set(d *FieldDef, v Value) {
	if _, ok := r.values[d]; !ok {
		r.order = append(r.order, d)
	}
	r.values[d] = v
}

// Get returns the value stored for d, if any.
func (r *Record) Get(d *FieldDef) (Value, bool) {
	v, ok := r.values[d]
	return v, ok
}

// Fields returns the FieldDefs present in r, in the order they were
// first inserted (which, in normal operation, is schema declaration
// order).
func (r *Record) Fields() []*FieldDef {
	return r.order
}

// Len reports the number of fields present in r.
func (r *Record) Len() int {
	return len(r.order)
}
