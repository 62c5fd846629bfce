package record

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// schemaFieldJSON is the on-disk JSON representation of a single
// field definition in a schema document.
type schemaFieldJSON struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Pattern   string `json:"pattern,omitempty"`
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`

	IntegerBase      int    `json:"integerBase,omitempty"`
	DecimalThousands string `json:"decimalThousands,omitempty"`
	DecimalDecimal   string `json:"decimalDecimal,omitempty"`
	DateTimeLayout   string `json:"dateTimeLayout,omitempty"`
	BooleanTrue      []string `json:"booleanTrue,omitempty"`
	BooleanFalse     []string `json:"booleanFalse,omitempty"`
}

// SchemaDocument is the on-disk JSON representation of a full record
// schema: an ordered list of field definitions plus the separator and
// quote configuration ReadFields needs to parse lines against it.
type SchemaDocument struct {
	Fields     []schemaFieldJSON `json:"fields"`
	Separators []string          `json:"separators,omitempty"`
	Quotes     []string          `json:"quotes,omitempty"`
}

var typeNames = map[string]Type{
	"text":     Text,
	"integer":  Integer,
	"decimal":  Decimal,
	"datetime": DateTime,
	"boolean":  Boolean,
}

// ParseSchemaDocument decodes a schema JSON document into field
// definitions and parse options usable with ReadFields.
func ParseSchemaDocument(bs []byte) ([]*FieldDef, ReadFieldsOptions, error) {
	var doc SchemaDocument
	if err := json.Unmarshal(bs, &doc); err != nil {
		return nil, ReadFieldsOptions{}, fmt.Errorf("decoding schema document: %w", err)
	}

	defs := make([]*FieldDef, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		kind, ok := typeNames[f.Type]
		if !ok {
			return nil, ReadFieldsOptions{}, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}

		d := &FieldDef{
			Name:      f.Name,
			Kind:      kind,
			Pattern:   f.Pattern,
			MinLength: f.MinLength,
			MaxLength: f.MaxLength,
		}

		if f.IntegerBase != 0 || f.DecimalThousands != "" || f.DecimalDecimal != "" ||
			f.DateTimeLayout != "" || len(f.BooleanTrue) > 0 || len(f.BooleanFalse) > 0 {
			format := *DefaultFormat
			format.IntegerBase = f.IntegerBase
			if f.DecimalThousands != "" {
				format.DecimalThousands = []rune(f.DecimalThousands)[0]
			}
			if f.DecimalDecimal != "" {
				format.DecimalDecimal = []rune(f.DecimalDecimal)[0]
			}
			format.DateTimeLayout = f.DateTimeLayout
			if len(f.BooleanTrue) > 0 {
				format.BooleanTrue = f.BooleanTrue
			}
			if len(f.BooleanFalse) > 0 {
				format.BooleanFalse = f.BooleanFalse
			}
			d.Format = &format
		}

		if d.Pattern != "" {
			if _, err := regexp.Compile(d.Pattern); err != nil {
				return nil, ReadFieldsOptions{}, fmt.Errorf("field %q: invalid pattern %q: %w", f.Name, f.Pattern, err)
			}
		}

		defs = append(defs, d)
	}

	opts := ReadFieldsOptions{
		Separators: doc.Separators,
		Quotes:     doc.Quotes,
	}
	return defs, opts, nil
}

// SchemaLintResult reports structural problems found in a schema
// document by LintSchemaDocument.
type SchemaLintResult struct {
	Problems []string
}

// LintSchemaDocument checks a schema document for structural problems:
// duplicate field names, an unparseable regex, minLength > maxLength,
// and an unknown declared type. requireUniqueNames opts into the
// duplicate-name check, since a schema's FieldDefs are not required to
// have unique names in general (see Record).
func LintSchemaDocument(bs []byte, requireUniqueNames bool) (SchemaLintResult, error) {
	var doc SchemaDocument
	if err := json.Unmarshal(bs, &doc); err != nil {
		return SchemaLintResult{}, fmt.Errorf("decoding schema document: %w", err)
	}

	var res SchemaLintResult
	seen := map[string]bool{}

	for _, f := range doc.Fields {
		if _, ok := typeNames[f.Type]; !ok {
			res.Problems = append(res.Problems, fmt.Sprintf("field %q: unknown type %q", f.Name, f.Type))
		}
		if f.MinLength > 0 && f.MaxLength > 0 && f.MinLength > f.MaxLength {
			res.Problems = append(res.Problems, fmt.Sprintf("field %q: minLength %d is greater than maxLength %d", f.Name, f.MinLength, f.MaxLength))
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				res.Problems = append(res.Problems, fmt.Sprintf("field %q: invalid pattern %q: %v", f.Name, f.Pattern, err))
			}
		}
		if requireUniqueNames {
			if seen[f.Name] {
				res.Problems = append(res.Problems, fmt.Sprintf("field %q: duplicate field name", f.Name))
			}
			seen[f.Name] = true
		}
	}

	return res, nil
}

// NormalizeSchemaDocument decodes and re-encodes a schema document,
// filling in each field's format defaults so that ambiguity (e.g. a
// Decimal field with no declared separators) is resolved explicitly
// on disk. Used by cmd/fieldlint's -reformat flag.
func NormalizeSchemaDocument(bs []byte) ([]byte, error) {
	var doc SchemaDocument
	if err := json.Unmarshal(bs, &doc); err != nil {
		return nil, fmt.Errorf("decoding schema document: %w", err)
	}

	for i, f := range doc.Fields {
		switch f.Type {
		case "decimal":
			if f.DecimalThousands == "" {
				doc.Fields[i].DecimalThousands = string(DefaultFormat.DecimalThousands)
			}
			if f.DecimalDecimal == "" {
				doc.Fields[i].DecimalDecimal = string(DefaultFormat.DecimalDecimal)
			}
		case "boolean":
			if len(f.BooleanTrue) == 0 {
				doc.Fields[i].BooleanTrue = DefaultFormat.BooleanTrue
			}
			if len(f.BooleanFalse) == 0 {
				doc.Fields[i].BooleanFalse = DefaultFormat.BooleanFalse
			}
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}
