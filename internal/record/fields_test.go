package record

import (
	"testing"
)

func TestReadFieldsSeparated(t *testing.T) {
	t.Parallel()

	name := &FieldDef{Name: "name", Kind: Text}
	age := &FieldDef{Name: "age", Kind: Integer}
	balance := &FieldDef{Name: "balance", Kind: Decimal}

	lines := textLines(
		"alice,30,1234.50",
		`"smith, john",45,9.00`,
	)
	defs := []*FieldDef{name, age, balance}
	opts := ReadFieldsOptions{Separators: []string{","}, Quotes: []string{`"`}}

	res := ReadFields(lines, defs, opts)
	if !res.Success {
		t.Fatalf("ReadFields failed: %v", res.Errs)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}

	v, ok := res.Records[0].Get(name)
	if !ok || v.Text != "alice" {
		t.Errorf("record 0 name = %+v, want alice", v)
	}
	v, ok = res.Records[0].Get(age)
	if !ok || v.Integer != 30 {
		t.Errorf("record 0 age = %+v, want 30", v)
	}

	v, ok = res.Records[1].Get(name)
	if !ok || v.Text != "smith, john" {
		t.Errorf("record 1 name (quoted, containing separator) = %+v, want %q", v, "smith, john")
	}
}

func TestReadFieldsFixedWidth(t *testing.T) {
	t.Parallel()

	code := &FieldDef{Name: "code", Kind: Text, MaxLength: 3}
	qty := &FieldDef{Name: "qty", Kind: Integer, MaxLength: 4}

	lines := textLines("ABC0012")
	res := ReadFields(lines, []*FieldDef{code, qty}, ReadFieldsOptions{})
	if !res.Success {
		t.Fatalf("ReadFields failed: %v", res.Errs)
	}

	v, _ := res.Records[0].Get(code)
	if v.Text != "ABC" {
		t.Errorf("code = %q, want ABC", v.Text)
	}
	v, _ = res.Records[0].Get(qty)
	if v.Integer != 12 {
		t.Errorf("qty = %d, want 12", v.Integer)
	}
}

func TestReadFieldsMinLengthViolation(t *testing.T) {
	t.Parallel()

	def := &FieldDef{Name: "code", Kind: Text, MinLength: 5}
	lines := textLines("ab")
	res := ReadFields(lines, []*FieldDef{def}, ReadFieldsOptions{})
	if res.Success {
		t.Fatalf("expected failure for a field shorter than MinLength")
	}
	if len(res.ErrorLines) != 1 || res.ErrorLines[0] != 0 {
		t.Errorf("ErrorLines = %v, want [0]", res.ErrorLines)
	}
}

func TestReadFieldsEscapedQuotes(t *testing.T) {
	t.Parallel()

	def := &FieldDef{Name: "text", Kind: Text}
	lines := textLines(`"say ""hi"" now"`)
	res := ReadFields(lines, []*FieldDef{def}, ReadFieldsOptions{Quotes: []string{`"`}})
	if !res.Success {
		t.Fatalf("ReadFields failed: %v", res.Errs)
	}
	v, _ := res.Records[0].Get(def)
	want := `say "hi" now`
	if v.Text != want {
		t.Errorf("text = %q, want %q", v.Text, want)
	}
}

func TestReadFieldsUnterminatedQuote(t *testing.T) {
	t.Parallel()

	def := &FieldDef{Name: "text", Kind: Text}
	lines := textLines(`"say hi now`)
	res := ReadFields(lines, []*FieldDef{def}, ReadFieldsOptions{Quotes: []string{`"`}})
	if res.Success {
		t.Fatalf("expected failure for an unterminated quoted field")
	}
	if len(res.Errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errs))
	}
	cerr, ok := res.Errs[0].(ErrFieldConstraintViolated)
	if !ok {
		t.Fatalf("error = %T, want ErrFieldConstraintViolated", res.Errs[0])
	}
	if _, ok := cerr.Err.(errUnterminatedQuote); !ok {
		t.Errorf("wrapped error = %T, want errUnterminatedQuote", cerr.Err)
	}
}

func TestReadFieldsBoolean(t *testing.T) {
	t.Parallel()

	def := &FieldDef{Name: "active", Kind: Boolean}
	lines := textLines("true", "false", "1", "0")
	res := ReadFields(lines, []*FieldDef{def}, ReadFieldsOptions{})
	if !res.Success {
		t.Fatalf("ReadFields failed: %v", res.Errs)
	}
	want := []bool{true, false, true, false}
	for i, rec := range res.Records {
		v, _ := rec.Get(def)
		if v.Boolean != want[i] {
			t.Errorf("record %d boolean = %v, want %v", i, v.Boolean, want[i])
		}
	}
}

func TestReadFieldsStopAtFirstError(t *testing.T) {
	t.Parallel()

	def := &FieldDef{Name: "n", Kind: Integer}
	lines := textLines("12", "notanumber", "34")
	res := ReadFields(lines, []*FieldDef{def}, ReadFieldsOptions{StopAtFirstError: true})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1 (the bad line produces no record, and parsing halts before \"34\")", len(res.Records))
	}
	v, _ := res.Records[0].Get(def)
	if v.Integer != 12 {
		t.Errorf("record 0 n = %d, want 12", v.Integer)
	}
}
