package record

import "testing"

func TestRecordIdentityIsByReference(t *testing.T) {
	t.Parallel()

	a := &FieldDef{Name: "x", Kind: Text}
	b := &FieldDef{Name: "x", Kind: Text}

	rec := newRecord()
	rec.set(a, Value{Kind: Text, Text: "from a"})
	rec.set(b, Value{Kind: Text, Text: "from b"})

	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (distinct FieldDefs with the same Name occupy distinct slots)", rec.Len())
	}

	va, _ := rec.Get(a)
	vb, _ := rec.Get(b)
	if va.Text != "from a" || vb.Text != "from b" {
		t.Errorf("got %q/%q, want distinct values for distinct FieldDef identities", va.Text, vb.Text)
	}
}

func TestRecordFieldsPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	first := &FieldDef{Name: "first"}
	second := &FieldDef{Name: "second"}
	third := &FieldDef{Name: "third"}

	rec := newRecord()
	rec.set(second, Value{})
	rec.set(third, Value{})
	rec.set(first, Value{})

	got := rec.Fields()
	want := []*FieldDef{second, third, first}
	if len(got) != len(want) {
		t.Fatalf("Fields() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %p, want %p", i, got[i], want[i])
		}
	}
}
