package record

import (
	"bytes"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Text-typed field values come from arbitrary input records, so a
// plain byte-wise string comparison would sort accented and
// non-English characters in whatever order their UTF-8 bytes happen
// to fall in, which rarely matches how a reader expects names or
// labels to be ordered. Commands like "records sort" need an ordering
// a human would recognize as alphabetical, so this package fixes one
// collation (English, default options) rather than exposing per-field
// locale configuration the declared schema format has no way to
// express anyway.

// CompareText compares the strings a and b using this package's chosen
// collation. It returns -1 if a < b, +1 if a > b, or 0 if a == b.
//
// CompareText is for display ordering only (e.g. a "sort records by
// this field" command): it never affects the order records come back
// from ReadFields, which is always input order.
func CompareText(a, b string) int {
	// collate.Collator.CompareString takes an incremental codepath
	// that has had correctness bugs (golang.org/issue/68166), so
	// compare sort keys directly instead: KeyFromString is the more
	// heavily exercised path through this library.
	//
	// A *collate.Collator is not safe for concurrent use, and
	// building a fresh one per call showed up as measurably slower
	// than sharing one behind a mutex.
	textCollatorMu.Lock()
	defer textCollatorMu.Unlock()
	var buf collate.Buffer
	ka := textCollator.KeyFromString(&buf, a)
	kb := textCollator.KeyFromString(&buf, b)
	return bytes.Compare(ka, kb)
}

// textCollator compares strings in this package's chosen collation.
// See the comment at the start of this file for more details.
var textCollator = collate.New(language.MustParse("en"))
var textCollatorMu sync.Mutex
