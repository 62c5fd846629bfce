package record

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

func TestLoadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       []byte
		def      CodePage
		wantText []string
		wantErrs bool
	}{
		{
			name:     "empty_input",
			in:       []byte{},
			wantText: nil,
		},
		{
			name: "plain_ascii",
			in:   byteLines("hello", "world"),
			wantText: []string{
				"hello",
				"world",
			},
		},
		{
			name:     "utf16be_input_with_bom",
			in:       utf16BigWithBOM("utf-16 text"),
			wantText: []string{"utf-16 text"},
		},
		{
			name:     "utf16le_input_with_bom",
			in:       utf16LittleWithBOM("utf-16 text"),
			wantText: []string{"utf-16 text"},
		},
		{
			name:     "utf8_with_bom",
			in:       utf8WithBOM("hello"),
			wantText: []string{"hello"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines, _, errs := LoadLines(tc.in, tc.def, true)

			var gotText []string
			for _, l := range lines {
				gotText = append(gotText, l.Text)
			}
			checkDiff(t, "decoded text", gotText, tc.wantText)

			if tc.wantErrs && len(errs) == 0 {
				t.Errorf("expected errors, got none")
			}
			if !tc.wantErrs && len(errs) != 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	t.Run("empty_buffer_is_confirmed_ascii", func(t *testing.T) {
		got := Classify(nil, CPUnknown)
		want := Classification{Confirmed, CPUSASCII}
		if got != want {
			t.Errorf("Classify(nil) = %+v, want %+v", got, want)
		}
	})

	t.Run("pure_ascii_is_confirmed", func(t *testing.T) {
		got := Classify([]byte("hello world, this is plain text"), CPUnknown)
		if got.Verdict != Confirmed || got.Detected != CPUSASCII {
			t.Errorf("Classify(ascii) = %+v, want Confirmed/US-ASCII", got)
		}
	})

	t.Run("valid_utf8_is_confirmed", func(t *testing.T) {
		got := Classify([]byte("héllo wörld"), CPUnknown)
		if got.Verdict != Confirmed || got.Detected != CPUTF8 {
			t.Errorf("Classify(utf8) = %+v, want Confirmed/UTF-8", got)
		}
	})
}

func byteLines(lines ...any) []byte {
	var ret [][]byte
	for _, ln := range lines {
		switch v := ln.(type) {
		case string:
			ret = append(ret, []byte(v))
		case []byte:
			ret = append(ret, v)
		default:
			panic(fmt.Sprintf("unhandled type %T for bytes()", ln))
		}
	}
	return bytes.Join(ret, []byte("\n"))
}

func encodeFromUTF8(s string, e encoding.Encoding) []byte {
	ret, err := e.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Only way this can happen is if the input isn't valid UTF-8,
		// and we don't do that in these tests.
		panic(err)
	}
	return ret
}

func utf16BigWithBOM(s string) []byte {
	return encodeFromUTF8(s, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
}

func utf16LittleWithBOM(s string) []byte {
	return encodeFromUTF8(s, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
}

func utf8WithBOM(s string) []byte {
	return encodeFromUTF8(s, unicode.UTF8BOM)
}

func checkDiff(t *testing.T, whatIsBeingDiffed string, got, want any) {
	t.Helper()
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("%s is wrong (-got+want):\n%s", whatIsBeingDiffed, diff)
	}
}
