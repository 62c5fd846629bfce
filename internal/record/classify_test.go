package record

import "testing"

func TestClassifyUTF32(t *testing.T) {
	t.Parallel()

	le := []byte{'a', 0, 0, 0, 'b', 0, 0, 0}
	got := Classify(le, CPUnknown)
	if got.Verdict != Confirmed || got.Detected != CPUTF32LE {
		t.Errorf("Classify(utf32le) = %+v, want Confirmed/UTF-32LE", got)
	}

	be := []byte{0, 0, 0, 'a', 0, 0, 0, 'b'}
	got = Classify(be, CPUnknown)
	if got.Verdict != Confirmed || got.Detected != CPUTF32BE {
		t.Errorf("Classify(utf32be) = %+v, want Confirmed/UTF-32BE", got)
	}
}

func TestClassifyUTF16(t *testing.T) {
	t.Parallel()

	le := []byte{'a', 0, 'b', 0}
	got := Classify(le, CPUnknown)
	if got.Verdict != Confirmed || got.Detected != CPUTF16LE {
		t.Errorf("Classify(utf16le) = %+v, want Confirmed/UTF-16LE", got)
	}
}

func TestClassify8BitDistinguishesCodePages(t *testing.T) {
	t.Parallel()

	t.Run("win1252_only_byte", func(t *testing.T) {
		got := Classify([]byte{0x93, 'a'}, CPUnknown)
		if got.Detected != CPWindows1252 {
			t.Errorf("Detected = %v, want windows-1252", got.Detected)
		}
	})

	t.Run("latin15_only_byte", func(t *testing.T) {
		got := Classify([]byte{0xA4, 'a'}, CPUnknown)
		if got.Detected != CPISO8859_15 {
			t.Errorf("Detected = %v, want iso-8859-15", got.Detected)
		}
	})

	t.Run("plain_high_byte_defaults_to_8859_1", func(t *testing.T) {
		got := Classify([]byte{0xE9, 'a'}, CPUnknown)
		if got.Detected != CPISO8859_1 {
			t.Errorf("Detected = %v, want iso-8859-1", got.Detected)
		}
	})
}

func TestIsASCIICompatible(t *testing.T) {
	t.Parallel()

	if !IsASCIICompatible(CPUSASCII) {
		t.Error("US-ASCII should be ASCII-compatible")
	}
	if !IsASCIICompatible(932) {
		t.Error("Shift-JIS should be on the allow-list")
	}
	if IsASCIICompatible(CPUTF16LE) {
		t.Error("UTF-16LE is not ASCII-compatible")
	}
}
