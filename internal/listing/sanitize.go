package listing

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DocCommentMarker starts documentation-only lines that never appear in listings.
const DocCommentMarker = "///"

// Repair maps a corrupted byte sequence to the text that replaces it.
type Repair struct {
	Corrupted   string
	Replacement string
}

// repairSources lists the characters whose UTF-8 bytes commonly arrive decoded
// as a single-byte code page, paired with the plain text they are typeset as.
var repairSources = []struct {
	intended    string
	replacement string
}{
	{"²", "^2"},
	{"³", "^3"},
	{"‘", "'"},
	{"’", "'"},
	{"“", `"`},
	{"”", `"`},
	{"–", "-"},
	{"—", "--"},
	{"…", "..."},
	{"×", "x"},
	{"\u00a0", " "},
}

// repairTable is built once from repairSources; order is significant.
var repairTable = buildRepairTable()

func buildRepairTable() []Repair {
	seen := make(map[string]bool)
	var table []Repair
	for _, src := range repairSources {
		for _, corrupted := range corruptions(src.intended) {
			if corrupted == src.intended || seen[corrupted] {
				continue
			}
			seen[corrupted] = true
			table = append(table, Repair{Corrupted: corrupted, Replacement: src.replacement})
		}
	}
	return table
}

// corruptions returns the forms s takes when its UTF-8 bytes are read as
// Windows-1252 or ISO-8859-1. Bytes Windows-1252 leaves undefined also show up
// passed through as C1 controls next to Windows-1252 text.
func corruptions(s string) []string {
	var out []string
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().String(s)
		if err != nil || strings.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		out = append(out, decoded)
	}
	return append(out, decodeWindows1252Passthrough(s))
}

func decodeWindows1252Passthrough(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		r := charmap.Windows1252.DecodeByte(s[i])
		if r == utf8.RuneError {
			r = rune(s[i])
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RepairTable returns a copy of the encoding repair table in application order.
func RepairTable() []Repair {
	out := make([]Repair, len(repairTable))
	copy(out, repairTable)
	return out
}

// Sanitize removes documentation comment lines and repairs known mis-encoded sequences.
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), DocCommentMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return RepairEncoding(strings.Join(kept, "\n"))
}

// RepairEncoding applies the repair table globally, entry by entry.
func RepairEncoding(text string) string {
	for _, r := range repairTable {
		text = strings.ReplaceAll(text, r.Corrupted, r.Replacement)
	}
	return text
}
