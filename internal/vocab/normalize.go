package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims every field, drops entries without a native text,
// substitutes the native text for a missing phonetic form and removes
// duplicates by case-insensitive native text. The first occurrence wins and
// source order is preserved.
//
// Normalize is idempotent.
func Normalize(raw []Triple) []Triple {
	if len(raw) == 0 {
		return nil
	}

	folder := cases.Fold()
	seen := make(map[string]bool, len(raw))
	out := make([]Triple, 0, len(raw))

	for _, t := range raw {
		native := strings.TrimSpace(t.Native)
		if native == "" {
			continue
		}
		phonetic := strings.TrimSpace(t.Phonetic)
		if phonetic == "" {
			phonetic = native
		}

		key := foldKey(folder, native)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, Triple{
			Native:   native,
			Script:   strings.TrimSpace(t.Script),
			Phonetic: phonetic,
		})
	}
	return out
}

// foldKey is the dedup key for a native text. Composed and decomposed
// forms of the same text share a key.
func foldKey(folder cases.Caser, s string) string {
	folder.Reset()
	return folder.String(norm.NFC.String(s))
}
