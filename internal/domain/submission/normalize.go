package submission

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const isoDate = "2006-01-02"

var birthDateLayouts = []string{"02/01/2006", isoDate, time.RFC3339Nano}

// NormalizeBirthDate renders DD/MM/YYYY, YYYY-MM-DD or RFC 3339 input as YYYY-MM-DD.
func NormalizeBirthDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

// NormalizeName trims, collapses inner whitespace, drops combining marks and
// case-folds, so "  JOSÉ   da Silva" and "jose da silva" compare equal.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	// Casers are stateful, so one per call.
	return cases.Fold().String(strings.Join(strings.Fields(stripped), " "))
}
