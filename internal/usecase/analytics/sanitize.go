package analytics

import (
	"fmt"
	"strings"

	"disclosure-intake/internal/domain/submission"
	"disclosure-intake/pkg/mask"
)

type redaction int

const (
	keep redaction = iota
	maskNationalID
	maskCard
	redactCVV
	hash
)

// keys compared after folding case and accents and dropping everything but letters
var secretKeys = map[string]redaction{
	"nationalid":     maskNationalID,
	"cpf":            maskNationalID,
	"cardnumber":     maskCard,
	"cardinfo":       maskCard,
	"numerocartao":   maskCard,
	"cartao":         maskCard,
	"dadoscartao":    maskCard,
	"cvv":            redactCVV,
	"cvc":            redactCVV,
	"password":       hash,
	"senha":          hash,
	"birthdate":      hash,
	"datanascimento": hash,
	"mothername":     hash,
	"nomemae":        hash,
	"nomedamae":      hash,
	"secret":         hash,
	"token":          hash,
	"value":          hash,
	"answer":         hash,
}

func normalizeKey(k string) string {
	var b strings.Builder
	for _, r := range submission.NormalizeName(k) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeData returns a copy of data with secret-looking values masked or hashed.
// Nested maps and slices are walked; everything under a secret key inherits its
// redaction unless a nested key names its own. The input map is not modified.
func SanitizeData(data map[string]any) map[string]any {
	return sanitizeMap(keep, data)
}

func sanitizeMap(inherited redaction, data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		r := secretKeys[normalizeKey(k)]
		if r == keep {
			r = inherited
		}
		out[k] = sanitizeValue(r, v)
	}
	return out
}

func sanitizeValue(r redaction, v any) any {
	switch t := v.(type) {
	case map[string]any:
		return sanitizeMap(r, t)
	case []any:
		cp := make([]any, len(t))
		for i := range t {
			cp[i] = sanitizeValue(r, t[i])
		}
		return cp
	case nil:
		return nil
	}

	switch r {
	case maskNationalID:
		return mask.NationalID(fmt.Sprint(v))
	case maskCard:
		masked, _ := mask.CardNumber(fmt.Sprint(v))
		return masked
	case redactCVV:
		return mask.CVVPlaceholder
	case hash:
		return "sha256:" + mask.HashSecret(fmt.Sprint(v))
	default:
		return v
	}
}
