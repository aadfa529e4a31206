// Package mask turns secret fields into display-safe or storage-safe strings.
//
// Masking keeps a fixed subset of characters visible and is meant for display.
// Hashing is irreversible and is meant for equality checks without keeping the secret.
// The two must not be used interchangeably.
package mask

import (
	"crypto/sha256"
	"encoding/hex"

	"disclosure-intake/pkg/checksum"
)

// CVVPlaceholder replaces any card verification value.
const CVVPlaceholder = "***"

// NationalID keeps the first 3 and last 2 digits of an 11-digit ID: "529*****25".
// Anything that is not exactly 11 digits after cleaning comes back as the cleaned digits.
func NationalID(id string) string {
	d := checksum.Digits(id)
	if len(d) != 11 {
		return d
	}
	return d[:3] + "*****" + d[9:]
}

// CardNumber returns "****" followed by the last four digits, plus those digits.
// With fewer than four digits available, last4 holds whatever digits exist.
func CardNumber(raw string) (masked, last4 string) {
	d := checksum.Digits(raw)
	if len(d) > 4 {
		d = d[len(d)-4:]
	}
	return "****" + d, d
}

// RedactCVV discards the value entirely.
func RedactCVV(string) string { return CVVPlaceholder }

// HashSecret is the hex SHA-256 of the UTF-8 bytes of value.
func HashSecret(value string) string {
	s := sha256.Sum256([]byte(value))
	return hex.EncodeToString(s[:])
}
