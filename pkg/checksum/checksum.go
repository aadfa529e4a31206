// Package checksum validates the check digits of national IDs and payment card numbers.
//
// Both validators strip every non-digit before checking, so formatted input such as
// "529.982.247-25" or "4532 0151 1283 0366" is accepted. Malformed input never panics;
// it simply fails validation.
package checksum

const (
	nationalIDLen = 11
	cardMinLen    = 13
	cardMaxLen    = 19
)

// Digits returns only the ASCII digits of s, in order.
func Digits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// ValidNationalID reports whether raw is an 11-digit national ID whose two trailing
// mod-11 check digits match. Repeated-digit IDs ("11111111111") are rejected.
func ValidNationalID(raw string) bool {
	d := Digits(raw)
	if len(d) != nationalIDLen || allSame(d) {
		return false
	}
	if checkDigit(d[:9], 10) != int(d[9]-'0') {
		return false
	}
	return checkDigit(d[:10], 11) == int(d[10]-'0')
}

// checkDigit weights digits from topWeight down to 2 and folds the sum mod 11.
func checkDigit(digits string, topWeight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (topWeight - i)
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		return 0
	}
	return r
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

// ValidCardNumber reports whether raw holds 13 to 19 digits passing the Luhn check.
func ValidCardNumber(raw string) bool {
	d := Digits(raw)
	if len(d) < cardMinLen || len(d) > cardMaxLen {
		return false
	}
	sum := 0
	double := false
	for i := len(d) - 1; i >= 0; i-- {
		n := int(d[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
