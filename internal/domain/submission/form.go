package submission

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// RawForm is the typed intake payload. Card number and CVV are write-only:
// New validates them, keeps a masked rendering and clears them from the form.
type RawForm struct {
	NationalID    string
	IssueCategory string
	FullName      string
	BirthDate     string
	MotherName    string
	Gender        string
	Card          CardInput
	Address       Address
	Financial     FinancialInput
	// Client-reported submission time; zero means "now".
	SubmittedAt time.Time
}

type CardInput struct {
	Number string
	Expiry string
	CVV    string
}

func (c CardInput) present() bool {
	return strings.TrimSpace(c.Number) != "" || strings.TrimSpace(c.CVV) != "" || strings.TrimSpace(c.Expiry) != ""
}

func (c *CardInput) clear() {
	c.Number = ""
	c.CVV = ""
}

// Amount is a money value as received: text typed by the user ("R$ 1.234,56")
// or an exact number from a structured client.
type Amount struct {
	Text   string
	Number bool
}

func TextAmount(s string) Amount   { return Amount{Text: s} }
func NumberAmount(s string) Amount { return Amount{Text: s, Number: true} }

// Value parses numbers as plain decimals and text with ParseAmount.
func (a Amount) Value() (float64, error) {
	if !a.Number {
		return ParseAmount(a.Text)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidInput
	}
	return v, nil
}

type FinancialInput struct {
	Income       Amount
	CurrentLimit Amount
	DesiredLimit Amount
}

func (f FinancialInput) parse() (FinancialInfo, error) {
	var out FinancialInfo
	var err error
	if out.Income, err = f.Income.Value(); err != nil {
		return out, fieldErr(ErrInvalidInput, "financialInfo.income", "")
	}
	if out.CurrentLimit, err = f.CurrentLimit.Value(); err != nil {
		return out, fieldErr(ErrInvalidInput, "financialInfo.currentLimit", "")
	}
	if out.DesiredLimit, err = f.DesiredLimit.Value(); err != nil {
		return out, fieldErr(ErrInvalidInput, "financialInfo.desiredLimit", "")
	}
	return out, nil
}

// ClientMeta describes the caller of an engine operation.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ParseAmount reads a currency amount in Brazilian ("R$ 1.234,56") or plain
// ("1234.56") notation. Empty input is zero. Signs, exponents and any other
// characters are rejected rather than dropped.
func ParseAmount(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, nil
	}
	if len(t) >= 2 && strings.EqualFold(t[:2], "R$") {
		t = t[2:]
	}
	var b strings.Builder
	for _, r := range t {
		switch {
		case (r >= '0' && r <= '9') || r == ',' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
		default:
			return 0, ErrInvalidInput
		}
	}
	clean := b.String()
	if clean == "" {
		return 0, ErrInvalidInput
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	case strings.Count(clean, ".") == 1 && len(clean)-strings.IndexByte(clean, '.') == 4 && clean[0] != '0':
		// "1.234" is a thousands separator, not a decimal point; "0.125" is not
		clean = strings.ReplaceAll(clean, ".", "")
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return v, nil
}
