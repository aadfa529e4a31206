package checksum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNationalID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "reference number", input: "52998224725", want: true},
		{name: "formatted reference number", input: "529.982.247-25", want: true},
		{name: "second valid number", input: "11144477735", want: true},
		{name: "wrong first check digit", input: "52998224715", want: false},
		{name: "wrong second check digit", input: "52998224726", want: false},
		{name: "too short", input: "123", want: false},
		{name: "too long", input: "529982247250", want: false},
		{name: "empty", input: "", want: false},
		{name: "letters only", input: "abcdefghijk", want: false},
		{name: "unicode noise", input: "５２９９８２２４７２５", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidNationalID(tt.input))
		})
	}
}

func TestValidNationalID_RejectsRepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		id := strings.Repeat(string(d), 11)
		assert.False(t, ValidNationalID(id), "repeated digits %q must be rejected", id)
	}
}

func TestValidCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "visa reference", input: "4532015112830366", want: true},
		{name: "visa with spaces", input: "4532 0151 1283 0366", want: true},
		{name: "mastercard", input: "5555555555554444", want: true},
		{name: "amex 15 digits", input: "378282246310005", want: true},
		{name: "wrong checksum", input: "4532015112830367", want: false},
		{name: "12 digits", input: "453201511283", want: false},
		{name: "20 digits", input: "45320151128303660000", want: false},
		{name: "empty", input: "", want: false},
		{name: "all zeros passes luhn", input: "0000000000000", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCardNumber(tt.input))
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "52998224725", Digits("529.982.247-25"))
	assert.Equal(t, "", Digits("---"))
	assert.Equal(t, "", Digits(""))
}
