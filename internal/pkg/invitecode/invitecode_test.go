package invitecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := Generate()
		assert.Len(t, code, Length)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q in %s", r, code)
		}
		assert.True(t, ValidateCustom(code))
	}
}

func TestGenerate_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		seen[Generate()] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestValidateCustom(t *testing.T) {
	cases := map[string]bool{
		"ABC123":  true,
		"000000":  true,
		"ZZZZZZ":  true,
		"abc123":  false,
		"ABC12":   false,
		"ABC1234": false,
		"ABC-12":  false,
		"ÁBC123":  false,
		"":        false,
		" ABC12":  false,
	}
	for code, want := range cases {
		assert.Equal(t, want, ValidateCustom(code), code)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ABC123", Normalize("  abc123 "))
	assert.True(t, ValidateCustom(Normalize("xy12zq")))
}
