// Package invitecode generates and validates the 6-character codes guests type in
// to open their invitation.
package invitecode

import (
	"crypto/rand"
	"regexp"
	"strings"
)

const (
	// Alphabet is the set of characters a code is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Length is the number of characters in a code.
	Length = 6
)

var codeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// maxUnbiased is the largest multiple of len(Alphabet) that fits in a byte;
// bytes at or above it are rejected so every character is equally likely.
const maxUnbiased = 256 - 256%len(Alphabet)

// Generate returns a random code. Uniqueness is not checked here: callers must
// verify the code against the store and retry on collision.
func Generate() string {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			panic("invitecode: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out)
}

// ValidateCustom reports whether code is exactly six characters of A-Z or 0-9.
func ValidateCustom(code string) bool {
	return codeRe.MatchString(code)
}

// Normalize trims and upper-cases user input before validation or lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
