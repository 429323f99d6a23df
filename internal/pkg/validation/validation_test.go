package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.example.mx"))
	assert.False(t, IsValidEmail("ana@example"))
	assert.False(t, IsValidEmail("ana example@x.com"))
	assert.False(t, IsValidEmail(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "jose nunez", Fold("José Núñez"))
	assert.Equal(t, "maria", Fold("MARÍA"))
	assert.True(t, ContainsFolded("Familia Pérez", "perez"))
	assert.True(t, ContainsFolded("Familia Perez", "PÉREZ"))
	assert.False(t, ContainsFolded("Familia Perez", "lopez"))
}
