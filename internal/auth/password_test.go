package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef12", hash)

	assert.True(t, hasher.Check("Abcdef12", hash))
	assert.False(t, hasher.Check("abcdef12", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("Abcdef12", "not-a-hash"))
}

func TestBcryptHasher_SaltsEachCall(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)
	second, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestPasswordIsStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef12", true},
		{"Str0ngPassword", true},
		{"Abcde12", false},   // too short
		{"abcdef12", false},  // no upper-case
		{"ABCDEF12", false},  // no lower-case
		{"Abcdefgh", false},  // no digit
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordIsStrong(tt.password))
		})
	}
}
