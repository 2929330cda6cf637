package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Test de la comparaison négative (mauvais mot de passe)
	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice_01", "ComplexPass123!"}, false},
		{"Username too short", RegisterRequest{"ab", "ComplexPass123!"}, true},
		{"Username with spaces", RegisterRequest{"not a name", "ComplexPass123!"}, true},
		{"Username with punctuation", RegisterRequest{"alice!", "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{"alice_01", "Short1!"}, true},
		{"Missing digit", RegisterRequest{"alice_01", "NoDigitPassword!"}, true},
		{"Missing special char", RegisterRequest{"alice_01", "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{"alice_01", "nouppercase123!"}, true},
		{"Password too long (edge case)", RegisterRequest{"alice_01", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

// BenchmarkHashPassword permet de mesurer l'impact CPU/RAM (Crucial pour K8s)
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
