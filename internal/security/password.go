package security

import (
	"crypto/rand"
	"math/big"

	"buku-saku-server/internal/util"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", util.LogError("gagal hashing password", err)
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomPassword : password acak 8 karakter untuk reset oleh admin.
func GenerateRandomPassword() (string, error) {
	out := make([]byte, 8)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", util.LogError("gagal membangkitkan password acak", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
