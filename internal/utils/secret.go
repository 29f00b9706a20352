package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes the API shared secret for at-rest storage
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret compares a presented secret with its stored hash
func CheckSecret(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}
