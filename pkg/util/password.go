package util

import "golang.org/x/crypto/bcrypt"

// bcryptCost applies to every stored credential.
const bcryptCost = 12

// HashPassword derives the bcrypt hash stored in place of the plain
// text password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
