package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword derives a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

// CheckPassword reports whether pw matches the stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
