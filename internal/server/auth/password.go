package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt work factor for stored credentials.
const bcryptCost = 10

// HashPassword derives a salted one-way hash of the plaintext password.
// Two calls with the same input produce different hashes; both verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. Malformed hashes and mismatches both read as false; a failed check
// is a routine outcome, not an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
