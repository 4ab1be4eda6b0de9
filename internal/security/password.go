package security

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswords reports whether password matches the bcrypt hash. A
// malformed hash is a mismatch, not an error.
func ComparePasswords(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// IsHashMalformed separates corrupt stored hashes from plain mismatches.
func IsHashMalformed(hashedPassword string) bool {
	_, err := bcrypt.Cost([]byte(hashedPassword))
	return err != nil
}
