package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost. The salt
// and cost are embedded in the output, so verification needs no external
// parameters.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordMatches reports whether plain hashes to hashed. A malformed hash
// is a mismatch, never an error escaping this boundary.
func PasswordMatches(hashed, plain string) bool {
	return ComparePassword(hashed, plain) == nil
}
