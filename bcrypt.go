package campus

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", BadRequest("password must not be empty")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", Internal(err)
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return Internal(err)
	}
	return nil
}

type bcryptPasswords struct{}

func (bcryptPasswords) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (bcryptPasswords) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

// BcryptPasswords is the default PasswordAuthenticator.
func BcryptPasswords() PasswordAuthenticator { return bcryptPasswords{} }
