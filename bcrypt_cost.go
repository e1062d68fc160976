//go:build !race

package campus

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor. Tests lower it.
var PasswordHashCost = 12

func passwordHashCost() int {
	if PasswordHashCost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	return PasswordHashCost
}
