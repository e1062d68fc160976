//go:build race

package campus

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is ignored under the race detector.
var PasswordHashCost = bcrypt.MinCost

func passwordHashCost() int {
	return bcrypt.MinCost
}
