package staff

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
)

var Roles = []string{RoleAdmin, RoleManager, RoleCashier, RoleWaiter, RoleChef}

// ErrInvalidCredentials hides whether the email or the PIN was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Staff is a stored staff member. The PIN is only ever kept hashed.
type Staff struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	PinHash string `json:"pinHash"`
}

// Profile is the public view of a staff member.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s Staff) Profile() Profile {
	return Profile{ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role}
}

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPin hashes a PIN with bcrypt. A cost of zero uses bcrypt.DefaultCost.
func HashPin(pin string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPin(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
