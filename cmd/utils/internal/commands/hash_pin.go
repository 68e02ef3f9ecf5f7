package commands

import (
	"fmt"
	"io"

	"github.com/appetiteclub/pos/internal/staff"
	"golang.org/x/crypto/bcrypt"
)

// HashPin prints the bcrypt hash of pin, for hand-edited staff records.
func HashPin(w io.Writer, pin string) error {
	if pin == "" {
		return fmt.Errorf("pin is required")
	}
	hash, err := staff.HashPin(pin, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
