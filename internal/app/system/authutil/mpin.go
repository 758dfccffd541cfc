// internal/app/system/authutil/mpin.go
// Package authutil provides MPIN validation and hashing for store owner
// authentication.
package authutil

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MPIN validation constants
const (
	MPINLength = 6
	BcryptCost = 12
)

// MPIN validation errors
var (
	ErrMPINLength  = errors.New("MPIN must be exactly 6 digits.")
	ErrMPINDigits  = errors.New("MPIN must contain only digits.")
	ErrMPINTrivial = errors.New("This MPIN is too easy to guess. Please choose a different one.")
)

// trivialMPINs are sequences and repeats that are blocked outright.
var trivialMPINs = map[string]bool{
	"000000": true,
	"111111": true,
	"222222": true,
	"333333": true,
	"444444": true,
	"555555": true,
	"666666": true,
	"777777": true,
	"888888": true,
	"999999": true,
	"123456": true,
	"654321": true,
	"012345": true,
	"543210": true,
	"123123": true,
	"112233": true,
}

// MPINRules returns a human-readable description of the MPIN rules.
// This can be displayed on the MPIN setup form.
func MPINRules() string {
	return "MPIN must be exactly 6 digits and cannot be an easy sequence like \"123456\" or \"000000\"."
}

// ValidateMPIN checks if an MPIN meets the requirements.
// Returns nil if valid, or an error describing the issue.
func ValidateMPIN(mpin string) error {
	if len(mpin) != MPINLength {
		return ErrMPINLength
	}
	for _, r := range mpin {
		if r < '0' || r > '9' {
			return ErrMPINDigits
		}
	}
	if trivialMPINs[mpin] {
		return ErrMPINTrivial
	}
	return nil
}

// HashMPIN hashes an MPIN using bcrypt.
// The MPIN should be validated with ValidateMPIN first.
func HashMPIN(mpin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(mpin), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckMPIN compares a plain-text MPIN with a bcrypt hash.
// Returns true if the MPIN matches, false otherwise.
func CheckMPIN(mpin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(mpin))
	return err == nil
}
