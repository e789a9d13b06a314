package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Indian mobile numbers: 10 digits, first digit 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// Indian postal codes: 6 digits.
var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// IsValidMobile reports whether s is a valid Indian mobile number.
func IsValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// IsValidPincode reports whether s is a valid Indian postal code.
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// GenerateOTP generates a random 6-digit one-time password.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
