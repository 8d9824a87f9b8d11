package domain

import (
	"fmt"
	"regexp"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits and checks the length
func NormalizePhone(phone string) (string, error) {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return "", fmt.Errorf("%w: must contain %d-%d digits", ErrInvalidPhone, MinPhoneDigits, MaxPhoneDigits)
	}
	return digits, nil
}
