package services

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
	maxPasswordLen = 100
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return validationError(fmt.Sprintf("username must be %d to %d characters", minUsernameLen, maxUsernameLen))
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return validationError("username must not contain spaces")
		}
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen || n > maxPasswordLen {
		return validationError(fmt.Sprintf("password must be %d to %d characters and contain both letters and numbers", minPasswordLen, maxPasswordLen))
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return validationError(fmt.Sprintf("password must be %d to %d characters and contain both letters and numbers", minPasswordLen, maxPasswordLen))
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	if password != confirm {
		return validationError("passwords do not match")
	}
	return validatePassword(password)
}
