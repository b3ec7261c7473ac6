package services

import "github.com/you/credsvc/domain"

// Validation bounds for registration fields.
const (
	minPasswordLength = 8
	maxPasswordLength = 100
	minUsernameLength = 3
	maxUsernameLength = 100
	minEmailLength    = 3
	maxEmailLength    = 300
)

func validateEmail(email string) error {
	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return domain.ErrInvalidEmail
	}
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return nil
		}
	}
	return domain.ErrInvalidEmail
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return domain.ErrInvalidPassword
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return domain.ErrInvalidUsername
	}
	return nil
}
