package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"member-portal-api/internal/interface/api/rest/dto/auth"
)

const maxPasswordLen = 72 // bcrypt safe

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil && id != uuid.Nil, id
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	// Normalize
	email := strings.ToLower(strings.TrimSpace(r.Email))
	password := r.Password // not trimmed, only checked for blank

	// email (required + format)
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}

	// password (required + length)
	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if utf8.RuneCountInString(password) > maxPasswordLen {
		errs["password"] = "password must be at most 72 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
