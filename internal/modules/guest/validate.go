package guest

import (
	"net/mail"
	"strings"

	"femida-backend/internal/domain"
)

// NormalizePhone strips formatting characters and validates the result: it
// must start with + and carry at least 7 digits.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(raw)
	if cleaned == "" {
		return "", domain.Invalid("phone", "must not be empty")
	}
	if !strings.HasPrefix(cleaned, "+") {
		return "", domain.Invalid("phone", "must start with +")
	}
	digits := 0
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", domain.Invalid("phone", "must contain only digits after +")
		}
		digits++
	}
	if digits < 7 {
		return "", domain.Invalid("phone", "must contain at least 7 digits")
	}
	return cleaned, nil
}

// NormalizeINN strips spaces and accepts an empty value or exactly 14 digits.
func NormalizeINN(inn string) (string, error) {
	cleaned := strings.ReplaceAll(inn, " ", "")
	if cleaned == "" {
		return "", nil
	}
	if len(cleaned) != 14 {
		return "", domain.Invalid("inn", "must be exactly 14 digits")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", domain.Invalid("inn", "must contain only digits")
		}
	}
	return cleaned, nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invalid("email", "invalid email address")
	}
	return nil
}

func validatePeopleCount(n int) error {
	if n < 1 || n > 10 {
		return domain.Invalid("people_count", "must be between 1 and 10")
	}
	return nil
}
