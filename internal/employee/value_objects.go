package employee

import (
	"net/mail"
	"strings"

	employeeerrors "github.com/junicoVilela/people-flow-api-sub000/internal/employee/errors"
)

// TaxID is a validated CPF. The zero value is invalid; construct via NewTaxID.
type TaxID string

// NewTaxID strips formatting and validates the CPF check digits.
func NewTaxID(raw string) (TaxID, error) {
	var digits []rune
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}

	if len(digits) != 11 {
		return "", employeeerrors.ErrInvalidTaxID
	}

	// Sequences like 111.111.111-11 pass the check-digit math but are not
	// valid CPFs.
	allSame := true
	for _, r := range digits[1:] {
		if r != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return "", employeeerrors.ErrInvalidTaxID
	}

	if cpfCheckDigit(digits[:9], 10) != int(digits[9]-'0') {
		return "", employeeerrors.ErrInvalidTaxID
	}
	if cpfCheckDigit(digits[:10], 11) != int(digits[10]-'0') {
		return "", employeeerrors.ErrInvalidTaxID
	}

	return TaxID(string(digits)), nil
}

func cpfCheckDigit(digits []rune, weight int) int {
	sum := 0
	for _, r := range digits {
		sum += int(r-'0') * weight
		weight--
	}

	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func (t TaxID) String() string { return string(t) }

// Email is a validated address. Construct via NewEmail.
type Email string

func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", employeeerrors.ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", employeeerrors.ErrInvalidEmail
	}

	return Email(strings.ToLower(raw)), nil
}

func (e Email) String() string { return string(e) }
