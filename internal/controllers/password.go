package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adamanr/staff_portal/internal/entity"
)

// FallbackSymbol ends the password of roles outside Admin, Suport and Tehnic.
const FallbackSymbol = "*"

// GeneratePassword derives the initial password of an employee. The result is
// predictable from public attributes: it is a default meant to be handed out,
// not a secret.
func GeneratePassword(firstName, lastName, employmentDate string, role entity.Role) (string, error) {
	date, err := ParseEmploymentDate(employmentDate)
	if err != nil {
		return "", err
	}

	return buildPassword(firstName, lastName, date, role), nil
}

// ParseEmploymentDate reads a YYYY-MM-DD date.
func ParseEmploymentDate(raw string) (time.Time, error) {
	date, err := time.Parse(entity.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return date, nil
}

func buildPassword(firstName, lastName string, date time.Time, role entity.Role) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(firstRunes(firstName, 2)))
	sb.WriteString(strconv.Itoa(date.Day()))
	sb.WriteString(strconv.Itoa(int(date.Month())))
	sb.WriteString(strings.ToUpper(firstRunes(lastName, 2)))
	sb.WriteString(RoleSymbol(role))

	return sb.String()
}

func RoleSymbol(role entity.Role) string {
	switch role {
	case entity.RoleAdmin:
		return "!"
	case entity.RoleSuport:
		return "#"
	case entity.RoleTehnic:
		return "@"
	default:
		return FallbackSymbol
	}
}

func firstRunes(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
