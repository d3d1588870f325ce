// Package digits keeps phone numbers and birth dates in their canonical
// digit-only form and renders them for display.
package digits

import (
	"strings"
	"unicode"
)

// Only drops everything except ASCII digits.
func Only(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// FormatPhone форматирует телефон по бразильским шаблонам; неизвестная длина возвращается как есть.
func FormatPhone(phone string) string {
	n := Only(phone)

	switch len(n) {
	case 11:
		return "(" + n[0:2] + ") " + n[2:3] + " " + n[3:7] + "-" + n[7:]
	case 10:
		return "(" + n[0:2] + ") " + n[2:6] + "-" + n[6:]
	case 9:
		return n[0:1] + " " + n[1:5] + "-" + n[5:]
	case 8:
		return n[0:4] + "-" + n[4:]
	default:
		return phone
	}
}

// FormatBirthDate renders DDMMAAAA as DD/MM/AAAA. Partial dates keep the same slots.
func FormatBirthDate(date string) string {
	n := Only(date)

	switch len(n) {
	case 8, 6:
		return n[0:2] + "/" + n[2:4] + "/" + n[4:]
	case 4:
		return n[0:2] + "/" + n[2:4]
	default:
		return date
	}
}
