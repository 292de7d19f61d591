package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPhones caps how many numbers one page contributes.
const maxPhones = 3

// phoneRegex matches common phone number shapes, with or without a
// country code and with mixed separators.
var phoneRegex = regexp.MustCompile(`[+]?[(]?[0-9]{1,3}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,4}[-\s.]?[0-9]{1,9}`)

// minPhoneDigits filters out prices, dates, and other short digit runs
// the permissive regex also matches.
const minPhoneDigits = 10

// extractPhones returns up to maxPhones unique phone numbers found in
// the raw markup, in first-seen order.
func extractPhones(rawHTML string) []string {
	matches := phoneRegex.FindAllString(rawHTML, -1)

	seen := make(map[string]bool)
	var phones []string
	for _, match := range matches {
		phone := strings.TrimSpace(match)
		if digitCount(phone) < minPhoneDigits || seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
		if len(phones) == maxPhones {
			break
		}
	}
	return phones
}

func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
