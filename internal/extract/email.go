package extract

import (
	"regexp"
	"strings"
)

// maxEmails caps how many addresses one page contributes.
const maxEmails = 5

// emailRegex is a permissive email matcher.
//
// Design decision: We use a permissive regex rather than strict RFC 5322
// because:
//  1. Real pages embed addresses in markup, scripts, and mailto links
//  2. False positives are acceptable for research data
//  3. Strict parsing would miss many real-world cases
var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// excludedEmailDomains are placeholder domains that never belong to a
// real contact.
var excludedEmailDomains = []string{
	"example.com",
	"domain.com",
	"email.com",
	"test.com",
}

// extractEmails returns up to maxEmails unique addresses found in the
// raw markup, in first-seen order.
func extractEmails(rawHTML string) []string {
	matches := emailRegex.FindAllString(rawHTML, -1)

	seen := make(map[string]bool)
	var emails []string
	for _, email := range matches {
		lower := strings.ToLower(email)
		if seen[lower] || isExcludedEmail(lower) {
			continue
		}
		seen[lower] = true
		emails = append(emails, email)
		if len(emails) == maxEmails {
			break
		}
	}
	return emails
}

func isExcludedEmail(lower string) bool {
	for _, domain := range excludedEmailDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}
