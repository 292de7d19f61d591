package extract

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageName resolves a BCP 47 tag from the html lang attribute into
// an English display name, such as "ja" into "Japanese". Tags that do
// not parse are returned as declared so the raw value stays visible in
// research output.
func languageName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	name := display.English.Languages().Name(parsed)
	if name == "" {
		return tag
	}
	return name
}
