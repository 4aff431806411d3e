package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildPrompt returns the generation prompt: the configured prompt when set,
// otherwise a templated default referencing the product title.
func BuildPrompt(configured, title string) string {
	if p := strings.TrimSpace(configured); p != "" {
		return p
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "AI Generated Product"
	}
	title = cases.Title(language.Und, cases.NoLower).String(title)
	return fmt.Sprintf(
		"A clean, high-contrast t-shirt graphic illustration for: %s. Vector style, centered composition, no background, transparent background.",
		title,
	)
}
