package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Describe renders an action type for display, e.g. SCORE_HAND -> "Score Hand".
func (a ActionType) Describe() string {
	return Humanize(string(a))
}

// Humanize turns an upper snake case identifier into title-cased words.
func Humanize(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}
