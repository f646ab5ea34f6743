package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lshigami/Socrates/internal/model"
)

// NoCorrectAnswerText stands in for the correct answer when no choice is flagged correct.
const NoCorrectAnswerText = "(no correct answer available)"

// optionMarker matches labels such as "(B) CPU" or "B) CPU". Only ")" closes a marker, so
// "3.5 GHz" and "U.S. Navy" stay whole labels.
var optionMarker = regexp.MustCompile(`^\(?\s*([A-Za-z0-9])\s*\)\s*(.+)$`)

// CorrectChoiceText returns the text of the first choice flagged correct.
func CorrectChoiceText(choices []model.Choice) (string, bool) {
	for _, c := range choices {
		if c.IsCorrect {
			return c.ChoiceText, true
		}
	}
	return NoCorrectAnswerText, false
}

// GradingKeywords lists the lower-cased substrings that make an answer count as correct.
func GradingKeywords(correctText string) []string {
	trimmed := strings.TrimSpace(correctText)

	var label, letter string
	if m := optionMarker.FindStringSubmatch(trimmed); m != nil {
		letter = strings.ToLower(m[1])
		label = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(m[2], ")", "")))
	} else {
		label = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(trimmed, ")", "")))
		if r, size := utf8.DecodeRuneInString(correctText); size > 0 {
			letter = strings.ToLower(strings.TrimSpace(string(r)))
		}
	}

	keywords := []string{label, letter}
	if strings.Contains(strings.ToLower(correctText), "cpu") {
		keywords = append(keywords, "cpu")
	}
	return keywords
}

// GradeAnswer reports whether the raw answer contains any grading keyword of correctText.
// The match is a case-insensitive substring test.
func GradeAnswer(userAnswer, correctText string) bool {
	lower := strings.ToLower(userAnswer)
	for _, kw := range GradingKeywords(correctText) {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// GradeChoices grades against the question's choices and returns the verdict together with
// the correct-answer text that is fed to the tutor prompt.
func GradeChoices(userAnswer string, choices []model.Choice) (bool, string) {
	correctText, ok := CorrectChoiceText(choices)
	if !ok {
		return false, correctText
	}
	return GradeAnswer(userAnswer, correctText), correctText
}
