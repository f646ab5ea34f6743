package service

import (
	"testing"

	"github.com/lshigami/Socrates/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		name        string
		correctText string
		answer      string
		expected    bool
	}{
		{name: "parenthesised label exact", correctText: "(B) CPU", answer: "CPU", expected: true},
		{name: "parenthesised label lower case", correctText: "(B) Keyboard", answer: "keyboard", expected: true},
		{name: "parenthesised label upper case", correctText: "(C) Main Memory", answer: "MAIN MEMORY", expected: true},
		{name: "half parenthesis label", correctText: "B) CPU", answer: "it is the cpu", expected: true},
		{name: "option letter alone", correctText: "(B) CPU", answer: "B", expected: true},
		{name: "option letter lower case", correctText: "B) CPU", answer: "b", expected: true},
		{name: "cpu special case ignores label wording", correctText: "(D) Central processing unit (CPU)", answer: "cpu", expected: true},
		{name: "cpu special case upper", correctText: "D) the cpu chip", answer: "CPU", expected: true},
		{name: "wrong answer", correctText: "(B) CPU", answer: "mouse", expected: false},
		// any answer containing the option letter counts, even "keyboard" for option B
		{name: "letter fallback is a plain substring", correctText: "(B) CPU", answer: "keyboard", expected: true},
		{name: "wrong option letter", correctText: "(B) CPU", answer: "A", expected: false},
		{name: "empty answer", correctText: "(B) CPU", answer: "", expected: false},
		{name: "unformatted text matches label", correctText: "Router", answer: "a router", expected: true},
		{name: "decimal label is not an option marker", correctText: "3.5 GHz", answer: "5 GHz", expected: false},
		{name: "decimal label exact", correctText: "3.5 GHz", answer: "3.5 ghz", expected: true},
		{name: "abbreviation label is not an option marker", correctText: "U.S. Navy", answer: "the S. Navy", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GradeAnswer(tt.answer, tt.correctText))
		})
	}
}

func TestGradingKeywords(t *testing.T) {
	tests := []struct {
		name        string
		correctText string
		expected    []string
	}{
		// the fallback keyword is the option letter, not the opening parenthesis
		{name: "parenthesised option", correctText: "(B) CPU", expected: []string{"cpu", "b", "cpu"}},
		{name: "half parenthesis option", correctText: "A) Keyboard", expected: []string{"keyboard", "a"}},
		{name: "decimal is not an option", correctText: "3.5 GHz", expected: []string{"3.5 ghz", "3"}},
		{name: "abbreviation is not an option", correctText: "U.S. Navy", expected: []string{"u.s. navy", "u"}},
		{name: "label keeps inner parenthesis text", correctText: "B) Main memory (RAM)", expected: []string{"main memory (ram", "b"}},
		// without an option marker the first character is the fallback, which is very permissive
		{name: "no option marker", correctText: "Router", expected: []string{"router", "r"}},
		{name: "empty", correctText: "", expected: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GradingKeywords(tt.correctText))
		})
	}
}

func TestGradeChoices(t *testing.T) {
	choices := []model.Choice{
		{ChoiceText: "(A) Keyboard"},
		{ChoiceText: "(B) CPU", IsCorrect: true},
	}

	ok, text := GradeChoices("cpu", choices)
	assert.True(t, ok)
	assert.Equal(t, "(B) CPU", text)

	ok, text = GradeChoices("cpu", []model.Choice{{ChoiceText: "(A) Keyboard"}})
	assert.False(t, ok)
	assert.Equal(t, NoCorrectAnswerText, text)

	ok, text = GradeChoices("anything", nil)
	assert.False(t, ok)
	assert.Equal(t, NoCorrectAnswerText, text)
}
