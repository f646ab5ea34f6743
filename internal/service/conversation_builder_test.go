package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lshigami/Socrates/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cpuChoices = []model.Choice{
	{ChoiceText: "(A) Keyboard"},
	{ChoiceText: "(B) CPU", IsCorrect: true},
}

func historyOf(n int) []model.Interaction {
	out := make([]model.Interaction, n)
	for i := range out {
		out[i] = model.Interaction{
			UserAnswer: fmt.Sprintf("answer %d", i),
			AIResponse: fmt.Sprintf("reply %d", i),
		}
	}
	return out
}

func TestBuildConversation_MessageShape(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("history_%d", n), func(t *testing.T) {
			conv := BuildConversation(ConversationInput{
				QuestionText:  "which part processes information?",
				CorrectAnswer: "(B) CPU",
				UserAnswer:    "latest",
				Choices:       cpuChoices,
				History:       historyOf(n),
			})

			require.Len(t, conv.Messages, 2*n+1)
			for i, m := range conv.Messages {
				want := RoleLearner
				if i%2 == 1 {
					want = RoleTutor
				}
				assert.Equal(t, want, m.Role, "message %d", i)
			}
			last := conv.Messages[len(conv.Messages)-1]
			assert.Equal(t, RoleLearner, last.Role)
			assert.Equal(t, "My latest answer: latest", last.Text)
		})
	}
}

func TestBuildConversation_ReplaysHistoryInOrder(t *testing.T) {
	conv := BuildConversation(ConversationInput{UserAnswer: "now", History: historyOf(2)})

	assert.Equal(t, []Message{
		{Role: RoleLearner, Text: "My previous answer: answer 0"},
		{Role: RoleTutor, Text: "reply 0"},
		{Role: RoleLearner, Text: "My previous answer: answer 1"},
		{Role: RoleTutor, Text: "reply 1"},
		{Role: RoleLearner, Text: "My latest answer: now"},
	}, conv.Messages)
}

func TestBuildConversation_StripsBackslashesFromTutorTurns(t *testing.T) {
	conv := BuildConversation(ConversationInput{
		UserAnswer: "x",
		History: []model.Interaction{
			{UserAnswer: `a\b`, AIResponse: `Think about \"memory\"\n again`},
		},
	})

	require.Len(t, conv.Messages, 3)
	assert.Equal(t, `Think about "memory"n again`, conv.Messages[1].Text)
	// learner text is replayed verbatim
	assert.Equal(t, `My previous answer: a\b`, conv.Messages[0].Text)
}

func TestBuildConversation_PhaseSelection(t *testing.T) {
	initial := BuildConversation(ConversationInput{UserAnswer: "B", IsCorrect: true, Choices: cpuChoices})
	assert.Equal(t, PhaseInitial, initial.Phase)
	assert.Contains(t, initial.SystemInstruction, "This is the learner's first answer")
	assert.Contains(t, initial.SystemInstruction, "judged correct")
	assert.NotContains(t, initial.SystemInstruction, "deepening phase")

	deepening := BuildConversation(ConversationInput{UserAnswer: "because", History: historyOf(1)})
	assert.Equal(t, PhaseDeepening, deepening.Phase)
	assert.Contains(t, deepening.SystemInstruction, "deepening phase")
	assert.Contains(t, deepening.SystemInstruction, "Do not ask again which choice they selected")
	assert.Contains(t, deepening.SystemInstruction, `("because")`)
}

func TestBuildSystemInstruction_EmbedsQuestionContext(t *testing.T) {
	instr := BuildSystemInstruction(PhaseInitial, "which part processes information?", "(B) CPU", cpuChoices, "A", false)

	assert.Contains(t, instr, "which part processes information?")
	assert.Contains(t, instr, "[Correct answer]\n(B) CPU")
	assert.Contains(t, instr, "- (A) Keyboard\n- (B) CPU\n")
	assert.Contains(t, instr, "Do not mix this up with any earlier question")
	assert.Contains(t, instr, "Never state the correct answer outright")
	assert.Contains(t, instr, FinalMarker)
	assert.Contains(t, instr, "judged incorrect")
}

func TestBuildSystemInstruction_WithoutChoices(t *testing.T) {
	instr := BuildSystemInstruction(PhaseDeepening, "q", NoCorrectAnswerText, nil, "x", false)
	assert.Contains(t, instr, "[Choices]\n(not provided)")
	assert.Contains(t, instr, NoCorrectAnswerText)
}

func TestBuildSystemInstruction_IsDeterministic(t *testing.T) {
	a := BuildSystemInstruction(PhaseDeepening, "q", "(B) CPU", cpuChoices, "x", true)
	b := BuildSystemInstruction(PhaseDeepening, "q", "(B) CPU", cpuChoices, "x", true)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, `You are "AI Socrates"`))
}
