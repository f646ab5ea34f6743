package service

import (
	"fmt"
	"strings"

	"github.com/lshigami/Socrates/internal/model"
)

type Role string

const (
	RoleLearner Role = "learner"
	RoleTutor   Role = "tutor"
)

type Message struct {
	Role Role
	Text string
}

type Phase int

const (
	PhaseInitial Phase = iota
	PhaseDeepening
)

func (p Phase) String() string {
	if p == PhaseInitial {
		return "initial"
	}
	return "deepening"
}

// Conversation is everything the generator needs for one tutor turn.
type Conversation struct {
	Phase             Phase
	SystemInstruction string
	Messages          []Message
}

// ConversationInput carries the question context and the transcript to replay.
type ConversationInput struct {
	QuestionText  string
	CorrectAnswer string
	IsCorrect     bool
	UserAnswer    string
	Choices       []model.Choice
	History       []model.Interaction // ascending by created_at
}

// PhaseFor returns PhaseInitial for an empty transcript.
func PhaseFor(historyLen int) Phase {
	if historyLen == 0 {
		return PhaseInitial
	}
	return PhaseDeepening
}

// stripBackslashes removes every backslash; stored replies occasionally carry escape artifacts
// that the generation API rejects.
func stripBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}

// BuildConversation replays the history as alternating learner/tutor messages and appends the
// latest answer. The result always has 2*len(History)+1 messages and ends on a learner turn.
func BuildConversation(in ConversationInput) Conversation {
	messages := make([]Message, 0, 2*len(in.History)+1)
	for _, it := range in.History {
		messages = append(messages,
			Message{Role: RoleLearner, Text: learnerPreviousPrefix + it.UserAnswer},
			Message{Role: RoleTutor, Text: stripBackslashes(it.AIResponse)},
		)
	}
	messages = append(messages, Message{Role: RoleLearner, Text: learnerLatestPrefix + in.UserAnswer})

	phase := PhaseFor(len(in.History))
	return Conversation{
		Phase:             phase,
		SystemInstruction: BuildSystemInstruction(phase, in.QuestionText, in.CorrectAnswer, in.Choices, in.UserAnswer, in.IsCorrect),
		Messages:          messages,
	}
}

func formatChoices(choices []model.Choice) string {
	if len(choices) == 0 {
		return "(not provided)\n"
	}
	var b strings.Builder
	for _, c := range choices {
		b.WriteString("- ")
		b.WriteString(c.ChoiceText)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildSystemInstruction is pure: the same inputs always give the same instruction.
func BuildSystemInstruction(phase Phase, questionText, correctAnswer string, choices []model.Choice, userAnswer string, isCorrect bool) string {
	persona := fmt.Sprintf(tutorPersonaTemplate, questionText, formatChoices(choices), correctAnswer, userAnswer, FinalMarker)

	var task string
	switch phase {
	case PhaseInitial:
		verdict := "incorrect"
		if isCorrect {
			verdict = "correct"
		}
		task = fmt.Sprintf(initialTaskTemplate, verdict)
	default:
		task = fmt.Sprintf(deepeningTaskTemplate, userAnswer, FinalMarker)
	}

	return persona + "\n\n" + task
}
