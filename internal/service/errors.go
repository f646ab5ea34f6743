package service

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrAnswerRequired   = errors.New("answer_text is required")
	ErrTurnInProgress   = errors.New("another turn is in progress for this question")
)
