package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Socrates/internal/dto"
	"github.com/lshigami/Socrates/internal/service"
	"github.com/rs/zerolog/log"
)

// UserIDHeader carries the caller's identity when it is not given as user_id.
const UserIDHeader = "X-User-ID"

type Controller struct {
	questionSvc service.QuestionService
	tutorSvc    service.TutorService
}

func NewController(qSvc service.QuestionService, tSvc service.TutorService) *Controller {
	return &Controller{
		questionSvc: qSvc,
		tutorSvc:    tSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		topics := apiV1.Group("/topics")
		topics.GET("", ctrl.ListTopicsHandler)
		topics.GET("/:topic_id/next-question", ctrl.NextQuestionHandler)

		questions := apiV1.Group("/questions")
		questions.GET("/:question_id", ctrl.StartQuestionHandler)
		questions.GET("/:question_id/history", ctrl.GetHistoryHandler)
		questions.DELETE("/:question_id/history", ctrl.ResetHistoryHandler)
		questions.POST("/:question_id/answer", ctrl.CheckAnswerHandler)
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + strings.ReplaceAll(param, "_", " ") + " format"})
		return 0, false
	}
	return uint(id), true
}

// parseUserID reads the optional caller identity from the user_id query param or X-User-ID.
// A nil result addresses the anonymous scope.
func parseUserID(c *gin.Context) (*uint, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		raw = c.GetHeader(UserIDHeader)
	}
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return nil, false
	}
	uID := uint(val)
	return &uID, true
}

func parseOptionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + key + " format"})
		return nil, false
	}
	v := uint(val)
	return &v, true
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound), errors.Is(err, service.ErrTopicNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAnswerRequired):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrTurnInProgress):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(msg)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: msg, Details: []string{err.Error()}})
	}
}

// ListTopicsHandler godoc
// @Summary List topics
// @Description Get every topic with the number of questions it holds
// @Tags topics
// @Produce json
// @Success 200 {array} dto.TopicResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /topics [get]
func (ctrl *Controller) ListTopicsHandler(c *gin.Context) {
	topics, err := ctrl.questionSvc.ListTopics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve topics")
		return
	}
	c.JSON(http.StatusOK, topics)
}

// NextQuestionHandler godoc
// @Summary Get the next question of a topic
// @Description Select a question of the topic (the first one after 'after', or a random one) and start a fresh dialogue for it
// @Tags topics
// @Produce json
// @Param topic_id path int true "Topic ID"
// @Param after query int false "Return the first question with a greater ID"
// @Param random query bool false "Pick a random question of the topic"
// @Param user_id query int false "Optional user ID scoping the dialogue"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Topic or question not found"
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress for this question"
// @Router /topics/{topic_id}/next-question [get]
func (ctrl *Controller) NextQuestionHandler(c *gin.Context) {
	topicID, ok := parseID(c, "topic_id")
	if !ok {
		return
	}
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	afterID, ok := parseOptionalUint(c, "after")
	if !ok {
		return
	}
	random, _ := strconv.ParseBool(c.DefaultQuery("random", "false"))

	question, err := ctrl.questionSvc.NextQuestionForTopic(c.Request.Context(), topicID, userID, afterID, random)
	if err != nil {
		respondError(c, err, "Failed to select question")
		return
	}
	c.JSON(http.StatusOK, question)
}

// StartQuestionHandler godoc
// @Summary Start a question
// @Description Load a question with its choices. The caller's previous dialogue for it is deleted (new attempt).
// @Tags questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Param user_id query int false "Optional user ID scoping the dialogue"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress for this question"
// @Router /questions/{question_id} [get]
func (ctrl *Controller) StartQuestionHandler(c *gin.Context) {
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	question, err := ctrl.questionSvc.StartQuestion(c.Request.Context(), questionID, userID)
	if err != nil {
		respondError(c, err, "Failed to start question")
		return
	}
	c.JSON(http.StatusOK, question)
}

// GetHistoryHandler godoc
// @Summary Get the dialogue history
// @Description Get the caller's turns for a question, oldest first
// @Tags questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Param user_id query int false "Optional user ID scoping the dialogue"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{question_id}/history [get]
func (ctrl *Controller) GetHistoryHandler(c *gin.Context) {
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	history, err := ctrl.questionSvc.GetHistory(c.Request.Context(), questionID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve conversation history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// ResetHistoryHandler godoc
// @Summary Reset the dialogue
// @Description Delete the caller's turns for a question so the next answer starts a new dialogue
// @Tags questions
// @Param question_id path int true "Question ID"
// @Param user_id query int false "Optional user ID scoping the dialogue"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress for this question"
// @Router /questions/{question_id}/history [delete]
func (ctrl *Controller) ResetHistoryHandler(c *gin.Context) {
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := ctrl.questionSvc.ResetHistory(c.Request.Context(), questionID, userID); err != nil {
		respondError(c, err, "Failed to reset conversation history")
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckAnswerHandler godoc
// @Summary Answer a question
// @Description Grade the learner's answer and get the tutor's next reply. is_sufficient becomes true once the tutor judges the understanding sufficient.
// @Tags questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param answer body dto.CheckAnswerRequest true "The learner's answer"
// @Param user_id query int false "Optional user ID scoping the dialogue"
// @Success 200 {object} dto.CheckAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request or missing answer_text"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress for this question"
// @Router /questions/{question_id}/answer [post]
func (ctrl *Controller) CheckAnswerHandler(c *gin.Context) {
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	// an empty body is an empty answer; the service reports unknown questions before blank answers
	var req dto.CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("Failed to bind CheckAnswerRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if userID == nil {
		userID = req.UserID
	}

	resp, err := ctrl.tutorSvc.CheckAnswer(c.Request.Context(), questionID, userID, req.AnswerText)
	if err != nil {
		respondError(c, err, "Failed to check answer")
		return
	}
	c.JSON(http.StatusOK, resp)
}
