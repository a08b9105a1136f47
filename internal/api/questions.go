package api

import (
	"net/http"
	"time"

	"answerhub/internal/model"

	"github.com/gin-gonic/gin"
)

type createQuestionRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

type createAnswerRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required,min=1,max=2000"`
}

type questionResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type questionWithAnswersResponse struct {
	questionResponse
	Answers []answerResponse `json:"answers"`
}

type answerResponse struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	UserID     uint      `json:"user_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func toQuestionResponse(q *model.Question) questionResponse {
	return questionResponse{
		ID:        q.ID,
		Text:      q.Text,
		CreatedAt: q.CreatedAt,
	}
}

func toAnswerResponse(a *model.Answer) answerResponse {
	return answerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
		Text:       a.Text,
		CreatedAt:  a.CreatedAt,
	}
}

func (s *Server) handleListQuestions(c *gin.Context) {
	questions, err := s.questions.GetAll(c.Request.Context(), s.db)
	if err != nil {
		s.abortError(c, err)
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := s.questions.Create(c.Request.Context(), s.db, req.Text)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuestionResponse(question))
}

func (s *Server) handleGetQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := s.questions.GetWithAnswers(c.Request.Context(), s.db, id)
	if err != nil {
		s.abortError(c, err)
		return
	}

	resp := questionWithAnswersResponse{
		questionResponse: toQuestionResponse(question),
		Answers:          make([]answerResponse, 0, len(question.Answers)),
	}
	for i := range question.Answers {
		resp.Answers = append(resp.Answers, toAnswerResponse(&question.Answers[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.questions.DeleteByID(c.Request.Context(), s.db, id); err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "question and answers deleted successfully"})
}

func (s *Server) handleCreateAnswer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.answers.Create(c.Request.Context(), s.db, id, req.UserID, req.Text)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAnswerResponse(answer))
}

func (s *Server) handleGetAnswer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	answer, err := s.answers.GetByID(c.Request.Context(), s.db, id)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAnswerResponse(answer))
}

func (s *Server) handleDeleteAnswer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.answers.DeleteByID(c.Request.Context(), s.db, id); err != nil {
		s.abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
