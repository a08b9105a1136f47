package api

import (
	"net/http"
	"time"

	"answerhub/internal/model"
	"answerhub/internal/usecase"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

type taskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), s.db, usecase.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.GetAll(c.Request.Context(), s.db)
	if err != nil {
		s.abortError(c, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := s.tasks.GetByID(c.Request.Context(), s.db, id)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.UpdateByID(c.Request.Context(), s.db, id, usecase.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.tasks.DeleteByID(c.Request.Context(), s.db, id); err != nil {
		s.abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetTransitions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transitions, err := s.tasks.GetTransitions(c.Request.Context(), s.db, id)
	if err != nil {
		s.abortError(c, err)
		return
	}

	resp := make([]string, 0, len(transitions))
	for _, t := range transitions {
		resp = append(resp, string(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUpdateTaskStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status := model.TaskStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task, err := s.tasks.UpdateStatus(c.Request.Context(), s.db, id, status)
	if err != nil {
		s.abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}
