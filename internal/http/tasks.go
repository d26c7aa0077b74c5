package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medetbek/taskplanner/internal/domain"
	"github.com/medetbek/taskplanner/internal/queue"
	"github.com/medetbek/taskplanner/internal/repo"
)

// ListTasks godoc
// @Summary List the acting user's tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} domain.Task
// @Failure 401 {object} map[string]string
// @Router /api/tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.ListTasks(c.Request.Context(), actingUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param payload body createTaskReq true "task"
// @Success 200 {object} domain.Task
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/tasks [post]
func (h *Handler) CreateTask(c *gin.Context) {
	var in createTaskReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	t := &domain.Task{
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		OwnerID:     actingUser(c),
	}
	if err := h.Tasks.CreateTask(c.Request.Context(), t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	go h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyTaskCreated,
		queue.TaskCreated{TaskID: t.ID, OwnerID: t.OwnerID, DueDate: t.DueDate}, requestID(c))

	c.JSON(http.StatusOK, t)
}

type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

// UpdateTask godoc
// @Summary Update a task's title, description or due date
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "task id"
// @Param payload body updateTaskReq true "fields to change"
// @Success 200 {object} domain.Task
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/{id} [put]
func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// malformed ids read the same as missing ones
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	var in updateTaskReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	t, err := h.Tasks.UpdateTask(c.Request.Context(), actingUser(c), id, domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	})
	if errors.Is(err, repo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTask godoc
// @Summary Delete a task (idempotent)
// @Tags tasks
// @Param id path string true "task id"
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/tasks/{id} [delete]
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// delete is a no-op for anything that doesn't resolve to an owned task
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.Tasks.DeleteTask(c.Request.Context(), actingUser(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
