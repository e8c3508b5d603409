package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"taskapi/internal/adapter/http/helper"
	"taskapi/internal/adapter/http/validation"
	"taskapi/internal/core/domain"
	"taskapi/internal/core/model/request"
	"taskapi/internal/core/model/response"
	"taskapi/internal/core/port"
)

type TaskHandler struct {
	svc     port.TaskService
	rules   *validation.Rules
	profile domain.Profile
	logger  *otelzap.Logger
}

func NewTaskHandler(svc port.TaskService, profile domain.Profile, logger *otelzap.Logger) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		rules:   validation.NewRules(profile),
		profile: profile,
		logger:  logger,
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req request.TaskCreateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendMalformedRequestError(c)
		return
	}

	task, err := h.rules.ValidateCreate(req)

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	created, err := h.svc.Create(ctx, task)

	if err != nil {
		h.logError(c, "Failed to create task", err)
		helper.SendInternalError(c)

		return
	}

	c.JSON(http.StatusCreated, response.NewTaskResponse(created, h.profile))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.rules.ValidateListQuery(
		c.Query("skip"),
		c.Query("limit"),
		c.Query("completed"),
		c.Query("status"),
	)

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	tasks, err := h.svc.List(ctx, filter)

	if err != nil {
		h.logError(c, "Failed to list tasks", err)
		helper.SendInternalError(c)

		return
	}

	c.JSON(http.StatusOK, response.NewTaskListResponse(tasks, h.profile))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ctx := c.Request.Context()

	ref, ok := h.parseRef(c)

	if !ok {
		return
	}

	task, err := h.svc.Get(ctx, ref)

	if err != nil {
		h.sendLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(task, h.profile))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	ref, ok := h.parseRef(c)

	if !ok {
		return
	}

	var req request.TaskUpdateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendMalformedRequestError(c)
		return
	}

	patch, err := h.rules.ValidatePatch(req)

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	updated, err := h.svc.Update(ctx, ref, patch)

	if err != nil {
		h.sendLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(updated, h.profile))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	ref, ok := h.parseRef(c)

	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, ref); err != nil {
		h.sendLookupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) parseRef(c *gin.Context) (domain.TaskRef, bool) {
	ref, err := h.profile.ParseRef(c.Param("id"))

	if err != nil {
		helper.SendValidationError(c, domain.ValidationErrors{
			{Field: "id", Message: "is not a valid task identifier"},
		})

		return domain.TaskRef{}, false
	}

	return ref, true
}

func (h *TaskHandler) sendLookupError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrTaskNotFound) {
		helper.SendNotFoundError(c)
		return
	}

	h.logError(c, "Task operation failed", err)
	helper.SendInternalError(c)
}

func (h *TaskHandler) logError(c *gin.Context, msg string, err error) {
	if h.logger == nil {
		return
	}

	h.logger.Ctx(c.Request.Context()).Error(msg,
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
}
