package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/app/models/dto"
	"github.com/yigit/persondata/internal/app/services"
	"github.com/yigit/persondata/internal/middleware"
	"github.com/yigit/persondata/internal/pkg/apperrors"
	"github.com/yigit/persondata/internal/pkg/logger"
)

// SyncController exposes the sync coordinator and the raw queue inserts
type SyncController struct {
	syncService  *services.SyncService
	queueService *services.QueueService
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService *services.SyncService, queueService *services.QueueService) *SyncController {
	return &SyncController{
		syncService:  syncService,
		queueService: queueService,
	}
}

// SyncPerson queues a login and waits for the loader to produce the person.
// Requested bounds may shorten the configured ones but never extend them.
// POST /api/v1/sync/:login?timeout=10s&poll_interval=1s
func (c *SyncController) SyncPerson(ctx *gin.Context) {
	var query dto.SyncQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid sync parameters").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	timeout, poll, err := query.Durations()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	defaults := c.syncService.Defaults()
	opts := services.SyncOptions{
		Timeout:      min(orDefault(timeout, defaults.Timeout), defaults.Timeout),
		PollInterval: orDefault(poll, defaults.PollInterval),
	}

	login := ctx.Param("login")
	person, err := c.syncService.SyncPerson(ctx.Request.Context(), login, opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Ctx(ctx.Request.Context()).Info().Str("login", login).Msg("Person synced")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(person.Flatten()))
}

// EnqueuePerson inserts a login into the person queue.
// POST /api/v1/queue/persons/:login
func (c *SyncController) EnqueuePerson(ctx *gin.Context) {
	login := ctx.Param("login")
	inserted, err := c.queueService.EnqueuePerson(ctx.Request.Context(), login)
	c.writeQueued(ctx, models.PersonQueue, login, inserted, err)
}

// EnqueueEnrolledStudent inserts a system key into the enrolled student queue.
// POST /api/v1/queue/students/:key
func (c *SyncController) EnqueueEnrolledStudent(ctx *gin.Context) {
	key := ctx.Param("key")
	inserted, err := c.queueService.EnqueueEnrolledStudent(ctx.Request.Context(), key)
	c.writeQueued(ctx, models.EnrolledStudentQueue, key, inserted, err)
}

func (c *SyncController) writeQueued(ctx *gin.Context, queue models.QueueName, key string, inserted bool, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(dto.QueueData{Queue: string(queue), Key: key, Inserted: inserted}))
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
