package http

import (
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/internal/service"
	"github.com/rs/zerolog"
	"net/http"
)

// Caller-facing messages. Details of internal failures stay in the server log.
const (
	msgUnauthenticated = "User must be authenticated"

	msgBatchInternal = "Error sending batch emails"
	msgEmailInternal = "Error sending email"
	msgJobInternal   = "Error scheduling batch emails"
)

type Handlers struct {
	batch  *service.BatchService
	email  *service.EmailService
	jobs   *service.JobService
	logger zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(batch *service.BatchService, email *service.EmailService, jobs *service.JobService, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		batch:  batch,
		email:  email,
		jobs:   jobs,
		logger: logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the mail API.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")
	{
		api.POST("/sendBatchEmails", h.SendBatchEmails)
		api.POST("/sendEmail", h.SendEmail)
		api.POST("/batches", h.CreateBatch)
		api.GET("/batches/:id", h.GetBatch)
	}
}

// SendBatchEmails delivers the message to every user and answers with the counts.
func (h *Handlers) SendBatchEmails(c *gin.Context) {
	caller := CallerFrom(c)

	var req SendBatchEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, caller, err, msgBatchInternal)
		return
	}

	result, err := h.batch.Dispatch(c.Request.Context(), model.BatchRequest{Message: req.Data.Message}, caller)
	if err != nil {
		if result != nil {
			h.logger.Error().
				Err(err).
				Int("sent", result.SuccessCount).
				Int("failed", result.FailureCount).
				Int("total", result.TotalRecipients).
				Msg("batch send did not complete")
		}
		h.writeError(c, err, msgBatchInternal)
		return
	}

	c.JSON(http.StatusOK, ResultResponse{Result: DispatchResultResponse{
		SuccessCount:    result.SuccessCount,
		FailureCount:    result.FailureCount,
		TotalRecipients: result.TotalRecipients,
	}})
}

// SendEmail delivers the message to a single address.
func (h *Handlers) SendEmail(c *gin.Context) {
	caller := CallerFrom(c)

	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, caller, err, msgEmailInternal)
		return
	}

	err := h.email.Send(c.Request.Context(), model.EmailRequest{
		ToEmail: req.Data.ToEmail,
		ToName:  req.Data.ToName,
		Message: req.Data.Message,
	}, caller)
	if err != nil {
		h.writeError(c, err, msgEmailInternal)
		return
	}

	c.JSON(http.StatusOK, ResultResponse{Result: SendEmailResponse{Success: true}})
}

// CreateBatch queues a batch for the worker.
func (h *Handlers) CreateBatch(c *gin.Context) {
	caller := CallerFrom(c)

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, caller, err, msgJobInternal)
		return
	}

	job, err := h.jobs.Enqueue(c.Request.Context(), model.BatchRequest{Message: req.Message}, caller)
	if err != nil {
		h.writeError(c, err, msgJobInternal)
		return
	}

	c.JSON(http.StatusAccepted, toBatchJobResponse(job))
}

// GetBatch reports the progress of a queued batch.
func (h *Handlers) GetBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeError(c, fmt.Errorf("%w: invalid batch ID format", model.ErrInvalidArgument), "")
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id, CallerFrom(c))
	if err != nil {
		h.writeError(c, err, "failed to retrieve batch")
		return
	}

	c.JSON(http.StatusOK, toBatchJobResponse(job))
}

// bindError answers a malformed body. Anonymous callers get unauthenticated first;
// everyone else gets the route's internal error, never the decoder's text.
func (h *Handlers) bindError(c *gin.Context, caller model.Caller, err error, internalMsg string) {
	if !caller.IsAuthenticated() {
		h.writeError(c, model.ErrUnauthenticated, "")
		return
	}
	h.writeError(c, fmt.Errorf("%w: decode request: %w", model.ErrInternal, err), internalMsg)
}

// writeError maps domain errors onto callable error kinds.
func (h *Handlers) writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: CallableError{Status: "unauthenticated", Message: msgUnauthenticated}})
	case errors.Is(err, model.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: CallableError{Status: "invalid-argument", Message: err.Error()}})
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: CallableError{Status: "not-found", Message: err.Error()}})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg(internalMsg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: CallableError{Status: "internal", Message: internalMsg}})
	}
}

// toBatchJobResponse is a helper function to map the domain model to the DTO.
func toBatchJobResponse(j *model.BatchJob) BatchJobResponse {
	return BatchJobResponse{
		ID:              j.ID,
		Status:          string(j.Status),
		TotalRecipients: j.Result.TotalRecipients,
		SuccessCount:    j.Result.SuccessCount,
		FailureCount:    j.Result.FailureCount,
		Failures:        j.Failures,
		Error:           j.Error,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}
