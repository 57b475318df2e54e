package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/internal/service"
	"github.com/stemsplitter/tracker/internal/tracker"
	"github.com/stemsplitter/tracker/internal/view"
	"github.com/stemsplitter/tracker/pkg/response"
)

type JobsHandler struct {
	session   *service.Session
	validator *validator.Validate
}

func NewJobsHandler(session *service.Session, v *validator.Validate) *JobsHandler {
	return &JobsHandler{
		session:   session,
		validator: v,
	}
}

// JobsResponse is the body of GET /api/jobs
type JobsResponse struct {
	Jobs   []view.Card   `json:"jobs"`
	Counts view.Counts   `json:"counts"`
	Active []string      `json:"active"`
	Poll   tracker.Stats `json:"poll"`
}

// Process handles POST /api/process
func (h *JobsHandler) Process(c *fiber.Ctx) error {
	var req model.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	sub, err := h.session.Submissions.SubmitSingle(c.Context(), req.URL, req.Model)
	if err != nil {
		return writeError(c, err)
	}

	return response.Accepted(c, model.SubmitResponse{
		Success:    true,
		JobIDs:     sub.JobIDs,
		ClearInput: sub.ClearInput,
	})
}

// Batch handles POST /api/batch
func (h *JobsHandler) Batch(c *fiber.Ctx) error {
	var req model.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	sub, err := h.session.Submissions.SubmitBatch(c.Context(), req.URLs, req.Model)
	if err != nil {
		return writeError(c, err)
	}

	return response.Accepted(c, model.SubmitResponse{
		Success:    true,
		JobIDs:     sub.JobIDs,
		Rejected:   len(sub.Rejected),
		ClearInput: sub.ClearInput,
	})
}

// List handles GET /api/jobs
func (h *JobsHandler) List(c *fiber.Ctx) error {
	return response.OK(c, JobsResponse{
		Jobs:   h.session.Jobs.Cards(),
		Counts: h.session.Jobs.Counts(),
		Active: h.session.Scheduler.Active(),
		Poll:   h.session.Scheduler.Stats(),
	})
}

// Get handles GET /api/jobs/:jobId
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	card, ok := h.session.Jobs.Card(jobID)
	if !ok {
		return response.NotFound(c, "Job not found")
	}

	return response.OK(c, card)
}

// Models handles GET /api/models
func (h *JobsHandler) Models(c *fiber.Ctx) error {
	return response.OK(c, h.session.Submissions.Models(c.Context()))
}
