package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"MimiPlatform/internal/middleware"
	"MimiPlatform/internal/models"
	"MimiPlatform/internal/services"
)

type CreateJobRequest struct {
	Service      uint      `json:"service" validate:"required"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

type UpdateJobRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateMilestoneRequest struct {
	Title     *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Amount    *decimal.Decimal `json:"amount"`
	Completed *bool            `json:"completed"`
}

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.Jobs.ListJobs(middleware.Principal(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(jobs)
}

// CreateJob books a service; the job starts with its default milestones.
func (h *Handler) CreateJob(c *fiber.Ctx) error {
	var req CreateJobRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	job, err := h.Jobs.CreateJob(middleware.Principal(c), req.Service, req.ScheduledFor)
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("job created", "job_id", job.ID, "customer_id", job.CustomerID, "provider_id", job.ProviderID)
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	job, err := h.Jobs.GetJob(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(job)
}

func (h *Handler) UpdateJob(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req UpdateJobRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	job, err := h.Jobs.UpdateJobStatus(middleware.Principal(c), id, models.JobStatus(req.Status))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(job)
}

func (h *Handler) JobHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	logs, err := h.Jobs.StatusHistory(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(logs)
}

func (h *Handler) UpdateMilestone(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	var req UpdateMilestoneRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	milestone, err := h.Jobs.UpdateMilestone(middleware.Principal(c), id, services.MilestoneUpdate{
		Title:     req.Title,
		Amount:    req.Amount,
		Completed: req.Completed,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(milestone)
}

func (h *Handler) CompleteMilestone(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	milestone, err := h.Jobs.CompleteMilestone(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(milestone)
}

// FundMilestone debits the customer's wallet into escrow.
func (h *Handler) FundMilestone(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	escrow, err := h.Escrow.FundMilestone(middleware.Principal(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.Info("milestone funded", "milestone_id", id, "escrow_id", escrow.ID, "amount", escrow.Amount.StringFixed(2))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Milestone funded successfully",
		"escrow":  escrow,
	})
}
