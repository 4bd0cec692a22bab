package routes

import (
	"github.com/gofiber/fiber/v2"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/handlers"
	"MimiPlatform/internal/middleware"
)

func setupJobRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	jobs := api.Group("/jobs", protected)
	jobs.Get("/", h.ListJobs)
	jobs.Post("/", middleware.RequireCapability(authz.JobCreate), h.CreateJob)
	jobs.Get("/:id", h.GetJob)
	jobs.Patch("/:id", h.UpdateJob)
	jobs.Get("/:id/history", h.JobHistory)

	bookings := api.Group("/bookings", protected)
	bookings.Get("/", h.ListBookings)
	bookings.Post("/", middleware.RequireCapability(authz.BookingCreate), h.CreateBooking)
	bookings.Post("/:id/confirm", middleware.RequireCapability(authz.BookingConfirm), h.ConfirmBooking)

	milestones := api.Group("/milestones", protected)
	milestones.Patch("/:id", middleware.RequireCapability(authz.MilestoneManage), h.UpdateMilestone)
	milestones.Post("/:id/complete", middleware.RequireCapability(authz.MilestoneManage), h.CompleteMilestone)
	milestones.Post("/:id/fund", h.FundMilestone)
}
