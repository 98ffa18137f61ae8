package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/ports"
)

type ContainerHandler struct {
	service ports.ContainerService
	lane    ports.Lane
	logger  *zap.Logger
}

func NewContainerHandler(service ports.ContainerService, lane ports.Lane, logger *zap.Logger) *ContainerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContainerHandler{service: service, lane: lane, logger: logger}
}

// Register mounts the API routes under router.
func (h *ContainerHandler) Register(router fiber.Router) {
	v1 := router.Group("/api/v1")

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.CreateContainer)
	containers.Post("/:name/:action", h.PerformAction)
	containers.Get("/:id/logs", h.GetContainerLogs)

	v1.Post("/builds", h.BuildImage)
	v1.Get("/lane", h.LaneState)
	v1.Delete("/jobs/current", h.CancelCurrent)
	v1.Get("/events", h.Events)
}

func (h *ContainerHandler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

func (h *ContainerHandler) PerformAction(c *fiber.Ctx) error {
	name := c.Params("name")
	action := domain.Action(c.Params("action"))
	if !action.Valid() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown action: " + string(action),
		})
	}

	results, ok := h.service.Perform(detach(c), action, name)
	return h.submitted(c, results, ok)
}

func (h *ContainerHandler) CreateContainer(c *fiber.Ctx) error {
	var req domain.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	results, ok := h.service.CreateContainer(detach(c), req)
	return h.submitted(c, results, ok)
}

type BuildImageRequest struct {
	RepoURL string `json:"repo_url"`
	Image   string `json:"image"`
}

func (h *ContainerHandler) BuildImage(c *fiber.Ctx) error {
	var req BuildImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Image == "" {
		req.Image = "lighthouse-built-image"
	}

	results, ok := h.service.BuildImage(detach(c), req.RepoURL, req.Image)
	return h.submitted(c, results, ok)
}

func (h *ContainerHandler) CancelCurrent(c *fiber.Ctx) error {
	h.lane.Cancel()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContainerHandler) LaneState(c *fiber.Ctx) error {
	state := domain.LaneIdle
	if h.lane.Busy() {
		state = domain.LaneRunning
	}
	return c.JSON(fiber.Map{"state": state.String()})
}

func (h *ContainerHandler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.service.GetContainerLogs(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

// submitted answers a lane submission: 202 once accepted, 409 while another
// command runs, 400 when the request never reached the lane.
func (h *ContainerHandler) submitted(c *fiber.Ctx, results <-chan domain.Result, accepted bool) error {
	if !accepted {
		result := <-results
		status := fiber.StatusBadRequest
		if errors.Is(result.Err, domain.ErrBusy) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": result.Err.Error(),
		})
	}

	path := c.Path()
	go func() {
		result := <-results
		h.logger.Info("submission finished",
			zap.String("path", path),
			zap.Stringer("outcome", result.Outcome),
			zap.Error(result.Err),
		)
	}()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
	})
}

// detach keeps request values but not the request's cancellation: the
// command must outlive the HTTP exchange that started it.
func detach(c *fiber.Ctx) context.Context {
	return context.WithoutCancel(c.UserContext())
}
