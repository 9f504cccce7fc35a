package api

import (
	"errors"

	"mingle/job"
	"mingle/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type JobHandler struct {
	runner *job.Runner
}

func NewJobHandler(runner *job.Runner) *JobHandler {
	return &JobHandler{
		runner: runner,
	}
}

func (h *JobHandler) HandleGetJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		return NewValidationError(map[string]string{"limit": "must be between 1 and 500"})
	}

	jobs, err := h.runner.Jobs(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrInvalidID()
	}

	j, err := h.runner.Job(c.UserContext(), id)
	if errors.Is(err, store.ErrJobNotFound) {
		return ErrNotFound(id, "job")
	}
	if err != nil {
		return err
	}
	return c.JSON(j)
}
