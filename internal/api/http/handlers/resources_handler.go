package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ResourcesHandler serves the demo resource endpoints with tiered access.
type ResourcesHandler struct{}

// NewResourcesHandler returns a new handler instance.
func NewResourcesHandler() *ResourcesHandler {
	return &ResourcesHandler{}
}

// Public handles GET /public, open to everyone.
func (h *ResourcesHandler) Public(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":      uuid.NewString(),
		"content": "public endpoint: open to everyone",
	})
}

// Private handles GET /private, available to any authenticated caller.
func (h *ResourcesHandler) Private(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":      uuid.NewString(),
		"content": "private endpoint: authenticated callers only",
	})
}

// Manager handles GET /manager, restricted to the MANAGER role.
func (h *ResourcesHandler) Manager(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":      uuid.NewString(),
		"content": "manager endpoint: managers only",
	})
}
