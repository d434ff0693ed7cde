package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// categoryRequest is the JSON body for category create and update.
type categoryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	ParentID    *string `json:"parent_id"`
}

func (r categoryRequest) input() (service.CategoryInput, error) {
	in := service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
	}
	if r.ParentID != nil && *r.ParentID != "" {
		if _, err := uuid.Parse(*r.ParentID); err != nil {
			return in, err
		}
		in.ParentID = r.ParentID
	}
	return in, nil
}

// CategoryTree returns the tenant's categories as a nested tree with
// per-category document counts.
func CategoryTree(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tree, err := svc.Tree(c.UserContext(), middleware.CompanyID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": tree})
	}
}

// CreateCategory adds a category, optionally under a parent.
func CreateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent id")
		}
		cat, err := svc.Create(c.UserContext(), middleware.CompanyID(c), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// UpdateCategory renames or re-parents a category.
func UpdateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid category id")
		}
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent id")
		}
		cat, err := svc.Update(c.UserContext(), id, middleware.CompanyID(c), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(cat)
	}
}

// DeleteCategory removes a category that has no active documents assigned.
func DeleteCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid category id")
		}
		if err := svc.Delete(c.UserContext(), id, middleware.CompanyID(c)); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "category deleted"})
	}
}
