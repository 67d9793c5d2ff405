package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	repo repositories.TagRepository
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(repo repositories.TagRepository) *TagHandler {
	return &TagHandler{
		repo: repo,
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tags := router.Group("/tags")
	tags.Post("/", h.HandleCreer)
	tags.Get("/", h.HandleObtenirTous)
	tags.Get("/:id", h.HandleObtenirParID)
	tags.Delete("/:id", h.HandleSupprimer)
}

// HandleCreer creates a new tag.
func (h *TagHandler) HandleCreer(c *fiber.Ctx) error {
	var tag models.Tag
	if err := c.BodyParser(&tag); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}
	tag.ID = 0
	if err := h.repo.Save(&tag); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// HandleObtenirTous retrieves all tags.
func (h *TagHandler) HandleObtenirTous(c *fiber.Ctx) error {
	tags, err := h.repo.FindAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(tags)
}

// HandleObtenirParID retrieves a tag by its id.
func (h *TagHandler) HandleObtenirParID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.repo.FindByID(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(tag)
}

// HandleSupprimer deletes a tag and its product associations.
func (h *TagHandler) HandleSupprimer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.repo.DeleteByID(id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
