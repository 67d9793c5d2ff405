package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
)

// FournisseurHandler handles HTTP requests for suppliers.
type FournisseurHandler struct {
	repo repositories.FournisseurRepository
}

// NewFournisseurHandler creates a new FournisseurHandler.
func NewFournisseurHandler(repo repositories.FournisseurRepository) *FournisseurHandler {
	return &FournisseurHandler{
		repo: repo,
	}
}

// RegisterRoutes registers the supplier routes with the Fiber app.
func (h *FournisseurHandler) RegisterRoutes(router fiber.Router) {
	fournisseurs := router.Group("/fournisseurs")
	fournisseurs.Post("/", h.HandleCreer)
	fournisseurs.Get("/", h.HandleObtenirTous)
	fournisseurs.Get("/:id", h.HandleObtenirParID)
	fournisseurs.Delete("/:id", h.HandleSupprimer)
}

// HandleCreer creates a new supplier.
func (h *FournisseurHandler) HandleCreer(c *fiber.Ctx) error {
	var fournisseur models.Fournisseur
	if err := c.BodyParser(&fournisseur); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}
	fournisseur.ID = 0
	if err := h.repo.Save(&fournisseur); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fournisseur)
}

// HandleObtenirTous retrieves all suppliers.
func (h *FournisseurHandler) HandleObtenirTous(c *fiber.Ctx) error {
	fournisseurs, err := h.repo.FindAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fournisseurs)
}

// HandleObtenirParID retrieves a supplier by its id.
func (h *FournisseurHandler) HandleObtenirParID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	fournisseur, err := h.repo.FindByID(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fournisseur)
}

// HandleSupprimer deletes a supplier, detaching its product first.
func (h *FournisseurHandler) HandleSupprimer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.repo.DeleteByID(id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
