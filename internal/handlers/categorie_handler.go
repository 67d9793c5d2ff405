package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
)

// CategorieHandler handles HTTP requests for categories. It is a thin layer
// over the repository: categories carry no business logic beyond their
// cascade rules, which live in the data-access layer.
type CategorieHandler struct {
	repo repositories.CategorieRepository
}

// NewCategorieHandler creates a new CategorieHandler.
func NewCategorieHandler(repo repositories.CategorieRepository) *CategorieHandler {
	return &CategorieHandler{
		repo: repo,
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategorieHandler) RegisterRoutes(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Post("/", h.HandleCreer)
	categories.Get("/", h.HandleObtenirToutes)
	categories.Get("/:id", h.HandleObtenirParID)
	categories.Delete("/:id", h.HandleSupprimer)
	categories.Post("/:id/produits/:produitId", h.HandleAjouterProduit)
	categories.Delete("/:id/produits/:produitId", h.HandleRetirerProduit)
}

// HandleCreer creates a new category.
func (h *CategorieHandler) HandleCreer(c *fiber.Ctx) error {
	var categorie models.Categorie
	if err := c.BodyParser(&categorie); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}
	categorie.ID = 0
	if err := h.repo.Save(&categorie); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(categorie)
}

// HandleObtenirToutes retrieves all categories.
func (h *CategorieHandler) HandleObtenirToutes(c *fiber.Ctx) error {
	categories, err := h.repo.FindAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(categories)
}

// HandleObtenirParID retrieves a category with its product count.
func (h *CategorieHandler) HandleObtenirParID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	categorie, err := h.repo.FindByID(id)
	if err != nil {
		return renderError(c, err)
	}
	nombreProduits, err := h.repo.CountProduits(id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{
		"categorie":      categorie,
		"nombreProduits": nombreProduits,
	})
}

// HandleSupprimer deletes a category, cascading to its products.
func (h *CategorieHandler) HandleSupprimer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.repo.DeleteByID(id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAjouterProduit attaches a product to a category.
func (h *CategorieHandler) HandleAjouterProduit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	produitID, err := paramID(c, "produitId")
	if err != nil {
		return err
	}
	if err := h.repo.AddProduit(id, produitID); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRetirerProduit detaches a product from its category; the orphaned
// product is deleted.
func (h *CategorieHandler) HandleRetirerProduit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	produitID, err := paramID(c, "produitId")
	if err != nil {
		return err
	}
	if err := h.repo.RemoveProduit(id, produitID); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
