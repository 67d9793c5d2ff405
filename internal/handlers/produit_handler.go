package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gestion-produit/internal/models"
	"gestion-produit/internal/services"
)

// ProduitHandler handles HTTP requests for products.
type ProduitHandler struct {
	service *services.ProduitService
}

// NewProduitHandler creates a new ProduitHandler.
func NewProduitHandler(service *services.ProduitService) *ProduitHandler {
	return &ProduitHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Fixed paths are registered before /:id so they are not captured by it.
func (h *ProduitHandler) RegisterRoutes(router fiber.Router) {
	produits := router.Group("/produits")
	produits.Get("/health", h.HandleHealth)
	produits.Get("/recherche", h.HandleRechercher)
	produits.Get("/en-stock", h.HandleEnStock)
	produits.Get("/stock-faible", h.HandleStockFaible)
	produits.Get("/prix", h.HandlePrixRange)
	produits.Post("/", h.HandleCreer)
	produits.Get("/", h.HandleObtenirTous)
	produits.Delete("/", h.HandleSupprimerTous)
	produits.Get("/:id", h.HandleObtenirParID)
	produits.Put("/:id", h.HandleMettreAJour)
	produits.Patch("/:id/stock", h.HandleMettreAJourStock)
	produits.Delete("/:id", h.HandleSupprimer)
	produits.Post("/:id/tags/:tagId", h.HandleAjouterTag)
	produits.Delete("/:id/tags/:tagId", h.HandleRetirerTag)
	produits.Put("/:id/fournisseur/:fournisseurId", h.HandleLierFournisseur)
}

// renderError converts domain errors to HTTP statuses. This is the only
// layer performing that translation: 400 for validation failures with the
// per-field messages, 404 (empty body) for missing ids, 409 for uniqueness
// conflicts, 500 otherwise.
func renderError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation échouée",
			"errors":  validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		return c.SendStatus(fiber.StatusNotFound)
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": conflictErr.Error(),
		})
	default:
		log.Printf("Unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Erreur interne",
		})
	}
}

// paramID parses an unsigned integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "identifiant invalide")
	}
	return uint(id), nil
}

// HandleHealth reports the API status.
func (h *ProduitHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("API Produits fonctionne correctement!")
}

// HandleCreer creates a new product.
func (h *ProduitHandler) HandleCreer(c *fiber.Ctx) error {
	var produit models.Produit
	if err := c.BodyParser(&produit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}

	if err := h.service.Create(&produit); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(produit)
}

// HandleObtenirTous retrieves all products.
func (h *ProduitHandler) HandleObtenirTous(c *fiber.Ctx) error {
	produits, err := h.service.GetAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produits)
}

// HandleObtenirParID retrieves a single product by its id.
func (h *ProduitHandler) HandleObtenirParID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	produit, err := h.service.GetByID(id)
	if err != nil {
		return renderError(c, err)
	}
	if produit == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(produit)
}

// HandleRechercher retrieves products whose name contains the nom fragment,
// case-insensitively.
func (h *ProduitHandler) HandleRechercher(c *fiber.Ctx) error {
	nom := c.Query("nom")
	if nom == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Le paramètre 'nom' est obligatoire",
		})
	}
	produits, err := h.service.SearchByNom(nom)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produits)
}

// HandleEnStock retrieves in-stock products ordered by name ascending.
func (h *ProduitHandler) HandleEnStock(c *fiber.Ctx) error {
	produits, err := h.service.GetEnStock()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produits)
}

// HandleStockFaible retrieves products with a stock below the seuil query
// parameter (default 5).
func (h *ProduitHandler) HandleStockFaible(c *fiber.Ctx) error {
	seuil := c.QueryInt("seuil", 5)
	produits, err := h.service.GetStockFaible(seuil)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produits)
}

// HandlePrixRange retrieves products priced within [min, max].
func (h *ProduitHandler) HandlePrixRange(c *fiber.Ctx) error {
	prixMin, errMin := decimal.NewFromString(c.Query("min", "0"))
	prixMax, errMax := decimal.NewFromString(c.Query("max"))
	if errMin != nil || errMax != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Les paramètres 'min' et 'max' doivent être des nombres",
		})
	}
	produits, err := h.service.GetByPrixRange(prixMin, prixMax)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produits)
}

// HandleMettreAJour overwrites the name, description, price and stock of an
// existing product.
func (h *ProduitHandler) HandleMettreAJour(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var details models.Produit
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}

	produit, err := h.service.Update(id, &details)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produit)
}

// stockUpdateRequest is the body of PATCH /produits/:id/stock.
type stockUpdateRequest struct {
	QuantiteStock *int `json:"quantiteStock"`
}

// HandleMettreAJourStock overwrites only the stock quantity of a product.
func (h *ProduitHandler) HandleMettreAJourStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Corps de requête invalide",
			"error":   err.Error(),
		})
	}
	if req.QuantiteStock == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Le champ 'quantiteStock' est obligatoire",
		})
	}

	produit, err := h.service.UpdateStock(id, *req.QuantiteStock)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(produit)
}

// HandleSupprimer deletes a product by its id.
func (h *ProduitHandler) HandleSupprimer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(id); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSupprimerTous deletes all products.
func (h *ProduitHandler) HandleSupprimerTous(c *fiber.Ctx) error {
	if err := h.service.DeleteAll(); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAjouterTag associates a tag with a product.
func (h *ProduitHandler) HandleAjouterTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tagId")
	if err != nil {
		return err
	}
	if err := h.service.AddTag(id, tagID); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRetirerTag removes a tag association from a product.
func (h *ProduitHandler) HandleRetirerTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tagId")
	if err != nil {
		return err
	}
	if err := h.service.RemoveTag(id, tagID); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleLierFournisseur links an exclusive supplier to a product. Linking a
// supplier already linked to another product fails with 409.
func (h *ProduitHandler) HandleLierFournisseur(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	fournisseurID, err := paramID(c, "fournisseurId")
	if err != nil {
		return err
	}
	if err := h.service.SetFournisseur(id, fournisseurID); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
