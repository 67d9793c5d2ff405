package services

import (
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
	"gestion-produit/pkg/rabbitmq"
)

// ProduitService handles business logic related to products. It delegates
// persistence to the repository and adds the not-found semantics of the API.
// When a RabbitMQ client is configured, catalog changes are published as
// events; publishing failures are logged and never surfaced to the caller.
type ProduitService struct {
	repo   repositories.ProduitRepository
	events *rabbitmq.Client // may be nil, events disabled
}

// NewProduitService creates a new ProduitService. events may be nil.
func NewProduitService(repo repositories.ProduitRepository, events *rabbitmq.Client) *ProduitService {
	return &ProduitService{
		repo:   repo,
		events: events,
	}
}

// Create persists a new product and returns it with the generated id and
// timestamps populated.
func (s *ProduitService) Create(produit *models.Produit) error {
	produit.ID = 0 // ids are always generated, never taken from the caller
	if err := s.repo.Save(produit); err != nil {
		return err
	}
	s.publish("produit.cree", produit)
	return nil
}

// GetAll retrieves all products.
func (s *ProduitService) GetAll() ([]models.Produit, error) {
	return s.repo.FindAll()
}

// GetByID retrieves a product by its id. A missing id is not an error at
// this layer: the product is simply nil and the caller decides.
func (s *ProduitService) GetByID(id uint) (*models.Produit, error) {
	produit, err := s.repo.FindByID(id)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return produit, nil
}

// SearchByNom retrieves products whose name contains the fragment,
// case-insensitively.
func (s *ProduitService) SearchByNom(fragment string) ([]models.Produit, error) {
	return s.repo.SearchByNom(fragment)
}

// GetEnStock retrieves in-stock products ordered by name ascending.
func (s *ProduitService) GetEnStock() ([]models.Produit, error) {
	return s.repo.FindEnStock()
}

// Update overwrites the name, description, price and stock quantity of an
// existing product; relations are left untouched. A missing id fails with
// a NotFoundError and never creates a new row.
func (s *ProduitService) Update(id uint, details *models.Produit) (*models.Produit, error) {
	produit, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	produit.Nom = details.Nom
	produit.Description = details.Description
	produit.Prix = details.Prix
	produit.QuantiteStock = details.QuantiteStock

	if err := s.repo.Save(produit); err != nil {
		return nil, err
	}
	s.publish("produit.modifie", produit)
	return produit, nil
}

// UpdateStock overwrites only the stock quantity of an existing product.
func (s *ProduitService) UpdateStock(id uint, quantite int) (*models.Produit, error) {
	produit, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	produit.QuantiteStock = quantite

	if err := s.repo.Save(produit); err != nil {
		return nil, err
	}
	s.publish("produit.stock_modifie", produit)
	return produit, nil
}

// GetStockFaible retrieves products with a stock below the threshold.
func (s *ProduitService) GetStockFaible(seuil int) ([]models.Produit, error) {
	return s.repo.FindByStockFaible(seuil)
}

// GetByPrixRange retrieves products priced within the inclusive bounds.
func (s *ProduitService) GetByPrixRange(prixMin, prixMax decimal.Decimal) ([]models.Produit, error) {
	return s.repo.FindByPrixBetween(prixMin, prixMax)
}

// AddTag associates a tag with a product.
func (s *ProduitService) AddTag(produitID, tagID uint) error {
	if err := s.repo.AddTag(produitID, tagID); err != nil {
		return err
	}
	s.publish("produit.modifie", map[string]uint{"id": produitID, "tagId": tagID})
	return nil
}

// RemoveTag removes a tag association from a product.
func (s *ProduitService) RemoveTag(produitID, tagID uint) error {
	if err := s.repo.RemoveTag(produitID, tagID); err != nil {
		return err
	}
	s.publish("produit.modifie", map[string]uint{"id": produitID, "tagId": tagID})
	return nil
}

// SetFournisseur links an exclusive supplier to a product.
func (s *ProduitService) SetFournisseur(produitID, fournisseurID uint) error {
	if err := s.repo.SetFournisseur(produitID, fournisseurID); err != nil {
		return err
	}
	s.publish("produit.modifie", map[string]uint{"id": produitID, "fournisseurId": fournisseurID})
	return nil
}

// Delete removes a product by its id, failing with a NotFoundError when absent.
func (s *ProduitService) Delete(id uint) error {
	if err := s.repo.DeleteByID(id); err != nil {
		return err
	}
	s.publish("produit.supprime", map[string]uint{"id": id})
	return nil
}

// DeleteAll unconditionally clears all products.
func (s *ProduitService) DeleteAll() error {
	return s.repo.DeleteAll()
}

// Exists reports whether a product with the given id exists.
func (s *ProduitService) Exists(id uint) (bool, error) {
	return s.repo.ExistsByID(id)
}

func (s *ProduitService) publish(action string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProduitEvent(action, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", action, err)
	}
}
