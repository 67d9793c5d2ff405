package repositories

import (
	"github.com/shopspring/decimal"

	"gestion-produit/internal/models"
)

// ProduitRepository defines the data-access contract for products.
//
// Save performs an insert when the product has no id yet and an update
// otherwise; it validates the entity, stamps the lifecycle timestamps and
// enforces supplier exclusivity before touching the store.
type ProduitRepository interface {
	Save(produit *models.Produit) error
	FindByID(id uint) (*models.Produit, error)
	FindAll() ([]models.Produit, error)
	FindByNom(nom string) (*models.Produit, error)
	SearchByNom(fragment string) ([]models.Produit, error)
	FindByPrixBetween(prixMin, prixMax decimal.Decimal) ([]models.Produit, error)
	FindByStockFaible(seuil int) ([]models.Produit, error)
	FindEnStock() ([]models.Produit, error)
	CountByPrixGreaterThan(prix decimal.Decimal) (int64, error)
	ExistsByID(id uint) (bool, error)
	ExistsByNom(nom string) (bool, error)
	DeleteByID(id uint) error
	DeleteAll() error
	AddTag(produitID, tagID uint) error
	RemoveTag(produitID, tagID uint) error
	SetFournisseur(produitID, fournisseurID uint) error
}
