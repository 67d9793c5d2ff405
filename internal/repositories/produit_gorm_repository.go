package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-produit/internal/models"
)

// GORMProduitRepository is a GORM implementation of ProduitRepository.
type GORMProduitRepository struct {
	db *gorm.DB
}

// NewGORMProduitRepository creates a new instance of GORMProduitRepository.
func NewGORMProduitRepository(db *gorm.DB) *GORMProduitRepository {
	return &GORMProduitRepository{
		db: db,
	}
}

// Save persists a product: insert when the id is zero, update otherwise.
// Validation, timestamping and the supplier-exclusivity check all happen
// here, before the row is written. Updates never touch associations.
func (r *GORMProduitRepository) Save(produit *models.Produit) error {
	if err := produit.Valider(); err != nil {
		return err
	}
	if err := r.checkFournisseurExclusif(produit.ID, produit.FournisseurID); err != nil {
		return err
	}

	produit.Horodater(time.Now())

	if produit.ID == 0 {
		if err := r.db.Create(produit).Error; err != nil {
			return fmt.Errorf("failed to create produit: %w", err)
		}
		return nil
	}

	exists, err := r.ExistsByID(produit.ID)
	if err != nil {
		return err
	}
	if !exists {
		return &models.NotFoundError{Entity: "Produit", ID: produit.ID}
	}
	if err := r.db.Omit(clause.Associations).Save(produit).Error; err != nil {
		return fmt.Errorf("failed to update produit %d: %w", produit.ID, err)
	}
	return nil
}

// checkFournisseurExclusif rejects a save that would link a supplier already
// linked to another product (one supplier supplies exactly one product).
func (r *GORMProduitRepository) checkFournisseurExclusif(produitID uint, fournisseurID *uint) error {
	if fournisseurID == nil {
		return nil
	}
	var count int64
	err := r.db.Model(&models.Produit{}).
		Where("fournisseur_id = ? AND id <> ?", *fournisseurID, produitID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check fournisseur exclusivity: %w", err)
	}
	if count > 0 {
		return &models.ConflictError{Field: "fournisseur", Value: fmt.Sprint(*fournisseurID)}
	}
	return nil
}

// FindByID retrieves a single product by its id.
func (r *GORMProduitRepository) FindByID(id uint) (*models.Produit, error) {
	var produit models.Produit
	if err := r.db.First(&produit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "Produit", ID: id}
		}
		return nil, fmt.Errorf("failed to get produit by id %d: %w", id, err)
	}
	return &produit, nil
}

// FindAll retrieves all products, order unspecified.
func (r *GORMProduitRepository) FindAll() ([]models.Produit, error) {
	var produits []models.Produit
	if err := r.db.Find(&produits).Error; err != nil {
		return nil, fmt.Errorf("failed to get all produits: %w", err)
	}
	return produits, nil
}

// FindByNom retrieves a product by its exact name.
func (r *GORMProduitRepository) FindByNom(nom string) (*models.Produit, error) {
	var produit models.Produit
	if err := r.db.First(&produit, "nom = ?", nom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "Produit"}
		}
		return nil, fmt.Errorf("failed to get produit by nom %q: %w", nom, err)
	}
	return &produit, nil
}

// SearchByNom retrieves products whose name contains the fragment,
// case-insensitively. lower() keeps the behavior identical on SQLite
// and PostgreSQL.
func (r *GORMProduitRepository) SearchByNom(fragment string) ([]models.Produit, error) {
	var produits []models.Produit
	pattern := "%" + strings.ToLower(fragment) + "%"
	if err := r.db.Where("lower(nom) LIKE ?", pattern).Find(&produits).Error; err != nil {
		return nil, fmt.Errorf("failed to search produits by nom: %w", err)
	}
	return produits, nil
}

// FindByPrixBetween retrieves products priced within [prixMin, prixMax].
func (r *GORMProduitRepository) FindByPrixBetween(prixMin, prixMax decimal.Decimal) ([]models.Produit, error) {
	var produits []models.Produit
	if err := r.db.Where("prix BETWEEN ? AND ?", prixMin, prixMax).Find(&produits).Error; err != nil {
		return nil, fmt.Errorf("failed to get produits by prix range: %w", err)
	}
	return produits, nil
}

// FindByStockFaible retrieves products with a stock below the threshold.
func (r *GORMProduitRepository) FindByStockFaible(seuil int) ([]models.Produit, error) {
	var produits []models.Produit
	if err := r.db.Where("quantite_stock < ?", seuil).Find(&produits).Error; err != nil {
		return nil, fmt.Errorf("failed to get produits with low stock: %w", err)
	}
	return produits, nil
}

// FindEnStock retrieves in-stock products ordered by name ascending.
func (r *GORMProduitRepository) FindEnStock() ([]models.Produit, error) {
	var produits []models.Produit
	if err := r.db.Where("quantite_stock > 0").Order("nom ASC").Find(&produits).Error; err != nil {
		return nil, fmt.Errorf("failed to get produits en stock: %w", err)
	}
	return produits, nil
}

// CountByPrixGreaterThan counts products priced strictly above the given value.
func (r *GORMProduitRepository) CountByPrixGreaterThan(prix decimal.Decimal) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Produit{}).Where("prix > ?", prix).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count produits by prix: %w", err)
	}
	return count, nil
}

// ExistsByID reports whether a product with the given id exists.
func (r *GORMProduitRepository) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Produit{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check produit existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByNom reports whether a product with the given exact name exists.
func (r *GORMProduitRepository) ExistsByNom(nom string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Produit{}).Where("nom = ?", nom).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check produit existence by nom: %w", err)
	}
	return count > 0, nil
}

// DeleteByID deletes a product and its tag associations in one transaction.
func (r *GORMProduitRepository) DeleteByID(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM produit_tags WHERE produit_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear tag associations of produit %d: %w", id, err)
		}
		res := tx.Delete(&models.Produit{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete produit %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Entity: "Produit", ID: id}
		}
		return nil
	})
}

// DeleteAll clears the products table and the tag join table.
func (r *GORMProduitRepository) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM produit_tags").Error; err != nil {
			return fmt.Errorf("failed to clear produit_tags: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Produit{}).Error; err != nil {
			return fmt.Errorf("failed to delete all produits: %w", err)
		}
		return nil
	})
}

// AddTag links a tag to a product through the join table and bumps the
// product's modification timestamp.
func (r *GORMProduitRepository) AddTag(produitID, tagID uint) error {
	produit, err := r.FindByID(produitID)
	if err != nil {
		return err
	}
	var tag models.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Entity: "Tag", ID: tagID}
		}
		return fmt.Errorf("failed to get tag %d: %w", tagID, err)
	}
	if err := r.db.Model(produit).Association("Tags").Append(&tag); err != nil {
		return fmt.Errorf("failed to add tag %d to produit %d: %w", tagID, produitID, err)
	}
	return r.touch(produitID)
}

// RemoveTag unlinks a tag from a product.
func (r *GORMProduitRepository) RemoveTag(produitID, tagID uint) error {
	produit, err := r.FindByID(produitID)
	if err != nil {
		return err
	}
	var tag models.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Entity: "Tag", ID: tagID}
		}
		return fmt.Errorf("failed to get tag %d: %w", tagID, err)
	}
	if err := r.db.Model(produit).Association("Tags").Delete(&tag); err != nil {
		return fmt.Errorf("failed to remove tag %d from produit %d: %w", tagID, produitID, err)
	}
	return r.touch(produitID)
}

// SetFournisseur links a supplier to a product, enforcing exclusivity.
func (r *GORMProduitRepository) SetFournisseur(produitID, fournisseurID uint) error {
	if _, err := r.FindByID(produitID); err != nil {
		return err
	}
	var fournisseur models.Fournisseur
	if err := r.db.First(&fournisseur, fournisseurID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Entity: "Fournisseur", ID: fournisseurID}
		}
		return fmt.Errorf("failed to get fournisseur %d: %w", fournisseurID, err)
	}
	if err := r.checkFournisseurExclusif(produitID, &fournisseurID); err != nil {
		return err
	}
	err := r.db.Model(&models.Produit{}).Where("id = ?", produitID).
		Updates(map[string]interface{}{
			"fournisseur_id":    fournisseurID,
			"date_modification": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set fournisseur %d on produit %d: %w", fournisseurID, produitID, err)
	}
	return nil
}

// touch bumps the modification timestamp of a product after an association
// change, which does not rewrite the row itself.
func (r *GORMProduitRepository) touch(produitID uint) error {
	err := r.db.Model(&models.Produit{}).Where("id = ?", produitID).
		Update("date_modification", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch produit %d: %w", produitID, err)
	}
	return nil
}
