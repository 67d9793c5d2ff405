package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-produit/internal/models"
)

// CategorieRepository defines the data-access contract for categories.
//
// A category owns its products: DeleteByID cascades to them, and
// RemoveProduit deletes the detached product (orphan removal). Both run
// inside a single transaction with the parent operation.
type CategorieRepository interface {
	Save(categorie *models.Categorie) error
	FindByID(id uint) (*models.Categorie, error)
	FindAll() ([]models.Categorie, error)
	ExistsByNom(nom string) (bool, error)
	CountProduits(categorieID uint) (int64, error)
	AddProduit(categorieID, produitID uint) error
	RemoveProduit(categorieID, produitID uint) error
	DeleteByID(id uint) error
	DeleteAll() error
}

// GORMCategorieRepository is a GORM implementation of CategorieRepository.
type GORMCategorieRepository struct {
	db *gorm.DB
}

// NewGORMCategorieRepository creates a new instance of GORMCategorieRepository.
func NewGORMCategorieRepository(db *gorm.DB) *GORMCategorieRepository {
	return &GORMCategorieRepository{
		db: db,
	}
}

// Save persists a category. Duplicate names are rejected with a ConflictError.
func (r *GORMCategorieRepository) Save(categorie *models.Categorie) error {
	if err := categorie.Valider(); err != nil {
		return err
	}

	var count int64
	err := r.db.Model(&models.Categorie{}).
		Where("nom = ? AND id <> ?", categorie.Nom, categorie.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check categorie nom uniqueness: %w", err)
	}
	if count > 0 {
		return &models.ConflictError{Field: "nom", Value: categorie.Nom}
	}

	categorie.Horodater(time.Now())

	if categorie.ID == 0 {
		if err := r.db.Omit(clause.Associations).Create(categorie).Error; err != nil {
			return fmt.Errorf("failed to create categorie: %w", err)
		}
		return nil
	}

	// GORM's Save falls back to an insert when no row matches, so a missing
	// id must be rejected before the write.
	var exists int64
	if err := r.db.Model(&models.Categorie{}).Where("id = ?", categorie.ID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to check categorie existence: %w", err)
	}
	if exists == 0 {
		return &models.NotFoundError{Entity: "Categorie", ID: categorie.ID}
	}
	if err := r.db.Omit(clause.Associations).Save(categorie).Error; err != nil {
		return fmt.Errorf("failed to update categorie %d: %w", categorie.ID, err)
	}
	return nil
}

// FindByID retrieves a category by its id.
func (r *GORMCategorieRepository) FindByID(id uint) (*models.Categorie, error) {
	var categorie models.Categorie
	if err := r.db.First(&categorie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "Categorie", ID: id}
		}
		return nil, fmt.Errorf("failed to get categorie by id %d: %w", id, err)
	}
	return &categorie, nil
}

// FindAll retrieves all categories.
func (r *GORMCategorieRepository) FindAll() ([]models.Categorie, error) {
	var categories []models.Categorie
	if err := r.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// ExistsByNom reports whether a category with the given name exists.
func (r *GORMCategorieRepository) ExistsByNom(nom string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Categorie{}).Where("nom = ?", nom).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check categorie existence by nom: %w", err)
	}
	return count > 0, nil
}

// CountProduits counts the products belonging to a category.
func (r *GORMCategorieRepository) CountProduits(categorieID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Produit{}).Where("categorie_id = ?", categorieID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count produits in categorie %d: %w", categorieID, err)
	}
	return count, nil
}

// AddProduit attaches a product to a category.
func (r *GORMCategorieRepository) AddProduit(categorieID, produitID uint) error {
	if _, err := r.FindByID(categorieID); err != nil {
		return err
	}
	res := r.db.Model(&models.Produit{}).Where("id = ?", produitID).
		Updates(map[string]interface{}{
			"categorie_id":      categorieID,
			"date_modification": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to attach produit %d to categorie %d: %w", produitID, categorieID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "Produit", ID: produitID}
	}
	return nil
}

// RemoveProduit detaches a product from its category. Per the orphan-removal
// rule, the detached product is deleted entirely, together with its tag
// associations, inside one transaction.
func (r *GORMCategorieRepository) RemoveProduit(categorieID, produitID uint) error {
	if _, err := r.FindByID(categorieID); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM produit_tags WHERE produit_id = ?", produitID).Error; err != nil {
			return fmt.Errorf("failed to clear tag associations of produit %d: %w", produitID, err)
		}
		res := tx.Where("id = ? AND categorie_id = ?", produitID, categorieID).Delete(&models.Produit{})
		if res.Error != nil {
			return fmt.Errorf("failed to remove produit %d from categorie %d: %w", produitID, categorieID, res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Entity: "Produit", ID: produitID}
		}
		return nil
	})
}

// DeleteByID deletes a category and cascades to all its products, clearing
// their tag associations first, all in one transaction.
func (r *GORMCategorieRepository) DeleteByID(id uint) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM produit_tags WHERE produit_id IN
			(SELECT id FROM produits WHERE categorie_id = ?)`, id).Error
		if err != nil {
			return fmt.Errorf("failed to clear tag associations of categorie %d: %w", id, err)
		}
		if err := tx.Where("categorie_id = ?", id).Delete(&models.Produit{}).Error; err != nil {
			return fmt.Errorf("failed to cascade delete produits of categorie %d: %w", id, err)
		}
		if err := tx.Delete(&models.Categorie{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete categorie %d: %w", id, err)
		}
		return nil
	})
}

// DeleteAll clears all categories and cascades to their products.
func (r *GORMCategorieRepository) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM produit_tags WHERE produit_id IN
			(SELECT id FROM produits WHERE categorie_id IS NOT NULL)`).Error
		if err != nil {
			return fmt.Errorf("failed to clear tag associations: %w", err)
		}
		if err := tx.Where("categorie_id IS NOT NULL").Delete(&models.Produit{}).Error; err != nil {
			return fmt.Errorf("failed to cascade delete produits: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Categorie{}).Error; err != nil {
			return fmt.Errorf("failed to delete all categories: %w", err)
		}
		return nil
	})
}
