package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-produit/internal/models"
)

// FournisseurRepository defines the data-access contract for suppliers.
type FournisseurRepository interface {
	Save(fournisseur *models.Fournisseur) error
	FindByID(id uint) (*models.Fournisseur, error)
	FindAll() ([]models.Fournisseur, error)
	DeleteByID(id uint) error
}

// GORMFournisseurRepository is a GORM implementation of FournisseurRepository.
type GORMFournisseurRepository struct {
	db *gorm.DB
}

// NewGORMFournisseurRepository creates a new instance of GORMFournisseurRepository.
func NewGORMFournisseurRepository(db *gorm.DB) *GORMFournisseurRepository {
	return &GORMFournisseurRepository{
		db: db,
	}
}

// Save persists a supplier. A non-empty email must be unique across suppliers;
// duplicates are rejected with a ConflictError.
func (r *GORMFournisseurRepository) Save(fournisseur *models.Fournisseur) error {
	if err := fournisseur.Valider(); err != nil {
		return err
	}

	if fournisseur.Email != "" {
		var count int64
		err := r.db.Model(&models.Fournisseur{}).
			Where("email = ? AND id <> ?", fournisseur.Email, fournisseur.ID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check fournisseur email uniqueness: %w", err)
		}
		if count > 0 {
			return &models.ConflictError{Field: "email", Value: fournisseur.Email}
		}
	}

	fournisseur.Horodater(time.Now())

	if fournisseur.ID == 0 {
		if err := r.db.Omit(clause.Associations).Create(fournisseur).Error; err != nil {
			return fmt.Errorf("failed to create fournisseur: %w", err)
		}
		return nil
	}

	// GORM's Save falls back to an insert when no row matches, so a missing
	// id must be rejected before the write.
	var exists int64
	if err := r.db.Model(&models.Fournisseur{}).Where("id = ?", fournisseur.ID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to check fournisseur existence: %w", err)
	}
	if exists == 0 {
		return &models.NotFoundError{Entity: "Fournisseur", ID: fournisseur.ID}
	}
	if err := r.db.Omit(clause.Associations).Save(fournisseur).Error; err != nil {
		return fmt.Errorf("failed to update fournisseur %d: %w", fournisseur.ID, err)
	}
	return nil
}

// FindByID retrieves a supplier by its id.
func (r *GORMFournisseurRepository) FindByID(id uint) (*models.Fournisseur, error) {
	var fournisseur models.Fournisseur
	if err := r.db.First(&fournisseur, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "Fournisseur", ID: id}
		}
		return nil, fmt.Errorf("failed to get fournisseur by id %d: %w", id, err)
	}
	return &fournisseur, nil
}

// FindAll retrieves all suppliers.
func (r *GORMFournisseurRepository) FindAll() ([]models.Fournisseur, error) {
	var fournisseurs []models.Fournisseur
	if err := r.db.Find(&fournisseurs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all fournisseurs: %w", err)
	}
	return fournisseurs, nil
}

// DeleteByID deletes a supplier, detaching the product that references it
// in the same transaction so the foreign key stays consistent.
func (r *GORMFournisseurRepository) DeleteByID(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Produit{}).Where("fournisseur_id = ?", id).
			Updates(map[string]interface{}{
				"fournisseur_id":    nil,
				"date_modification": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to detach produit from fournisseur %d: %w", id, err)
		}
		res := tx.Delete(&models.Fournisseur{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete fournisseur %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Entity: "Fournisseur", ID: id}
		}
		return nil
	})
}
