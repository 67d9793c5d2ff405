package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestion-produit/internal/models"
)

// TagRepository defines the data-access contract for tags.
type TagRepository interface {
	Save(tag *models.Tag) error
	FindByID(id uint) (*models.Tag, error)
	FindAll() ([]models.Tag, error)
	ExistsByNom(nom string) (bool, error)
	DeleteByID(id uint) error
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{
		db: db,
	}
}

// Save persists a tag. Duplicate names are rejected with a ConflictError.
func (r *GORMTagRepository) Save(tag *models.Tag) error {
	if err := tag.Valider(); err != nil {
		return err
	}

	var count int64
	err := r.db.Model(&models.Tag{}).
		Where("nom = ? AND id <> ?", tag.Nom, tag.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check tag nom uniqueness: %w", err)
	}
	if count > 0 {
		return &models.ConflictError{Field: "nom", Value: tag.Nom}
	}

	tag.Horodater(time.Now())

	if tag.ID == 0 {
		if err := r.db.Omit(clause.Associations).Create(tag).Error; err != nil {
			return fmt.Errorf("failed to create tag: %w", err)
		}
		return nil
	}

	// GORM's Save falls back to an insert when no row matches, so a missing
	// id must be rejected before the write.
	var exists int64
	if err := r.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to check tag existence: %w", err)
	}
	if exists == 0 {
		return &models.NotFoundError{Entity: "Tag", ID: tag.ID}
	}
	if err := r.db.Omit(clause.Associations).Save(tag).Error; err != nil {
		return fmt.Errorf("failed to update tag %d: %w", tag.ID, err)
	}
	return nil
}

// FindByID retrieves a tag by its id.
func (r *GORMTagRepository) FindByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Entity: "Tag", ID: id}
		}
		return nil, fmt.Errorf("failed to get tag by id %d: %w", id, err)
	}
	return &tag, nil
}

// FindAll retrieves all tags.
func (r *GORMTagRepository) FindAll() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tags: %w", err)
	}
	return tags, nil
}

// ExistsByNom reports whether a tag with the given name exists.
func (r *GORMTagRepository) ExistsByNom(nom string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Tag{}).Where("nom = ?", nom).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check tag existence by nom: %w", err)
	}
	return count > 0, nil
}

// DeleteByID deletes a tag and its product associations in one transaction.
func (r *GORMTagRepository) DeleteByID(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM produit_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear produit associations of tag %d: %w", id, err)
		}
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete tag %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Entity: "Tag", ID: id}
		}
		return nil
	})
}
