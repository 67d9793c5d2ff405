package models

import "time"

// Tag is a label applied to products ("Promo", "Nouveau", ...), many-to-many
// through the produit_tags join table. The product side owns the relation.
type Tag struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Nom     string `json:"nom" gorm:"not null;uniqueIndex" validate:"required,min=2,max=30"`
	Couleur string `json:"couleur,omitempty" gorm:"type:varchar(7)" validate:"omitempty,hexcolor,max=7"`

	Produits []*Produit `json:"-" gorm:"many2many:produit_tags"`

	DateCreation     time.Time `json:"dateCreation" gorm:"not null;<-:create"`
	DateModification time.Time `json:"dateModification" gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (Tag) TableName() string {
	return "tags"
}

// Valider checks the field constraints of the tag before persistence.
func (t *Tag) Valider() error {
	return checkStruct(t)
}

// Horodater stamps the lifecycle timestamps.
func (t *Tag) Horodater(now time.Time) {
	if t.ID == 0 {
		t.DateCreation = now
	}
	t.DateModification = now
}
