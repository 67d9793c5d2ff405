package models

import "time"

// Fournisseur is an exclusive supplier: it supplies at most one product.
// The product side owns the foreign key, so the exclusivity is a unique
// index on produits.fournisseur_id.
type Fournisseur struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Nom       string `json:"nom" gorm:"not null" validate:"required,min=2,max=100"`
	Email     string `json:"email,omitempty" gorm:"index" validate:"omitempty,email"`
	Telephone string `json:"telephone,omitempty" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Adresse   string `json:"adresse,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`

	Produit *Produit `json:"-" gorm:"foreignKey:FournisseurID"`

	DateCreation     time.Time `json:"dateCreation" gorm:"not null;<-:create"`
	DateModification time.Time `json:"dateModification" gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (Fournisseur) TableName() string {
	return "fournisseurs"
}

// Valider checks the field constraints of the supplier before persistence.
func (f *Fournisseur) Valider() error {
	return checkStruct(f)
}

// Horodater stamps the lifecycle timestamps.
func (f *Fournisseur) Horodater(now time.Time) {
	if f.ID == 0 {
		f.DateCreation = now
	}
	f.DateModification = now
}
