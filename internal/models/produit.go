package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produit represents a catalog product. It owns all foreign keys of its
// relations: the optional category it belongs to, the optional exclusive
// supplier (one supplier supplies at most one product, enforced by the
// unique index on FournisseurID) and the many-to-many tag set stored in
// the produit_tags join table.
//
// Relations are never serialized to JSON to avoid cyclic payloads; they are
// surfaced through dedicated association endpoints instead.
type Produit struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Nom           string          `json:"nom" gorm:"not null;index:idx_nom" validate:"required,min=3,max=100"`
	Description   string          `json:"description,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Prix          decimal.Decimal `json:"prix" gorm:"type:decimal(10,2);not null;index:idx_prix" validate:"required,gt=0"`
	QuantiteStock int             `json:"quantiteStock" gorm:"not null;default:0" validate:"gte=0"`

	CategorieID   *uint        `json:"-" gorm:"index"`
	Categorie     *Categorie   `json:"-"`
	FournisseurID *uint        `json:"-" gorm:"uniqueIndex"`
	Fournisseur   *Fournisseur `json:"-"`
	Tags          []*Tag       `json:"-" gorm:"many2many:produit_tags"`

	DateCreation     time.Time `json:"dateCreation" gorm:"not null;<-:create"`
	DateModification time.Time `json:"dateModification" gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (Produit) TableName() string {
	return "produits"
}

// Valider checks the field constraints of the product before persistence.
func (p *Produit) Valider() error {
	return checkStruct(p)
}

// Horodater stamps the lifecycle timestamps. The creation date is set once,
// on first persist; the modification date is bumped on every write.
func (p *Produit) Horodater(now time.Time) {
	if p.ID == 0 {
		p.DateCreation = now
	}
	p.DateModification = now
}

// AjouterTag associates a tag with the product, keeping both sides of the
// bidirectional relation consistent. Duplicates are ignored.
func (p *Produit) AjouterTag(t *Tag) {
	for _, existing := range p.Tags {
		if existing == t || (t.ID != 0 && existing.ID == t.ID) {
			return
		}
	}
	p.Tags = append(p.Tags, t)
	t.Produits = append(t.Produits, p)
}

// RetirerTag removes a tag association, on both sides.
func (p *Produit) RetirerTag(t *Tag) {
	for i, existing := range p.Tags {
		if existing == t || (t.ID != 0 && existing.ID == t.ID) {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			break
		}
	}
	for i, existing := range t.Produits {
		if existing == p || (p.ID != 0 && existing.ID == p.ID) {
			t.Produits = append(t.Produits[:i], t.Produits[i+1:]...)
			break
		}
	}
}
