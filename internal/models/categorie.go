package models

import "time"

// Categorie groups products. Deleting a category cascades to its products,
// and a product detached from its category's collection is deleted as well
// (orphan removal); both behaviors are executed explicitly by the repository
// inside the parent transaction.
type Categorie struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Nom         string `json:"nom" gorm:"not null;uniqueIndex" validate:"required"`
	Description string `json:"description,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`

	Produits []*Produit `json:"-" gorm:"foreignKey:CategorieID"`

	DateCreation     time.Time `json:"dateCreation" gorm:"not null;<-:create"`
	DateModification time.Time `json:"dateModification" gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (Categorie) TableName() string {
	return "categories"
}

// Valider checks the field constraints of the category before persistence.
func (c *Categorie) Valider() error {
	return checkStruct(c)
}

// Horodater stamps the lifecycle timestamps.
func (c *Categorie) Horodater(now time.Time) {
	if c.ID == 0 {
		c.DateCreation = now
	}
	c.DateModification = now
}

// AjouterProduit adds a product to the category's collection and points the
// product back at the category.
func (c *Categorie) AjouterProduit(p *Produit) {
	for _, existing := range c.Produits {
		if existing == p || (p.ID != 0 && existing.ID == p.ID) {
			return
		}
	}
	c.Produits = append(c.Produits, p)
	p.Categorie = c
	if c.ID != 0 {
		id := c.ID
		p.CategorieID = &id
	}
}

// RetirerProduit detaches a product from the category's collection. The
// persistence layer treats a detached product as an orphan and deletes it.
func (c *Categorie) RetirerProduit(p *Produit) {
	for i, existing := range c.Produits {
		if existing == p || (p.ID != 0 && existing.ID == p.ID) {
			c.Produits = append(c.Produits[:i], c.Produits[i+1:]...)
			break
		}
	}
	p.Categorie = nil
	p.CategorieID = nil
}
