package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"gestion-produit/internal/models"
)

// MemoryProduitRepository is an in-memory implementation of ProduitRepository,
// useful for running the API without a database and for tests. It applies the
// same validation, timestamping and exclusivity rules as the GORM version.
type MemoryProduitRepository struct {
	produits map[uint]models.Produit
	tags     map[uint]map[uint]struct{} // produit id -> set of tag ids
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProduitRepository creates a new instance of MemoryProduitRepository.
func NewMemoryProduitRepository() *MemoryProduitRepository {
	return &MemoryProduitRepository{
		produits: make(map[uint]models.Produit),
		tags:     make(map[uint]map[uint]struct{}),
	}
}

// Save inserts or updates a product.
func (r *MemoryProduitRepository) Save(produit *models.Produit) error {
	if err := produit.Valider(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if produit.FournisseurID != nil {
		for id, p := range r.produits {
			if id != produit.ID && p.FournisseurID != nil && *p.FournisseurID == *produit.FournisseurID {
				return &models.ConflictError{Field: "fournisseur", Value: fmt.Sprint(*produit.FournisseurID)}
			}
		}
	}

	if produit.ID != 0 {
		if _, ok := r.produits[produit.ID]; !ok {
			return &models.NotFoundError{Entity: "Produit", ID: produit.ID}
		}
		produit.Horodater(time.Now())
	} else {
		// stamp while the id is still zero so the creation date is set
		produit.Horodater(time.Now())
		r.nextID++
		produit.ID = r.nextID
	}
	r.produits[produit.ID] = *produit
	return nil
}

// FindByID returns a product by its id.
func (r *MemoryProduitRepository) FindByID(id uint) (*models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produit, ok := r.produits[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "Produit", ID: id}
	}
	return &produit, nil
}

// FindAll returns all products.
func (r *MemoryProduitRepository) FindAll() ([]models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produits := make([]models.Produit, 0, len(r.produits))
	for _, p := range r.produits {
		produits = append(produits, p)
	}
	return produits, nil
}

// FindByNom returns a product by its exact name.
func (r *MemoryProduitRepository) FindByNom(nom string) (*models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.produits {
		if p.Nom == nom {
			produit := p
			return &produit, nil
		}
	}
	return nil, &models.NotFoundError{Entity: "Produit"}
}

// SearchByNom returns products whose name contains the fragment, ignoring case.
func (r *MemoryProduitRepository) SearchByNom(fragment string) ([]models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(fragment)
	produits := make([]models.Produit, 0)
	for _, p := range r.produits {
		if strings.Contains(strings.ToLower(p.Nom), needle) {
			produits = append(produits, p)
		}
	}
	return produits, nil
}

// FindByPrixBetween returns products priced within the inclusive bounds.
func (r *MemoryProduitRepository) FindByPrixBetween(prixMin, prixMax decimal.Decimal) ([]models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produits := make([]models.Produit, 0)
	for _, p := range r.produits {
		if p.Prix.GreaterThanOrEqual(prixMin) && p.Prix.LessThanOrEqual(prixMax) {
			produits = append(produits, p)
		}
	}
	return produits, nil
}

// FindByStockFaible returns products with a stock below the threshold.
func (r *MemoryProduitRepository) FindByStockFaible(seuil int) ([]models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produits := make([]models.Produit, 0)
	for _, p := range r.produits {
		if p.QuantiteStock < seuil {
			produits = append(produits, p)
		}
	}
	return produits, nil
}

// FindEnStock returns in-stock products ordered by name ascending.
func (r *MemoryProduitRepository) FindEnStock() ([]models.Produit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produits := make([]models.Produit, 0)
	for _, p := range r.produits {
		if p.QuantiteStock > 0 {
			produits = append(produits, p)
		}
	}
	sort.Slice(produits, func(i, j int) bool {
		return produits[i].Nom < produits[j].Nom
	})
	return produits, nil
}

// CountByPrixGreaterThan counts products priced strictly above the value.
func (r *MemoryProduitRepository) CountByPrixGreaterThan(prix decimal.Decimal) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.produits {
		if p.Prix.GreaterThan(prix) {
			count++
		}
	}
	return count, nil
}

// ExistsByID reports whether a product with the given id exists.
func (r *MemoryProduitRepository) ExistsByID(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.produits[id]
	return ok, nil
}

// ExistsByNom reports whether a product with the given exact name exists.
func (r *MemoryProduitRepository) ExistsByNom(nom string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.produits {
		if p.Nom == nom {
			return true, nil
		}
	}
	return false, nil
}

// DeleteByID removes a product and its tag associations.
func (r *MemoryProduitRepository) DeleteByID(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.produits[id]; !ok {
		return &models.NotFoundError{Entity: "Produit", ID: id}
	}
	delete(r.produits, id)
	delete(r.tags, id)
	return nil
}

// DeleteAll clears the store.
func (r *MemoryProduitRepository) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.produits = make(map[uint]models.Produit)
	r.tags = make(map[uint]map[uint]struct{})
	return nil
}

// AddTag links a tag id to a product.
func (r *MemoryProduitRepository) AddTag(produitID, tagID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	produit, ok := r.produits[produitID]
	if !ok {
		return &models.NotFoundError{Entity: "Produit", ID: produitID}
	}
	if r.tags[produitID] == nil {
		r.tags[produitID] = make(map[uint]struct{})
	}
	r.tags[produitID][tagID] = struct{}{}
	produit.DateModification = time.Now()
	r.produits[produitID] = produit
	return nil
}

// RemoveTag unlinks a tag id from a product.
func (r *MemoryProduitRepository) RemoveTag(produitID, tagID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	produit, ok := r.produits[produitID]
	if !ok {
		return &models.NotFoundError{Entity: "Produit", ID: produitID}
	}
	delete(r.tags[produitID], tagID)
	produit.DateModification = time.Now()
	r.produits[produitID] = produit
	return nil
}

// SetFournisseur links a supplier id to a product, enforcing exclusivity.
func (r *MemoryProduitRepository) SetFournisseur(produitID, fournisseurID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	produit, ok := r.produits[produitID]
	if !ok {
		return &models.NotFoundError{Entity: "Produit", ID: produitID}
	}
	for id, p := range r.produits {
		if id != produitID && p.FournisseurID != nil && *p.FournisseurID == fournisseurID {
			return &models.ConflictError{Field: "fournisseur", Value: fmt.Sprint(fournisseurID)}
		}
	}
	produit.FournisseurID = &fournisseurID
	produit.DateModification = time.Now()
	r.produits[produitID] = produit
	return nil
}
