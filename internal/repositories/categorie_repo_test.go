package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
)

func TestCategorieSaveAndFind(t *testing.T) {
	repo := repositories.NewGORMCategorieRepository(newTestDB(t))

	categorie := &models.Categorie{Nom: "Périphériques", Description: "Claviers, souris, écrans"}
	require.NoError(t, repo.Save(categorie))
	assert.NotZero(t, categorie.ID)
	assert.False(t, categorie.DateCreation.IsZero())

	fetched, err := repo.FindByID(categorie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Périphériques", fetched.Nom)

	exists, err := repo.ExistsByNom("Périphériques")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCategorieNomUnique(t *testing.T) {
	repo := repositories.NewGORMCategorieRepository(newTestDB(t))

	require.NoError(t, repo.Save(&models.Categorie{Nom: "Périphériques"}))

	var conflictErr *models.ConflictError
	err := repo.Save(&models.Categorie{Nom: "Périphériques"})
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "nom", conflictErr.Field)
}

func TestCategorieSaveMissingIDNeverCreates(t *testing.T) {
	repo := repositories.NewGORMCategorieRepository(newTestDB(t))

	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, repo.Save(&models.Categorie{ID: 999, Nom: "Fantôme"}), &notFoundErr)

	categories, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCategorieCountProduits(t *testing.T) {
	db := newTestDB(t)
	categorieRepo := repositories.NewGORMCategorieRepository(db)
	produitRepo := repositories.NewGORMProduitRepository(db)

	categorie := &models.Categorie{Nom: "Périphériques"}
	require.NoError(t, categorieRepo.Save(categorie))

	for _, nom := range []string{"Clavier", "Souris"} {
		produit := produitFixture(nom, "10.00", 1)
		require.NoError(t, produitRepo.Save(produit))
		require.NoError(t, categorieRepo.AddProduit(categorie.ID, produit.ID))
	}
	require.NoError(t, produitRepo.Save(produitFixture("Sans catégorie", "10.00", 1)))

	count, err := categorieRepo.CountProduits(categorie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCategorieDeleteCascadesToProduits(t *testing.T) {
	db := newTestDB(t)
	categorieRepo := repositories.NewGORMCategorieRepository(db)
	produitRepo := repositories.NewGORMProduitRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)

	categorie := &models.Categorie{Nom: "Périphériques"}
	require.NoError(t, categorieRepo.Save(categorie))

	p1 := produitFixture("Clavier", "10.00", 1)
	p2 := produitFixture("Souris", "20.00", 1)
	autre := produitFixture("Écran", "150.00", 1)
	for _, p := range []*models.Produit{p1, p2, autre} {
		require.NoError(t, produitRepo.Save(p))
	}
	require.NoError(t, categorieRepo.AddProduit(categorie.ID, p1.ID))
	require.NoError(t, categorieRepo.AddProduit(categorie.ID, p2.ID))

	// A tagged product must also disappear cleanly, join rows included.
	tag := &models.Tag{Nom: "Promo"}
	require.NoError(t, tagRepo.Save(tag))
	require.NoError(t, produitRepo.AddTag(p1.ID, tag.ID))

	require.NoError(t, categorieRepo.DeleteByID(categorie.ID))

	var notFoundErr *models.NotFoundError
	_, err := produitRepo.FindByID(p1.ID)
	assert.ErrorAs(t, err, &notFoundErr)
	_, err = produitRepo.FindByID(p2.ID)
	assert.ErrorAs(t, err, &notFoundErr)

	// The uncategorized product survives.
	_, err = produitRepo.FindByID(autre.ID)
	assert.NoError(t, err)

	var joins int64
	require.NoError(t, db.Table("produit_tags").Count(&joins).Error)
	assert.Equal(t, int64(0), joins)
}

func TestCategorieRemoveProduitDeletesOrphan(t *testing.T) {
	db := newTestDB(t)
	categorieRepo := repositories.NewGORMCategorieRepository(db)
	produitRepo := repositories.NewGORMProduitRepository(db)

	categorie := &models.Categorie{Nom: "Périphériques"}
	require.NoError(t, categorieRepo.Save(categorie))

	produit := produitFixture("Clavier", "10.00", 1)
	require.NoError(t, produitRepo.Save(produit))
	require.NoError(t, categorieRepo.AddProduit(categorie.ID, produit.ID))

	require.NoError(t, categorieRepo.RemoveProduit(categorie.ID, produit.ID))

	var notFoundErr *models.NotFoundError
	_, err := produitRepo.FindByID(produit.ID)
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestCategorieDeleteByIDNotFound(t *testing.T) {
	repo := repositories.NewGORMCategorieRepository(newTestDB(t))

	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, repo.DeleteByID(999), &notFoundErr)
}
