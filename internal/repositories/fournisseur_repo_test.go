package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
)

func TestFournisseurSaveAndFind(t *testing.T) {
	repo := repositories.NewGORMFournisseurRepository(newTestDB(t))

	fournisseur := &models.Fournisseur{
		Nom:       "Fournitout",
		Email:     "contact@fournitout.fr",
		Telephone: "+33 1 23 45 67 89",
		Adresse:   "12 rue des Claviers, Paris",
	}
	require.NoError(t, repo.Save(fournisseur))
	assert.NotZero(t, fournisseur.ID)

	fetched, err := repo.FindByID(fournisseur.ID)
	require.NoError(t, err)
	assert.Equal(t, "contact@fournitout.fr", fetched.Email)
}

func TestFournisseurEmailUnique(t *testing.T) {
	repo := repositories.NewGORMFournisseurRepository(newTestDB(t))

	require.NoError(t, repo.Save(&models.Fournisseur{Nom: "Fournitout", Email: "contact@fournitout.fr"}))

	var conflictErr *models.ConflictError
	err := repo.Save(&models.Fournisseur{Nom: "Copieur", Email: "contact@fournitout.fr"})
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "email", conflictErr.Field)

	// Suppliers without an email never conflict with each other.
	require.NoError(t, repo.Save(&models.Fournisseur{Nom: "Anonyme"}))
	require.NoError(t, repo.Save(&models.Fournisseur{Nom: "Discret"}))
}

func TestFournisseurSaveMissingIDNeverCreates(t *testing.T) {
	repo := repositories.NewGORMFournisseurRepository(newTestDB(t))

	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, repo.Save(&models.Fournisseur{ID: 999, Nom: "Fantôme"}), &notFoundErr)

	fournisseurs, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, fournisseurs)
}

func TestFournisseurDeleteDetachesProduit(t *testing.T) {
	db := newTestDB(t)
	fournisseurRepo := repositories.NewGORMFournisseurRepository(db)
	produitRepo := repositories.NewGORMProduitRepository(db)

	fournisseur := &models.Fournisseur{Nom: "Fournitout"}
	require.NoError(t, fournisseurRepo.Save(fournisseur))

	produit := produitFixture("Clavier", "29.99", 10)
	produit.FournisseurID = &fournisseur.ID
	require.NoError(t, produitRepo.Save(produit))

	require.NoError(t, fournisseurRepo.DeleteByID(fournisseur.ID))

	fetched, err := produitRepo.FindByID(produit.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.FournisseurID)

	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, fournisseurRepo.DeleteByID(fournisseur.ID), &notFoundErr)
}
