package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gestion-produit/internal/database"
	"gestion-produit/internal/handlers"
	"gestion-produit/internal/models"
	"gestion-produit/internal/repositories"
	"gestion-produit/internal/services"
)

// setupApp builds a Fiber app over a private in-memory SQLite database with
// the full catalog wired: products, categories, suppliers and tags.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	produitRepo := repositories.NewGORMProduitRepository(db)
	produitService := services.NewProduitService(produitRepo, nil) // nil: events disabled

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewProduitHandler(produitService).RegisterRoutes(api)
	handlers.NewCategorieHandler(repositories.NewGORMCategorieRepository(db)).RegisterRoutes(api)
	handlers.NewFournisseurHandler(repositories.NewGORMFournisseurRepository(db)).RegisterRoutes(api)
	handlers.NewTagHandler(repositories.NewGORMTagRepository(db)).RegisterRoutes(api)

	return app
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeProduit(t *testing.T, resp *http.Response) models.Produit {
	t.Helper()
	var produit models.Produit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&produit))
	resp.Body.Close()
	return produit
}

func decodeProduits(t *testing.T, resp *http.Response) []models.Produit {
	t.Helper()
	var produits []models.Produit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&produits))
	resp.Body.Close()
	return produits
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/produits/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "API Produits fonctionne correctement!", string(body))
}

func TestProduitLifecycle(t *testing.T) {
	app := setupApp(t)

	// POST creates the product with a generated id and timestamps.
	resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom":           "Clavier",
		"prix":          29.99,
		"quantiteStock": 10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeProduit(t, resp)
	assert.NotZero(t, created.ID)
	assert.False(t, created.DateCreation.IsZero())
	assert.True(t, created.Prix.Equal(decimal.RequireFromString("29.99")))

	// PATCH /stock changes only the stock quantity.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/produits/%d/stock", created.ID), map[string]interface{}{
		"quantiteStock": 3,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeProduit(t, resp)
	assert.Equal(t, 3, patched.QuantiteStock)
	assert.Equal(t, "Clavier", patched.Nom)
	assert.True(t, patched.Prix.Equal(created.Prix))

	// DELETE then GET: 204 followed by 404.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/produits/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/produits/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProduitValidation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom":           "Clavier",
		"prix":          29.99,
		"quantiteStock": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()
	assert.Contains(t, errResp.Errors, "quantiteStock")

	// Missing price is rejected as well.
	resp = doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom": "Sans prix",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRechercheParNom(t *testing.T) {
	app := setupApp(t)

	for _, nom := range []string{"Produit A", "PRODUIT B", "unproduit", "Article C"} {
		resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
			"nom": nom, "prix": 10.0, "quantiteStock": 1,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/produits/recherche?nom=prod", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	produits := decodeProduits(t, resp)
	assert.Len(t, produits, 3)

	// The nom parameter is mandatory.
	resp = doJSON(t, app, http.MethodGet, "/api/produits/recherche", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestEnStockTrieParNom(t *testing.T) {
	app := setupApp(t)

	fixtures := []map[string]interface{}{
		{"nom": "Zeta", "prix": 10.0, "quantiteStock": 5},
		{"nom": "Alpha", "prix": 10.0, "quantiteStock": 2},
		{"nom": "Gamma", "prix": 10.0, "quantiteStock": 0},
	}
	for _, f := range fixtures {
		resp := doJSON(t, app, http.MethodPost, "/api/produits/", f)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/produits/en-stock", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	produits := decodeProduits(t, resp)
	require.Len(t, produits, 2)
	assert.Equal(t, "Alpha", produits[0].Nom)
	assert.Equal(t, "Zeta", produits[1].Nom)
}

func TestStockFaibleEtPrixRange(t *testing.T) {
	app := setupApp(t)

	fixtures := []map[string]interface{}{
		{"nom": "Rare", "prix": 5.0, "quantiteStock": 1},
		{"nom": "Courant", "prix": 15.0, "quantiteStock": 100},
	}
	for _, f := range fixtures {
		resp := doJSON(t, app, http.MethodPost, "/api/produits/", f)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/produits/stock-faible?seuil=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	produits := decodeProduits(t, resp)
	require.Len(t, produits, 1)
	assert.Equal(t, "Rare", produits[0].Nom)

	resp = doJSON(t, app, http.MethodGet, "/api/produits/prix?min=10&max=20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	produits = decodeProduits(t, resp)
	require.Len(t, produits, 1)
	assert.Equal(t, "Courant", produits[0].Nom)

	resp = doJSON(t, app, http.MethodGet, "/api/produits/prix?min=abc&max=20", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMettreAJourProduit(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom": "Clavier", "description": "AZERTY", "prix": 29.99, "quantiteStock": 10,
	})
	created := decodeProduit(t, resp)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/produits/%d", created.ID), map[string]interface{}{
		"nom": "Clavier gamer", "description": "RGB", "prix": 49.99, "quantiteStock": 4,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeProduit(t, resp)
	assert.Equal(t, "Clavier gamer", updated.Nom)
	assert.Equal(t, 4, updated.QuantiteStock)
	assert.True(t, updated.DateModification.After(created.DateModification) ||
		updated.DateModification.Equal(created.DateModification))

	// Updating a nonexistent id yields 404, never a new row.
	resp = doJSON(t, app, http.MethodPut, "/api/produits/9999", map[string]interface{}{
		"nom": "Fantôme", "prix": 1.0, "quantiteStock": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/produits/", nil)
	produits := decodeProduits(t, resp)
	assert.Len(t, produits, 1)
}

func TestPatchStockChampManquant(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom": "Clavier", "prix": 29.99, "quantiteStock": 10,
	})
	created := decodeProduit(t, resp)

	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/produits/%d/stock", created.ID), map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A negative quantity is a validation failure.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/produits/%d/stock", created.ID), map[string]interface{}{
		"quantiteStock": -1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/produits/9999/stock", map[string]interface{}{
		"quantiteStock": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSupprimerTousLesProduits(t *testing.T) {
	app := setupApp(t)

	for _, nom := range []string{"Un produit", "Deux produits"} {
		resp := doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
			"nom": nom, "prix": 10.0, "quantiteStock": 1,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodDelete, "/api/produits/", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/produits/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeProduits(t, resp))
}

func TestCategorieCascadeSuppression(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/categories/", map[string]interface{}{
		"nom": "Périphériques",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var categorie models.Categorie
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categorie))
	resp.Body.Close()

	var produitIDs []uint
	for _, nom := range []string{"Clavier", "Souris"} {
		resp = doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
			"nom": nom, "prix": 10.0, "quantiteStock": 1,
		})
		produit := decodeProduit(t, resp)
		produitIDs = append(produitIDs, produit.ID)

		resp = doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/categories/%d/produits/%d", categorie.ID, produit.ID), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	}

	// The category reports its product count.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/categories/%d", categorie.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		NombreProduits int64 `json:"nombreProduits"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	resp.Body.Close()
	assert.Equal(t, int64(2), detail.NombreProduits)

	// Deleting the category removes its products entirely.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", categorie.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	for _, id := range produitIDs {
		resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/produits/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestCategorieRetirerProduitOrphelin(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/categories/", map[string]interface{}{"nom": "Écrans"})
	var categorie models.Categorie
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categorie))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom": "Moniteur", "prix": 150.0, "quantiteStock": 3,
	})
	produit := decodeProduit(t, resp)

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/categories/%d/produits/%d", categorie.ID, produit.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/categories/%d/produits/%d", categorie.ID, produit.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/produits/%d", produit.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTagConflitEtAssociation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/tags/", map[string]interface{}{
		"nom": "Promo", "couleur": "#FF5733",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var tag models.Tag
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tag))
	resp.Body.Close()

	// A duplicate tag name is a conflict.
	resp = doJSON(t, app, http.MethodPost, "/api/tags/", map[string]interface{}{"nom": "Promo"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
		"nom": "Clavier", "prix": 29.99, "quantiteStock": 10,
	})
	produit := decodeProduit(t, resp)

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/produits/%d/tags/%d", produit.ID, tag.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/produits/%d/tags/%d", produit.ID, tag.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/produits/%d/tags/%d", produit.ID, uint(999)), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFournisseurExclusivite(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/fournisseurs/", map[string]interface{}{
		"nom": "Fournitout", "email": "contact@fournitout.fr",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var fournisseur models.Fournisseur
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fournisseur))
	resp.Body.Close()

	// A duplicate email is a conflict.
	resp = doJSON(t, app, http.MethodPost, "/api/fournisseurs/", map[string]interface{}{
		"nom": "Copieur", "email": "contact@fournitout.fr",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var produitIDs []uint
	for _, nom := range []string{"Premier", "Second"} {
		resp = doJSON(t, app, http.MethodPost, "/api/produits/", map[string]interface{}{
			"nom": nom + " produit", "prix": 10.0, "quantiteStock": 1,
		})
		produitIDs = append(produitIDs, decodeProduit(t, resp).ID)
	}

	resp = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/produits/%d/fournisseur/%d", produitIDs[0], fournisseur.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The supplier is exclusive to its product.
	resp = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/produits/%d/fournisseur/%d", produitIDs[1], fournisseur.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}
