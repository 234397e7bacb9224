package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

// CatalogAPI wires HTTP transport with the catalog service. Catalog writes
// go through the import command; the HTTP surface is read-only.
type CatalogAPI struct {
	service catalogports.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

type productInfoResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Get /products?name=
// Look up a product by name
func (api *CatalogAPI) GetProductInfo(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing name query param"))
		return
	}
	info, err := api.service.GetProductInfo(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, catalogports.ErrProductNotFound) {
			respondError(c, http.StatusUnprocessableEntity, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, productInfoResponse{
		ID:       info.ID,
		Name:     info.Name,
		Quantity: info.Quantity,
		Price:    info.Price,
		Category: info.Category,
	})
}

// Get /categories
// List all category names
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	c.JSON(http.StatusOK, gin.H{"categories": names})
}
