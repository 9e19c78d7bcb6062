package dto

// CreateCatalogItemRequest body para POST /api/categorias y POST /api/laboratorios.
type CreateCatalogItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CatalogItemResponse categoría o laboratorio con total de productos.
type CatalogItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Products    int    `json:"products"`
	CreatedAt   string `json:"created_at"`
}
