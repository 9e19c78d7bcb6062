package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// ProductUseCase aplica reglas de negocio para productos del inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
	log  *logger.Logger
}

// NewProductUseCase construye el caso de uso con el puerto de persistencia.
func NewProductUseCase(repo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, log: log}
}

// Create registra un producto nuevo. El código debe ser único.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		Code:                 in.Code,
		Name:                 in.Name,
		Description:          in.Description,
		Price:                in.Price,
		Stock:                in.Stock,
		StockMinimum:         in.StockMinimum,
		Category:             in.Category,
		Laboratory:           in.Laboratory,
		RequiresPrescription: in.RequiresPrescription,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	uc.log.Info().Str("code", product.Code).Str("name", product.Name).Msg("producto creado")
	return productToResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return productToResponse(product), nil
}

// List lista todos los productos.
func (uc *ProductUseCase) List() ([]dto.ProductResponse, error) {
	products, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

// Search busca productos por nombre o código, sin distinguir mayúsculas ni acentos.
func (uc *ProductUseCase) Search(term string) ([]dto.ProductResponse, error) {
	if term == "" {
		return uc.List()
	}
	products, err := uc.repo.Search(term)
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

// ListLowStock lista los productos en o por debajo de su umbral de alerta.
func (uc *ProductUseCase) ListLowStock() ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	return productsToResponses(products), nil
}

// VerifyCode informa si ya existe un producto con el código dado.
func (uc *ProductUseCase) VerifyCode(code string) (*dto.VerifyCodeResponse, error) {
	existing, err := uc.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyCodeResponse{Exists: existing != nil}, nil
}

// Update actualiza un producto existente. Si cambia el código, debe seguir siendo único.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Code != product.Code {
		existing, err := uc.repo.GetByCode(in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}

	product.Code = in.Code
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.StockMinimum = in.StockMinimum
	product.Category = in.Category
	product.Laboratory = in.Laboratory
	product.RequiresPrescription = in.RequiresPrescription
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// Delete elimina un producto. Producto con líneas de factura no se borra:
// se preserva la integridad del histórico de ventas.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	used, err := uc.repo.HasInvoiceLines(id)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrConflictInUse
	}

	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.log.Info().Str("code", product.Code).Msg("producto eliminado")
	return nil
}

func productToResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID,
		Code:                 p.Code,
		Name:                 p.Name,
		Description:          p.Description,
		Price:                p.Price,
		Stock:                p.Stock,
		StockMinimum:         p.StockMinimum,
		Category:             p.Category,
		Laboratory:           p.Laboratory,
		RequiresPrescription: p.RequiresPrescription,
		LowStock:             p.LowStock(),
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
}

func productsToResponses(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *productToResponse(p))
	}
	return out
}
