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

// CatalogUseCase administra los catálogos auxiliares (categorías y laboratorios).
// Las dos entidades comparten forma y reglas: nombre único y no se borran
// mientras algún producto las referencie.
type CatalogUseCase struct {
	categoryRepo   repository.CategoryRepository
	laboratoryRepo repository.LaboratoryRepository
	productRepo    repository.ProductRepository
	log            *logger.Logger
}

// NewCatalogUseCase construye el caso de uso con los puertos de persistencia.
func NewCatalogUseCase(
	categoryRepo repository.CategoryRepository,
	laboratoryRepo repository.LaboratoryRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo:   categoryRepo,
		laboratoryRepo: laboratoryRepo,
		productRepo:    productRepo,
		log:            log,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

// CreateCategory registra una categoría nueva con nombre único.
func (uc *CatalogUseCase) CreateCategory(in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.categoryRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	uc.log.Info().Str("name", category.Name).Msg("categoría creada")
	return &dto.CatalogItemResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListCategories lista las categorías con el total de productos de cada una.
func (uc *CatalogUseCase) ListCategories() ([]dto.CatalogItemResponse, error) {
	items, err := uc.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CatalogItemResponse{
			ID:          it.Category.ID,
			Name:        it.Category.Name,
			Description: it.Category.Description,
			Products:    it.Products,
			CreatedAt:   it.Category.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// UpdateCategory actualiza nombre y descripción de una categoría.
func (uc *CatalogUseCase) UpdateCategory(id string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != category.Name {
		existing, err := uc.categoryRepo.GetByName(in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}

	category.Name = in.Name
	category.Description = in.Description
	if err := uc.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return &dto.CatalogItemResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
	}, nil
}

// DeleteCategory elimina una categoría sin productos asociados.
func (uc *CatalogUseCase) DeleteCategory(id string) error {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}

	count, err := uc.productRepo.CountByCategory(category.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflictInUse
	}

	if err := uc.categoryRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Info().Str("name", category.Name).Msg("categoría eliminada")
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Laboratorios
// ──────────────────────────────────────────────────────────────────────────────

// CreateLaboratory registra un laboratorio nuevo con nombre único.
func (uc *CatalogUseCase) CreateLaboratory(in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.laboratoryRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	laboratory := &entity.Laboratory{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.laboratoryRepo.Create(laboratory); err != nil {
		return nil, err
	}
	uc.log.Info().Str("name", laboratory.Name).Msg("laboratorio creado")
	return &dto.CatalogItemResponse{
		ID:          laboratory.ID,
		Name:        laboratory.Name,
		Description: laboratory.Description,
		CreatedAt:   laboratory.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListLaboratories lista los laboratorios con el total de productos de cada uno.
func (uc *CatalogUseCase) ListLaboratories() ([]dto.CatalogItemResponse, error) {
	items, err := uc.laboratoryRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CatalogItemResponse{
			ID:          it.Laboratory.ID,
			Name:        it.Laboratory.Name,
			Description: it.Laboratory.Description,
			Products:    it.Products,
			CreatedAt:   it.Laboratory.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// UpdateLaboratory actualiza nombre y descripción de un laboratorio.
func (uc *CatalogUseCase) UpdateLaboratory(id string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	laboratory, err := uc.laboratoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if laboratory == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != laboratory.Name {
		existing, err := uc.laboratoryRepo.GetByName(in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}

	laboratory.Name = in.Name
	laboratory.Description = in.Description
	if err := uc.laboratoryRepo.Update(laboratory); err != nil {
		return nil, err
	}
	return &dto.CatalogItemResponse{
		ID:          laboratory.ID,
		Name:        laboratory.Name,
		Description: laboratory.Description,
		CreatedAt:   laboratory.CreatedAt.Format(time.RFC3339),
	}, nil
}

// DeleteLaboratory elimina un laboratorio sin productos asociados.
func (uc *CatalogUseCase) DeleteLaboratory(id string) error {
	laboratory, err := uc.laboratoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if laboratory == nil {
		return domain.ErrNotFound
	}

	count, err := uc.productRepo.CountByLaboratory(laboratory.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflictInUse
	}

	if err := uc.laboratoryRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Info().Str("name", laboratory.Name).Msg("laboratorio eliminado")
	return nil
}
