package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)
var _ repository.LaboratoryRepository = (*LaboratoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.Description), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	return r.getOne(`SELECT id, name, COALESCE(description, ''), created_at FROM categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre exacto (chequeo de duplicados).
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	return r.getOne(`SELECT id, name, COALESCE(description, ''), created_at FROM categories WHERE LOWER(name) = LOWER($1)`, name)
}

func (r *CategoryRepo) getOne(query string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(context.Background(), query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List lista las categorías con el total de productos de cada una.
func (r *CategoryRepo) List() ([]*repository.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.name, COALESCE(c.description, ''), c.created_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category = c.name
		GROUP BY c.id, c.name, c.description, c.created_at
		ORDER BY c.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*repository.CategoryWithCount
	for rows.Next() {
		var it repository.CategoryWithCount
		if err := rows.Scan(&it.Category.ID, &it.Category.Name, &it.Category.Description, &it.Category.CreatedAt, &it.Products); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update actualiza nombre y descripción de una categoría.
func (r *CategoryRepo) Update(c *entity.Category) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina una categoría por ID.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// LaboratoryRepo implementación del puerto LaboratoryRepository sobre PostgreSQL.
type LaboratoryRepo struct {
	q Querier
}

// NewLaboratoryRepository construye el adaptador de laboratorios.
func NewLaboratoryRepository(q Querier) *LaboratoryRepo {
	return &LaboratoryRepo{q: q}
}

// Create persiste un laboratorio nuevo.
func (r *LaboratoryRepo) Create(l *entity.Laboratory) error {
	query := `
		INSERT INTO laboratories (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Name, nullIfEmpty(l.Description), l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert laboratory: %w", err)
	}
	return nil
}

// GetByID obtiene un laboratorio por ID.
func (r *LaboratoryRepo) GetByID(id string) (*entity.Laboratory, error) {
	return r.getOne(`SELECT id, name, COALESCE(description, ''), created_at FROM laboratories WHERE id = $1`, id)
}

// GetByName obtiene un laboratorio por nombre exacto (chequeo de duplicados).
func (r *LaboratoryRepo) GetByName(name string) (*entity.Laboratory, error) {
	return r.getOne(`SELECT id, name, COALESCE(description, ''), created_at FROM laboratories WHERE LOWER(name) = LOWER($1)`, name)
}

func (r *LaboratoryRepo) getOne(query string, arg any) (*entity.Laboratory, error) {
	var l entity.Laboratory
	err := r.q.QueryRow(context.Background(), query, arg).Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get laboratory: %w", err)
	}
	return &l, nil
}

// List lista los laboratorios con el total de productos de cada uno.
func (r *LaboratoryRepo) List() ([]*repository.LaboratoryWithCount, error) {
	query := `
		SELECT l.id, l.name, COALESCE(l.description, ''), l.created_at, COUNT(p.id)
		FROM laboratories l
		LEFT JOIN products p ON p.laboratory = l.name
		GROUP BY l.id, l.name, l.description, l.created_at
		ORDER BY l.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list laboratories: %w", err)
	}
	defer rows.Close()
	var list []*repository.LaboratoryWithCount
	for rows.Next() {
		var it repository.LaboratoryWithCount
		if err := rows.Scan(&it.Laboratory.ID, &it.Laboratory.Name, &it.Laboratory.Description, &it.Laboratory.CreatedAt, &it.Products); err != nil {
			return nil, fmt.Errorf("scan laboratory: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update actualiza nombre y descripción de un laboratorio.
func (r *LaboratoryRepo) Update(l *entity.Laboratory) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE laboratories SET name = $2, description = $3 WHERE id = $1`,
		l.ID, l.Name, nullIfEmpty(l.Description),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update laboratory: %w", err)
	}
	return nil
}

// Delete elimina un laboratorio por ID.
func (r *LaboratoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM laboratories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete laboratory: %w", err)
	}
	return nil
}
