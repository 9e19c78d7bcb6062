package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/normalize"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, price, stock, stock_minimum,
	category, laboratory, requires_prescription, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, description, price, stock, stock_minimum, category, laboratory, requires_prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Code, p.Name, p.Description, p.Price, p.Stock, p.StockMinimum,
		p.Category, p.Laboratory, p.RequiresPrescription, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode obtiene un producto por su código único.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Price, &p.Stock, &p.StockMinimum,
		&p.Category, &p.Laboratory, &p.RequiresPrescription, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos editables de un producto. El stock solo se muta
// vía AdjustStock (facturación y recepción de pedidos) o de forma explícita aquí.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, stock_minimum = $6,
			category = $7, laboratory = $8, requires_prescription = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.StockMinimum,
		p.Category, p.Laboratory, p.RequiresPrescription, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// AdjustStock aplica un delta atómico sobre el stock y devuelve el valor resultante.
// El UPDATE toma el bloqueo de fila; no hay read-compute-write separado.
func (r *ProductRepo) AdjustStock(productID string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(context.Background(),
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		productID, delta,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, nil
}

// List lista todos los productos ordenados por nombre.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
}

// Search filtra por nombre o código, insensible a mayúsculas y acentos.
// La columna generada search_text guarda name || code normalizados (unaccent en el seed).
func (r *ProductRepo) Search(term string) ([]*entity.Product, error) {
	norm := normalize.Term(term)
	if norm == "" {
		return r.List()
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE search_text LIKE '%' || $1 || '%' ORDER BY name`
	return r.list(query, norm)
}

// ListLowStock devuelve los productos con stock en o bajo el mínimo, los más críticos primero.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products WHERE stock <= stock_minimum ORDER BY stock ASC`)
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Price, &p.Stock, &p.StockMinimum,
			&p.Category, &p.Laboratory, &p.RequiresPrescription, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountByCategory cuenta productos que usan una categoría (guardia de borrado del catálogo).
func (r *ProductRepo) CountByCategory(categoryName string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM products WHERE category = $1`, categoryName)
}

// CountByLaboratory cuenta productos que usan un laboratorio.
func (r *ProductRepo) CountByLaboratory(laboratoryName string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM products WHERE laboratory = $1`, laboratoryName)
}

func (r *ProductRepo) count(query string, arg any) (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// HasInvoiceLines informa si el producto aparece en alguna línea de factura.
func (r *ProductRepo) HasInvoiceLines(productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM invoice_lines WHERE product_id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice lines: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
