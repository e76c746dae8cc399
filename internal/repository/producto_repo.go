package repository

import (
	"context"
	"errors"

	"kooltpv/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository is the read-side view of the catalog. Product CRUD is the
// GUI's business; the engine only resolves SKUs for aggregation and loyalty.
type ProductoRepository interface {
	FindBySKU(ctx context.Context, sku string) (*model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

// FindBySKU returns nil, nil on a miss — an unresolvable SKU is not an error
// for the callers (they bucket it under the empty string or fall through to
// the default loyalty percentage).
func (r *productoRepo) FindBySKU(ctx context.Context, sku string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").Preload("Tipo").Preload("Proveedor").
		Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = ?", true).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}
