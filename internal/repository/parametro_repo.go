package repository

import (
	"context"
	"errors"

	"kooltpv/internal/model"

	"gorm.io/gorm"
)

// ParametroRepository is the configuration-provider surface: loyalty toggles,
// percentages and promotions. The engine reads, the GUI writes.
type ParametroRepository interface {
	Get(ctx context.Context, clave, def string) string
	ListPromociones(ctx context.Context) ([]model.Promocion, error)
}

type parametroRepo struct{ db *gorm.DB }

func NewParametroRepository(db *gorm.DB) ParametroRepository { return &parametroRepo{db: db} }

// Get returns the stored value or def when the key is absent or unreadable.
func (r *parametroRepo) Get(ctx context.Context, clave, def string) string {
	var p model.Parametro
	err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || err != nil {
		return def
	}
	return p.Valor
}

func (r *parametroRepo) ListPromociones(ctx context.Context) ([]model.Promocion, error) {
	var promos []model.Promocion
	err := r.db.WithContext(ctx).
		Where("activa = ?", true).
		Find(&promos).Error
	return promos, err
}
