package repository

import (
	"context"
	"errors"

	"kooltpv/internal/model"

	"gorm.io/gorm"
)

type CierreRepository interface {
	CreateTx(tx *gorm.DB, c *model.Cierre) error
	SetNumeroTx(tx *gorm.DB, id uint, numero int) error
	FindByID(ctx context.Context, id uint) (*model.Cierre, error)
	// FindUltimoZ returns the most recent definitive closing, or nil when the
	// database has never been closed.
	FindUltimoZ(ctx context.Context) (*model.Cierre, error)
	List(ctx context.Context, page, limit int) ([]model.Cierre, int64, error)
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) CreateTx(tx *gorm.DB, c *model.Cierre) error {
	return tx.Create(c).Error
}

func (r *cierreRepo) SetNumeroTx(tx *gorm.DB, id uint, numero int) error {
	return tx.Model(&model.Cierre{}).Where("id = ?", id).Update("numero", numero).Error
}

func (r *cierreRepo) FindByID(ctx context.Context, id uint) (*model.Cierre, error) {
	var c model.Cierre
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cierreRepo) FindUltimoZ(ctx context.Context) (*model.Cierre, error) {
	var c model.Cierre
	err := r.db.WithContext(ctx).
		Where("tipo = 'Z'").
		Order("cerrado_en DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cierreRepo) List(ctx context.Context, page, limit int) ([]model.Cierre, int64, error) {
	var cierres []model.Cierre
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Cierre{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("cerrado_en DESC").
		Offset(offset).Limit(limit).
		Find(&cierres).Error
	return cierres, total, err
}
