package repository

import (
	"context"
	"errors"

	"kooltpv/internal/model"

	"gorm.io/gorm"
)

// ClienteRepository is the read-side of the customer directory. Balance
// mutation belongs to the sales-completion flow in the GUI.
type ClienteRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Cliente, error)
	// ResolverPorNombre is the best-effort name → customer resolution used by
	// the points breakdown; returns nil, nil when no customer matches.
	ResolverPorNombre(ctx context.Context, nombre string) (*model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) FindByID(ctx context.Context, id uint) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) ResolverPorNombre(ctx context.Context, nombre string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Where("nombre = ?", nombre).
		Order("id ASC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
