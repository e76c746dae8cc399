package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is the read-side catalog entry consumed by the aggregator and the
// loyalty ledger. Catalog CRUD lives in the desktop GUI; this engine only reads.
type Producto struct {
	ID          uint            `gorm:"primaryKey"`
	SKU         string          `gorm:"uniqueIndex;not null"`
	Nombre      string          `gorm:"index;not null"`
	CategoriaID *uint           `gorm:"index"`
	TipoID      *uint           `gorm:"index"`
	ProveedorID *uint           `gorm:"index"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TipoIVA     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:21;column:tipo_iva"`
	// PuntosFijos, when set, overrides every percentage rule: fixed points per unit.
	PuntosFijos *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Activo      bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria    `gorm:"foreignKey:CategoriaID"`
	Tipo      *TipoProducto `gorm:"foreignKey:TipoID"`
	Proveedor *Proveedor    `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }

// Categoria classifies products. PorcentajePuntos, when set, is the loyalty
// percentage applied to products of this category lacking stronger rules.
type Categoria struct {
	ID               uint             `gorm:"primaryKey"`
	Nombre           string           `gorm:"uniqueIndex;not null"`
	PorcentajePuntos *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Activo           bool             `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Categoria) TableName() string { return "categorias" }

// TipoProducto is a finer-grain classification than Categoria; its loyalty
// percentage takes precedence over the category's.
type TipoProducto struct {
	ID               uint             `gorm:"primaryKey"`
	Nombre           string           `gorm:"uniqueIndex;not null"`
	PorcentajePuntos *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Activo           bool             `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (TipoProducto) TableName() string { return "tipos_producto" }

// Proveedor is a supplier; only its name is consumed here, for per-provider
// sales rollups.
type Proveedor struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"uniqueIndex;not null"`
	CIF       *string
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
