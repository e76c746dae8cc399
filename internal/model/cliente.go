package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cliente is the loyalty-card holder. The engine computes point deltas only;
// applying them to Puntos is the sales-completion flow's responsibility.
type Cliente struct {
	ID        uint    `gorm:"primaryKey"`
	Nombre    string  `gorm:"index;not null"`
	Tarjeta   *string `gorm:"uniqueIndex"`
	Telefono  *string
	Email     *string
	Puntos    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Promocion multiplies earned points while active. Dates are stored as
// YYYY-MM-DD strings; blank or unparsable dates do not restrict the promotion.
type Promocion struct {
	ID            uint            `gorm:"primaryKey"`
	Nombre        string          `gorm:"not null"`
	FechaInicio   *string         `gorm:"type:varchar(10)"`
	FechaFin      *string         `gorm:"type:varchar(10)"`
	Multiplicador decimal.Decimal `gorm:"type:decimal(5,2);not null;default:1"`
	Activa        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Promocion) TableName() string { return "promociones" }
