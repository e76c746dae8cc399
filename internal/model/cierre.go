package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cierre is an immutable snapshot of aggregated sales over a window bounded by
// the previous definitive closing (exclusive) and the closure instant.
// Tipo: "Z" (definitivo — tags covered tickets) | "X" (informativo).
// Rows are append-only: never updated or deleted in normal operation.
type Cierre struct {
	ID uint `gorm:"primaryKey"`
	// Numero is the display number; self-referenced to ID at creation.
	Numero    int       `gorm:"not null;index"`
	Fecha     string    `gorm:"type:varchar(10);not null;index"` // YYYY-MM-DD
	CerradoEn time.Time `gorm:"not null;index"`
	Tipo      string    `gorm:"type:varchar(1);not null"`
	// TicketDesde / TicketHasta bound the covered ticket_no range (0 when empty).
	TicketDesde int64           `gorm:"not null;default:0"`
	TicketHasta int64           `gorm:"not null;default:0"`
	NumTickets  int             `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Resumen keeps the full serialized summary (JSON) for audit. The structured
	// columns plus live recomputation are authoritative, never this blob.
	Resumen   string `gorm:"type:text;not null"`
	Cajero    string `gorm:"not null"`
	Notas     *string
	CreatedAt time.Time

	Tickets []Ticket `gorm:"foreignKey:CierreID"`
}

func (Cierre) TableName() string { return "cierres" }
