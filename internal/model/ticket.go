package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is one completed sale. Rows are immutable after creation except for
// CierreID, which is stamped exactly once by a definitive (Z) closing.
// MetodoPago: "efectivo" | "tarjeta" | "web"
type Ticket struct {
	ID uint `gorm:"primaryKey"`
	// TicketNo is the global sequential number, unique and strictly increasing.
	TicketNo int64 `gorm:"uniqueIndex;not null"`
	// TicketSeq restarts at 1 each day.
	TicketSeq     int       `gorm:"not null"`
	Fecha         time.Time `gorm:"index;not null"`
	Cajero        string    `gorm:"not null;index"`
	ClienteID     *uint     `gorm:"index"`
	ClienteNombre *string
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago    string          `gorm:"type:varchar(20);not null;default:'efectivo'"`
	Entregado     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cambio        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// PuntosGanados / PuntosCanjeados are deltas; the customer directory owns
	// the running balance. SaldoPuntos captures the balance at sale time.
	PuntosGanados   decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	PuntosCanjeados decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	SaldoPuntos     *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// CierreID is null until a Z closing covers this ticket, then immutable.
	CierreID *uint `gorm:"index"`
	// OfflineID deduplicates sales recorded while the GUI was offline.
	OfflineID *string `gorm:"uniqueIndex"`
	CreatedAt time.Time

	Lineas []TicketLinea `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Cierre *Cierre       `gorm:"foreignKey:CierreID"`
}

func (Ticket) TableName() string { return "tickets" }

// TicketLinea is one product line. Owned by its Ticket (cascade delete).
// PrecioUnitario is tax-inclusive; TipoIVA is the percentage applied.
type TicketLinea struct {
	ID       uint   `gorm:"primaryKey"`
	TicketID uint   `gorm:"not null;index"`
	SKU      string `gorm:"not null;index"`
	Nombre   string `gorm:"not null"`
	// Cantidad admits fractional quantities (weighed goods).
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TipoIVA        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0;column:tipo_iva"`
}

func (TicketLinea) TableName() string { return "ticket_lineas" }
