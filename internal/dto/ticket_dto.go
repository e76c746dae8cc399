package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaTicketRequest struct {
	SKU            string          `json:"sku"             validate:"required"`
	Nombre         string          `json:"nombre"          validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	TipoIVA        decimal.Decimal `json:"tipo_iva"        validate:"min=0"`
}

type GuardarTicketRequest struct {
	Lineas          []LineaTicketRequest `json:"lineas"           validate:"required,min=1,dive"`
	MetodoPago      string               `json:"metodo_pago"      validate:"required,oneof=efectivo tarjeta web"`
	Entregado       decimal.Decimal      `json:"entregado"        validate:"min=0"`
	ClienteID       *uint                `json:"cliente_id"`
	PuntosCanjeados decimal.Decimal      `json:"puntos_canjeados" validate:"min=0"`
	// OfflineID deduplicates retries of sales recorded while offline.
	OfflineID *string `json:"offline_id" validate:"omitempty,uuid"`
}

type VentanaRequest struct {
	Desde string `form:"desde" validate:"required"` // RFC 3339
	Hasta string `form:"hasta" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaTicketResponse struct {
	SKU            string          `json:"sku"`
	Nombre         string          `json:"nombre"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	TipoIVA        decimal.Decimal `json:"tipo_iva"`
}

type TicketResponse struct {
	ID              uint                  `json:"id"`
	TicketNo        int64                 `json:"ticket_no"`
	TicketSeq       int                   `json:"ticket_seq"`
	Fecha           string                `json:"fecha"`
	Cajero          string                `json:"cajero"`
	ClienteID       *uint                 `json:"cliente_id"`
	ClienteNombre   *string               `json:"cliente_nombre"`
	Lineas          []LineaTicketResponse `json:"lineas"`
	Total           decimal.Decimal       `json:"total"`
	MetodoPago      string                `json:"metodo_pago"`
	Entregado       decimal.Decimal       `json:"entregado"`
	Cambio          decimal.Decimal       `json:"cambio"`
	PuntosGanados   decimal.Decimal       `json:"puntos_ganados"`
	PuntosCanjeados decimal.Decimal       `json:"puntos_canjeados"`
	SaldoPuntos     *decimal.Decimal      `json:"saldo_puntos"`
	CierreID        *uint                 `json:"cierre_id"`
}

type TicketListResponse struct {
	Data  []TicketResponse `json:"data"`
	Total int              `json:"total"`
}
