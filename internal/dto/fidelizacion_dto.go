package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SimularPuntosRequest previews the points a cart would earn, so the GUI can
// show them before the sale is confirmed.
type SimularPuntosRequest struct {
	Lineas    []LineaTicketRequest `json:"lineas"     validate:"required,min=1,dive"`
	ClienteID *uint                `json:"cliente_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SimularPuntosResponse struct {
	Puntos decimal.Decimal `json:"puntos"`
}

// PuntosCliente carries the per-customer rollup. ClienteID is nil when the
// name stored on the tickets matched no customer record.
type PuntosCliente struct {
	ClienteID *uint           `json:"cliente_id"`
	Nombre    string          `json:"nombre"`
	Puntos    decimal.Decimal `json:"puntos"`
}

type DesglosePuntos struct {
	TotalGanados        decimal.Decimal `json:"total_ganados"`
	TotalCanjeados      decimal.Decimal `json:"total_canjeados"`
	GanadosPorCliente   []PuntosCliente `json:"ganados_por_cliente"`
	CanjeadosPorCliente []PuntosCliente `json:"canjeados_por_cliente"`
}
