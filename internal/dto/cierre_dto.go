package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ComputarCierreRequest struct {
	// Fecha is the day being closed (YYYY-MM-DD); defaults to today when empty.
	Fecha             string  `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Tipo              string  `json:"tipo"  validate:"required,oneof=Z X"`
	Notas             *string `json:"notas"`
	IncluirCategorias bool    `json:"incluir_categorias"`
	IncluirArticulos  bool    `json:"incluir_articulos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotalPorMetodo struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
	Web      decimal.Decimal `json:"web"`
	Total    decimal.Decimal `json:"total"`
}

// ResumenCierre is the result of ComputarCierre. CierreID is nil (and Mensaje
// set) for the structured "nothing to close" no-op — that case persists
// nothing and is not an error.
type ResumenCierre struct {
	CierreID    *uint           `json:"cierre_id"`
	Numero      int             `json:"numero,omitempty"`
	Tipo        string          `json:"tipo"`
	Fecha       string          `json:"fecha"`
	CerradoEn   string          `json:"cerrado_en,omitempty"`
	Cajero      string          `json:"cajero"`
	Notas       *string         `json:"notas,omitempty"`
	NumTickets  int             `json:"num_tickets"`
	TicketDesde int64           `json:"ticket_desde"`
	TicketHasta int64           `json:"ticket_hasta"`
	Total       decimal.Decimal `json:"total"`
	PorMetodo   TotalPorMetodo  `json:"por_metodo"`
	// PorCategoria / TopArticulos only populated when requested.
	PorCategoria []VentaAgrupada `json:"por_categoria,omitempty"`
	TopArticulos []VentaAgrupada `json:"top_articulos,omitempty"`
	Puntos       *DesglosePuntos `json:"puntos,omitempty"`
	YaCerrado    bool            `json:"already_closed"`
	Mensaje      string          `json:"message,omitempty"`
}

type CierreListItem struct {
	ID          uint            `json:"id"`
	Numero      int             `json:"numero"`
	Fecha       string          `json:"fecha"`
	CerradoEn   string          `json:"cerrado_en"`
	Tipo        string          `json:"tipo"`
	NumTickets  int             `json:"num_tickets"`
	TicketDesde int64           `json:"ticket_desde"`
	TicketHasta int64           `json:"ticket_hasta"`
	Total       decimal.Decimal `json:"total"`
	Cajero      string          `json:"cajero"`
	Notas       *string         `json:"notas"`
}

type CierreListResponse struct {
	Data  []CierreListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
