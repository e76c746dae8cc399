package dto

import "github.com/shopspring/decimal"

// LineaIVA is one row of the tax breakdown. Base + Cuota == Total within a
// one-cent tolerance; Total is the tax-inclusive gross.
type LineaIVA struct {
	TipoIVA decimal.Decimal `json:"tipo_iva"`
	Base    decimal.Decimal `json:"base"`
	Cuota   decimal.Decimal `json:"cuota"`
	Total   decimal.Decimal `json:"total"`
}

// VentaAgrupada is one bucket of a grouped sales rollup. Nombre may be the
// empty string when the grouping key could not be resolved.
type VentaAgrupada struct {
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type DesgloseVentasResponse struct {
	PorCategoria []VentaAgrupada `json:"por_categoria"`
	PorTipo      []VentaAgrupada `json:"por_tipo"`
	PorArticulo  []VentaAgrupada `json:"por_articulo"`
}

type TotalPorAgente struct {
	Nombre string          `json:"nombre"`
	Total  decimal.Decimal `json:"total"`
}
