package service

import (
	"context"
	"sort"
	"time"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"
	"kooltpv/internal/repository"

	"github.com/shopspring/decimal"
)

// InformeService is the read-side aggregator: breakdowns by tax rate, category,
// type, article, cashier and provider over an arbitrary window. Never mutates.
type InformeService interface {
	DesgloseIVA(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.LineaIVA, error)
	DesgloseVentas(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.DesgloseVentasResponse, error)
	VentasPorCajero(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.TotalPorAgente, error)
	VentasPorProveedor(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.TotalPorAgente, error)
}

type informeService struct {
	tickets repository.TicketRepository
}

func NewInformeService(tickets repository.TicketRepository) InformeService {
	return &informeService{tickets: tickets}
}

var cien = decimal.NewFromInt(100)

// ── DesgloseIVA ───────────────────────────────────────────────────────────────
// Per distinct rate: gross = Σ qty·price; base = gross / (1 + rate/100);
// cuota = gross − base, so base + cuota always reconciles with gross exactly.

func (s *informeService) DesgloseIVA(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.LineaIVA, error) {
	lineas, err := s.tickets.LineasEnVentana(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "consultando líneas de venta")
	}

	orden := make([]string, 0, 4)
	porTipo := make(map[string]*dto.LineaIVA)
	for _, l := range lineas {
		clave := l.TipoIVA.String()
		fila, ok := porTipo[clave]
		if !ok {
			fila = &dto.LineaIVA{TipoIVA: l.TipoIVA}
			porTipo[clave] = fila
			orden = append(orden, clave)
		}
		fila.Total = fila.Total.Add(l.Cantidad.Mul(l.PrecioUnitario))
	}

	resultado := make([]dto.LineaIVA, 0, len(orden))
	for _, clave := range orden {
		fila := porTipo[clave]
		fila.Total = fila.Total.Round(2)
		if fila.TipoIVA.IsZero() {
			fila.Base = fila.Total
		} else {
			divisor := decimal.NewFromInt(1).Add(fila.TipoIVA.Div(cien))
			fila.Base = fila.Total.Div(divisor).Round(2)
		}
		fila.Cuota = fila.Total.Sub(fila.Base)
		resultado = append(resultado, *fila)
	}
	return resultado, nil
}

// ── DesgloseVentas ────────────────────────────────────────────────────────────
// Lines whose SKU resolves to no product bucket under the empty string — a
// deleted product still sold that day must not vanish from the rollup.

func (s *informeService) DesgloseVentas(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.DesgloseVentasResponse, error) {
	lineas, err := s.tickets.LineasEnVentana(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "consultando líneas de venta")
	}
	return &dto.DesgloseVentasResponse{
		PorCategoria: agrupar(lineas, func(l repository.LineaVenta) string { return l.Categoria }),
		PorTipo:      agrupar(lineas, func(l repository.LineaVenta) string { return l.Tipo }),
		PorArticulo:  agrupar(lineas, func(l repository.LineaVenta) string { return l.Articulo }),
	}, nil
}

// agrupar sums quantity and gross revenue per bucket, preserving first-seen
// order so ties keep insertion order downstream.
func agrupar(lineas []repository.LineaVenta, clave func(repository.LineaVenta) string) []dto.VentaAgrupada {
	orden := make([]string, 0)
	porClave := make(map[string]*dto.VentaAgrupada)
	for _, l := range lineas {
		k := clave(l)
		fila, ok := porClave[k]
		if !ok {
			fila = &dto.VentaAgrupada{Nombre: k}
			porClave[k] = fila
			orden = append(orden, k)
		}
		fila.Cantidad = fila.Cantidad.Add(l.Cantidad)
		fila.Total = fila.Total.Add(l.Cantidad.Mul(l.PrecioUnitario)).Round(2)
	}
	resultado := make([]dto.VentaAgrupada, 0, len(orden))
	for _, k := range orden {
		resultado = append(resultado, *porClave[k])
	}
	return resultado
}

// ── Rollups por agente ────────────────────────────────────────────────────────

func (s *informeService) VentasPorCajero(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.TotalPorAgente, error) {
	tickets, err := s.tickets.ListInWindow(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "listando tickets")
	}
	orden := make([]string, 0)
	porCajero := make(map[string]decimal.Decimal)
	for _, t := range tickets {
		if _, ok := porCajero[t.Cajero]; !ok {
			orden = append(orden, t.Cajero)
		}
		porCajero[t.Cajero] = porCajero[t.Cajero].Add(t.Total)
	}
	return ordenarPorTotal(orden, porCajero), nil
}

func (s *informeService) VentasPorProveedor(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]dto.TotalPorAgente, error) {
	lineas, err := s.tickets.LineasEnVentana(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "consultando líneas de venta")
	}
	orden := make([]string, 0)
	porProveedor := make(map[string]decimal.Decimal)
	for _, l := range lineas {
		if _, ok := porProveedor[l.Proveedor]; !ok {
			orden = append(orden, l.Proveedor)
		}
		porProveedor[l.Proveedor] = porProveedor[l.Proveedor].Add(l.Cantidad.Mul(l.PrecioUnitario))
	}
	return ordenarPorTotal(orden, porProveedor), nil
}

// ordenarPorTotal returns the buckets ordered by total descending; a stable
// sort keeps insertion order between ties.
func ordenarPorTotal(orden []string, totales map[string]decimal.Decimal) []dto.TotalPorAgente {
	resultado := make([]dto.TotalPorAgente, 0, len(orden))
	for _, nombre := range orden {
		resultado = append(resultado, dto.TotalPorAgente{Nombre: nombre, Total: totales[nombre].Round(2)})
	}
	sort.SliceStable(resultado, func(i, j int) bool {
		return resultado[i].Total.GreaterThan(resultado[j].Total)
	})
	return resultado
}
