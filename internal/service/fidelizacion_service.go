package service

import (
	"context"
	"time"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"
	"kooltpv/internal/model"
	"kooltpv/internal/repository"

	"github.com/shopspring/decimal"
)

// FidelizacionService computes point deltas. It never mutates customer
// balances — that is the sales-completion flow's job in the GUI.
type FidelizacionService interface {
	PuntosPorVenta(ctx context.Context, lineas []dto.LineaTicketRequest, clienteID *uint) (decimal.Decimal, error)
	DesglosePuntos(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.DesglosePuntos, error)
}

type fidelizacionService struct {
	parametros repository.ParametroRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	tickets    repository.TicketRepository
	hoy        func() time.Time
}

func NewFidelizacionService(
	parametros repository.ParametroRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	tickets repository.TicketRepository,
) FidelizacionService {
	return &fidelizacionService{
		parametros: parametros,
		productos:  productos,
		clientes:   clientes,
		tickets:    tickets,
		hoy:        time.Now,
	}
}

// ── PuntosPorVenta ────────────────────────────────────────────────────────────
// Per-line rule priority: fixed points per unit on the product, else the
// product type's percentage, else the category's, else the global default.
// The cart sum is then multiplied by the best active promotion.

func (s *fidelizacionService) PuntosPorVenta(ctx context.Context, lineas []dto.LineaTicketRequest, _ *uint) (decimal.Decimal, error) {
	if !esVerdadero(s.parametros.Get(ctx, "fidelizacion_activa", "0")) {
		return decimal.Zero, nil
	}

	pctDefault := parseDecimal(s.parametros.Get(ctx, "porcentaje_puntos_default", "0"))
	puntosPorUnidad := parseDecimal(s.parametros.Get(ctx, "puntos_por_unidad_moneda", "1"))

	total := decimal.Zero
	for _, l := range lineas {
		producto, err := s.productos.FindBySKU(ctx, l.SKU)
		if err != nil {
			return decimal.Zero, apierror.Persistence(err, "consultando producto %s", l.SKU)
		}

		if producto != nil && producto.PuntosFijos != nil {
			total = total.Add(producto.PuntosFijos.Mul(l.Cantidad))
			continue
		}

		pct := pctDefault
		switch {
		case producto != nil && producto.Tipo != nil && producto.Tipo.PorcentajePuntos != nil:
			pct = *producto.Tipo.PorcentajePuntos
		case producto != nil && producto.Categoria != nil && producto.Categoria.PorcentajePuntos != nil:
			pct = *producto.Categoria.PorcentajePuntos
		}

		linea := l.PrecioUnitario.Mul(l.Cantidad).Mul(pct).Div(cien).Mul(puntosPorUnidad)
		total = total.Add(linea)
	}

	promos, err := s.parametros.ListPromociones(ctx)
	if err != nil {
		return decimal.Zero, apierror.Persistence(err, "consultando promociones")
	}
	return total.Mul(s.mejorMultiplicador(promos)).Round(2), nil
}

// mejorMultiplicador keeps the maximum multiplier among promotions whose date
// bounds bracket today. Blank or unparsable dates do not restrict.
func (s *fidelizacionService) mejorMultiplicador(promos []model.Promocion) decimal.Decimal {
	mejor := decimal.NewFromInt(1)
	hoy := s.hoy()
	for _, p := range promos {
		if !promoActiva(p, hoy) {
			continue
		}
		if p.Multiplicador.GreaterThan(mejor) {
			mejor = p.Multiplicador
		}
	}
	return mejor
}

func promoActiva(p model.Promocion, hoy time.Time) bool {
	if !p.Activa {
		return false
	}
	dia := hoy.Format("2006-01-02")
	if p.FechaInicio != nil {
		if inicio, err := time.Parse("2006-01-02", *p.FechaInicio); err == nil {
			if dia < inicio.Format("2006-01-02") {
				return false
			}
		}
	}
	if p.FechaFin != nil {
		if fin, err := time.Parse("2006-01-02", *p.FechaFin); err == nil {
			if dia > fin.Format("2006-01-02") {
				return false
			}
		}
	}
	return true
}

// ── DesglosePuntos ────────────────────────────────────────────────────────────
// Sums the point deltas recorded on tickets, grouped by the customer name the
// ticket stored, best-effort resolved to a customer id. Unresolved names keep
// a nil id; they are never dropped.

func (s *fidelizacionService) DesglosePuntos(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.DesglosePuntos, error) {
	tickets, err := s.tickets.ListInWindow(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "listando tickets")
	}

	res := &dto.DesglosePuntos{
		GanadosPorCliente:   []dto.PuntosCliente{},
		CanjeadosPorCliente: []dto.PuntosCliente{},
	}

	orden := make([]string, 0)
	ganados := make(map[string]decimal.Decimal)
	canjeados := make(map[string]decimal.Decimal)
	for _, t := range tickets {
		res.TotalGanados = res.TotalGanados.Add(t.PuntosGanados)
		res.TotalCanjeados = res.TotalCanjeados.Add(t.PuntosCanjeados)

		nombre := ""
		if t.ClienteNombre != nil {
			nombre = *t.ClienteNombre
		}
		if _, ok := ganados[nombre]; !ok {
			orden = append(orden, nombre)
		}
		ganados[nombre] = ganados[nombre].Add(t.PuntosGanados)
		canjeados[nombre] = canjeados[nombre].Add(t.PuntosCanjeados)
	}

	for _, nombre := range orden {
		var clienteID *uint
		if nombre != "" {
			cliente, err := s.clientes.ResolverPorNombre(ctx, nombre)
			if err != nil {
				return nil, apierror.Persistence(err, "resolviendo cliente %q", nombre)
			}
			if cliente != nil {
				id := cliente.ID
				clienteID = &id
			}
		}
		res.GanadosPorCliente = append(res.GanadosPorCliente,
			dto.PuntosCliente{ClienteID: clienteID, Nombre: nombre, Puntos: ganados[nombre]})
		res.CanjeadosPorCliente = append(res.CanjeadosPorCliente,
			dto.PuntosCliente{ClienteID: clienteID, Nombre: nombre, Puntos: canjeados[nombre]})
	}
	return res, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func esVerdadero(v string) bool {
	switch v {
	case "1", "true", "si", "sí":
		return true
	}
	return false
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
