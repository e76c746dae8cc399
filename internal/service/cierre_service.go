package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"
	"kooltpv/internal/infra"
	"kooltpv/internal/model"
	"kooltpv/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CierreService is the closing engine. A closing moves Open → Computing →
// Persisted in a single transaction; there is no cancel or undo. Z closings
// tag the tickets they cover so later closings exclude them; X closings never
// mutate tickets.
type CierreService interface {
	ComputarCierre(ctx context.Context, cajero string, req dto.ComputarCierreRequest) (*dto.ResumenCierre, error)
	DetalleCierre(ctx context.Context, id uint) (*dto.ResumenCierre, error)
	Historial(ctx context.Context, page, limit int) (*dto.CierreListResponse, error)
}

type cierreService struct {
	tickets      repository.TicketRepository
	cierres      repository.CierreRepository
	informes     InformeService
	fidelizacion FidelizacionService
	ahora        func() time.Time
}

func NewCierreService(
	tickets repository.TicketRepository,
	cierres repository.CierreRepository,
	informes InformeService,
	fidelizacion FidelizacionService,
) CierreService {
	return &cierreService{
		tickets:      tickets,
		cierres:      cierres,
		informes:     informes,
		fidelizacion: fidelizacion,
		ahora:        time.Now,
	}
}

// toleranciaCentimo bounds the rounding drift accepted before stored totals
// are considered suspect.
var toleranciaCentimo = decimal.NewFromFloat(0.01)

const mensajeSinPendientes = "No hay tickets pendientes para cerrar."

// ── ComputarCierre ────────────────────────────────────────────────────────────
// Window: from the last definitive closing (exclusive) to now (inclusive).
// The aggregation, the cierre insert, the numero self-reference and the ticket
// tagging share one transaction, so the tagged set is exactly the aggregated
// set and a failure anywhere leaves nothing behind.

func (s *cierreService) ComputarCierre(ctx context.Context, cajero string, req dto.ComputarCierreRequest) (*dto.ResumenCierre, error) {
	fecha := req.Fecha
	if fecha == "" {
		fecha = s.ahora().Format("2006-01-02")
	}

	ultimoZ, err := s.cierres.FindUltimoZ(ctx)
	if err != nil {
		return nil, apierror.Persistence(err, "consultando último cierre Z")
	}
	desde := time.Unix(0, 0)
	if ultimoZ != nil {
		desde = ultimoZ.CerradoEn
	}
	hasta := s.ahora()

	// Informative window for the optional breakdowns and the point rollup:
	// Z closings report over the open window, X closings over the whole day.
	infDesde, infHasta := desde, hasta
	if req.Tipo == "X" {
		infDesde, infHasta = limitesDelDia(fecha)
	}

	resumen := &dto.ResumenCierre{
		Tipo:   req.Tipo,
		Fecha:  fecha,
		Cajero: cajero,
		Notas:  req.Notas,
	}

	if req.IncluirCategorias || req.IncluirArticulos {
		desglose, err := s.informes.DesgloseVentas(ctx, infDesde, infHasta)
		if err != nil {
			return nil, err
		}
		if req.IncluirCategorias {
			resumen.PorCategoria = desglose.PorCategoria
		}
		if req.IncluirArticulos {
			resumen.TopArticulos = topPorCantidad(desglose.PorArticulo, 10)
		}
	}

	puntos, err := s.fidelizacion.DesglosePuntos(ctx, infDesde, infHasta)
	if err != nil {
		return nil, err
	}
	resumen.Puntos = puntos

	var sinPendientes bool
	txErr := runTx(ctx, s.tickets.DB(), func(tx *gorm.DB) error {
		var ts []model.Ticket
		var err error
		if req.Tipo == "Z" {
			ts, err = s.tickets.ListPendientesTx(tx, desde, hasta)
		} else {
			ts, err = s.tickets.ListByFechaTx(tx, fecha)
		}
		if err != nil {
			return err
		}

		// A Z with nothing to cover is a no-op signal, not an error: abort
		// without persisting anything.
		if req.Tipo == "Z" && len(ts) == 0 {
			sinPendientes = true
			return nil
		}

		agregarTickets(resumen, ts)
		resumen.CerradoEn = hasta.Format(time.RFC3339)

		blob, err := json.Marshal(resumen)
		if err != nil {
			return err
		}
		cierre := model.Cierre{
			Fecha:       fecha,
			CerradoEn:   hasta,
			Tipo:        req.Tipo,
			TicketDesde: resumen.TicketDesde,
			TicketHasta: resumen.TicketHasta,
			NumTickets:  resumen.NumTickets,
			Total:       resumen.Total,
			Resumen:     string(blob),
			Cajero:      cajero,
			Notas:       req.Notas,
		}
		if err := s.cierres.CreateTx(tx, &cierre); err != nil {
			return err
		}
		// The display number self-references the row id.
		if err := s.cierres.SetNumeroTx(tx, cierre.ID, int(cierre.ID)); err != nil {
			return err
		}
		id := cierre.ID
		resumen.CierreID = &id
		resumen.Numero = int(id)

		if req.Tipo == "Z" {
			if _, err := s.tickets.MarkClosedTx(tx, desde, hasta, cierre.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		infra.CierresComputados.WithLabelValues(req.Tipo, "error").Inc()
		return nil, apierror.Persistence(txErr, "computando cierre %s de %s", req.Tipo, fecha)
	}

	if sinPendientes {
		infra.CierresComputados.WithLabelValues(req.Tipo, "noop").Inc()
		resumen.Mensaje = mensajeSinPendientes
		return resumen, nil
	}

	infra.CierresComputados.WithLabelValues(req.Tipo, "ok").Inc()
	log.Info().
		Uint("cierre_id", *resumen.CierreID).
		Str("tipo", req.Tipo).
		Str("fecha", fecha).
		Int("tickets", resumen.NumTickets).
		Str("total", resumen.Total.String()).
		Msg("cierre persistido")
	return resumen, nil
}

// ── DetalleCierre ─────────────────────────────────────────────────────────────
// The stored blob and columns are audit data; per-method totals are recomputed
// from the covered tickets on every read. A divergence beyond one cent logs a
// warning and the recomputed values win — the persisted row is never rewritten.

func (s *cierreService) DetalleCierre(ctx context.Context, id uint) (*dto.ResumenCierre, error) {
	cierre, err := s.cierres.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cierre %d no encontrado", id)
	}

	// Recover the optional breakdowns from the audit blob; every authoritative
	// field is overwritten below.
	resumen := &dto.ResumenCierre{}
	if err := json.Unmarshal([]byte(cierre.Resumen), resumen); err != nil {
		log.Warn().Err(err).Uint("cierre_id", id).Msg("resumen almacenado ilegible")
		resumen = &dto.ResumenCierre{}
	}

	resumen.CierreID = &cierre.ID
	resumen.Numero = cierre.Numero
	resumen.Tipo = cierre.Tipo
	resumen.Fecha = cierre.Fecha
	resumen.CerradoEn = cierre.CerradoEn.Format(time.RFC3339)
	resumen.Cajero = cierre.Cajero
	resumen.Notas = cierre.Notas
	resumen.TicketDesde = cierre.TicketDesde
	resumen.TicketHasta = cierre.TicketHasta
	resumen.NumTickets = cierre.NumTickets
	resumen.YaCerrado = cierre.Tipo == "Z"

	var ts []model.Ticket
	if cierre.Tipo == "Z" {
		ts, err = s.tickets.ListByCierre(ctx, cierre.ID)
	} else {
		ts, err = s.tickets.ListByFecha(ctx, cierre.Fecha)
	}
	if err != nil {
		return nil, apierror.Persistence(err, "recomputando cierre %d", id)
	}

	recomputado := &dto.ResumenCierre{}
	agregarTickets(recomputado, ts)
	resumen.PorMetodo = recomputado.PorMetodo

	if recomputado.Total.Sub(cierre.Total).Abs().GreaterThan(toleranciaCentimo) {
		infra.ReconciliacionesDivergentes.Inc()
		log.Warn().
			Uint("cierre_id", id).
			Str("total_almacenado", cierre.Total.String()).
			Str("total_recomputado", recomputado.Total.String()).
			Msg("totales del cierre divergen; se devuelven los recomputados")
		resumen.Total = recomputado.Total
		resumen.NumTickets = recomputado.NumTickets
	} else {
		resumen.Total = cierre.Total
	}

	return resumen, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *cierreService) Historial(ctx context.Context, page, limit int) (*dto.CierreListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cierres, total, err := s.cierres.List(ctx, page, limit)
	if err != nil {
		return nil, apierror.Persistence(err, "listando cierres")
	}
	items := make([]dto.CierreListItem, 0, len(cierres))
	for _, c := range cierres {
		items = append(items, dto.CierreListItem{
			ID:          c.ID,
			Numero:      c.Numero,
			Fecha:       c.Fecha,
			CerradoEn:   c.CerradoEn.Format(time.RFC3339),
			Tipo:        c.Tipo,
			NumTickets:  c.NumTickets,
			TicketDesde: c.TicketDesde,
			TicketHasta: c.TicketHasta,
			Total:       c.Total,
			Cajero:      c.Cajero,
			Notas:       c.Notas,
		})
	}
	return &dto.CierreListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// agregarTickets fills count, ticket range, total and per-method sums from the
// ticket headers of the window.
func agregarTickets(resumen *dto.ResumenCierre, ts []model.Ticket) {
	resumen.NumTickets = len(ts)
	for _, t := range ts {
		if resumen.TicketDesde == 0 || t.TicketNo < resumen.TicketDesde {
			resumen.TicketDesde = t.TicketNo
		}
		if t.TicketNo > resumen.TicketHasta {
			resumen.TicketHasta = t.TicketNo
		}
		resumen.Total = resumen.Total.Add(t.Total)
		switch t.MetodoPago {
		case "tarjeta":
			resumen.PorMetodo.Tarjeta = resumen.PorMetodo.Tarjeta.Add(t.Total)
		case "web":
			resumen.PorMetodo.Web = resumen.PorMetodo.Web.Add(t.Total)
		default:
			resumen.PorMetodo.Efectivo = resumen.PorMetodo.Efectivo.Add(t.Total)
		}
	}
	resumen.PorMetodo.Total = resumen.PorMetodo.Efectivo.
		Add(resumen.PorMetodo.Tarjeta).
		Add(resumen.PorMetodo.Web)
}

// topPorCantidad returns the n best-selling buckets by quantity.
func topPorCantidad(filas []dto.VentaAgrupada, n int) []dto.VentaAgrupada {
	ordenadas := make([]dto.VentaAgrupada, len(filas))
	copy(ordenadas, filas)
	sort.SliceStable(ordenadas, func(i, j int) bool {
		return ordenadas[i].Cantidad.GreaterThan(ordenadas[j].Cantidad)
	})
	if len(ordenadas) > n {
		ordenadas = ordenadas[:n]
	}
	return ordenadas
}

// limitesDelDia returns the (exclusive, inclusive] bounds covering one day.
func limitesDelDia(fecha string) (time.Time, time.Time) {
	inicio, err := time.ParseInLocation("2006-01-02", fecha, time.Local)
	if err != nil {
		inicio = time.Now().Truncate(24 * time.Hour)
	}
	return inicio.Add(-time.Nanosecond), inicio.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
