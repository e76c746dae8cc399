package service

import (
	"context"
	"time"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"
	"kooltpv/internal/infra"
	"kooltpv/internal/model"
	"kooltpv/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TicketService interface {
	GuardarTicket(ctx context.Context, cajero string, req dto.GuardarTicketRequest) (*dto.TicketResponse, error)
	ObtenerTicket(ctx context.Context, id uint) (*dto.TicketResponse, error)
	ListarEnVentana(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.TicketListResponse, error)
}

type ticketService struct {
	repo         repository.TicketRepository
	clienteRepo  repository.ClienteRepository
	fidelizacion FidelizacionService
	ahora        func() time.Time
}

func NewTicketService(
	repo repository.TicketRepository,
	clienteRepo repository.ClienteRepository,
	fidelizacion FidelizacionService,
) TicketService {
	return &ticketService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		fidelizacion: fidelizacion,
		ahora:        time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── GuardarTicket ─────────────────────────────────────────────────────────────
// One atomic transaction: next ticket_no from the persistent counter, per-day
// ticket_seq, header insert, line inserts. Validation happens before any write;
// any failure rolls back the whole ticket.

func (s *ticketService) GuardarTicket(ctx context.Context, cajero string, req dto.GuardarTicketRequest) (*dto.TicketResponse, error) {
	if len(req.Lineas) == 0 {
		return nil, apierror.Validation("el ticket no tiene líneas")
	}
	for _, l := range req.Lineas {
		if !l.Cantidad.IsPositive() {
			return nil, apierror.Validation("cantidad no positiva en %q", l.Nombre)
		}
		if l.PrecioUnitario.IsNegative() {
			return nil, apierror.Validation("precio negativo en %q", l.Nombre)
		}
	}

	// Dedup: a retried offline sale returns the already-persisted ticket.
	if req.OfflineID != nil {
		if existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID); err == nil && existing != nil {
			return ticketToResponse(existing), nil
		}
	}

	total := decimal.Zero
	for _, l := range req.Lineas {
		total = total.Add(l.Cantidad.Mul(l.PrecioUnitario))
	}
	total = total.Round(2)

	cambio := decimal.Zero
	if req.Entregado.GreaterThan(total) {
		cambio = req.Entregado.Sub(total)
	}

	var clienteNombre *string
	var saldo *decimal.Decimal
	if req.ClienteID != nil {
		cliente, err := s.clienteRepo.FindByID(ctx, *req.ClienteID)
		if err != nil {
			return nil, apierror.Persistence(err, "consultando cliente %d", *req.ClienteID)
		}
		if cliente == nil {
			return nil, apierror.Validation("cliente %d no existe", *req.ClienteID)
		}
		clienteNombre = &cliente.Nombre
		puntos := cliente.Puntos
		saldo = &puntos
	}

	puntosGanados, err := s.fidelizacion.PuntosPorVenta(ctx, req.Lineas, req.ClienteID)
	if err != nil {
		return nil, err
	}

	ticket := model.Ticket{
		Fecha:           s.ahora(),
		Cajero:          cajero,
		ClienteID:       req.ClienteID,
		ClienteNombre:   clienteNombre,
		Total:           total,
		MetodoPago:      req.MetodoPago,
		Entregado:       req.Entregado,
		Cambio:          cambio,
		PuntosGanados:   puntosGanados,
		PuntosCanjeados: req.PuntosCanjeados,
		SaldoPuntos:     saldo,
		OfflineID:       req.OfflineID,
	}
	for _, l := range req.Lineas {
		ticket.Lineas = append(ticket.Lineas, model.TicketLinea{
			SKU:            l.SKU,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			TipoIVA:        l.TipoIVA,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNo, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}
		seq, err := s.repo.NextTicketSeq(ctx, tx, ticket.Fecha)
		if err != nil {
			return err
		}
		ticket.TicketNo = ticketNo
		ticket.TicketSeq = seq
		return s.repo.Create(ctx, tx, &ticket)
	})
	if txErr != nil {
		return nil, apierror.Persistence(txErr, "guardando ticket")
	}

	infra.TicketsGuardados.Inc()
	return ticketToResponse(&ticket), nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *ticketService) ObtenerTicket(ctx context.Context, id uint) (*dto.TicketResponse, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("ticket %d no encontrado", id)
	}
	return ticketToResponse(ticket), nil
}

func (s *ticketService) ListarEnVentana(ctx context.Context, desdeExcl, hastaIncl time.Time) (*dto.TicketListResponse, error) {
	tickets, err := s.repo.ListInWindow(ctx, desdeExcl, hastaIncl)
	if err != nil {
		return nil, apierror.Persistence(err, "listando tickets")
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, *ticketToResponse(&tickets[i]))
	}
	return &dto.TicketListResponse{Data: items, Total: len(items)}, nil
}

func ticketToResponse(t *model.Ticket) *dto.TicketResponse {
	lineas := make([]dto.LineaTicketResponse, 0, len(t.Lineas))
	for _, l := range t.Lineas {
		lineas = append(lineas, dto.LineaTicketResponse{
			SKU:            l.SKU,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			TipoIVA:        l.TipoIVA,
		})
	}
	return &dto.TicketResponse{
		ID:              t.ID,
		TicketNo:        t.TicketNo,
		TicketSeq:       t.TicketSeq,
		Fecha:           t.Fecha.Format(time.RFC3339),
		Cajero:          t.Cajero,
		ClienteID:       t.ClienteID,
		ClienteNombre:   t.ClienteNombre,
		Lineas:          lineas,
		Total:           t.Total,
		MetodoPago:      t.MetodoPago,
		Entregado:       t.Entregado,
		Cambio:          t.Cambio,
		PuntosGanados:   t.PuntosGanados,
		PuntosCanjeados: t.PuntosCanjeados,
		SaldoPuntos:     t.SaldoPuntos,
		CierreID:        t.CierreID,
	}
}
