package service

import (
	"context"
	"errors"
	"time"

	"kooltpv/internal/model"
	"kooltpv/internal/repository"

	"gorm.io/gorm"
)

// ── Full in-memory TicketRepository ──────────────────────────────────────────

// metaProducto resolves a SKU to the catalog names the aggregator joins in.
type metaProducto struct {
	categoria string
	tipo      string
	proveedor string
}

type stubTicketRepo struct {
	tickets    []model.Ticket
	contador   int64
	resolver   map[string]metaProducto
	failCreate bool // force errors to exercise the persistence path
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{resolver: make(map[string]metaProducto)}
}

func (r *stubTicketRepo) DB() *gorm.DB { return nil }

func (r *stubTicketRepo) Create(_ context.Context, _ *gorm.DB, t *model.Ticket) error {
	if r.failCreate {
		return errors.New("disk full")
	}
	t.ID = uint(len(r.tickets) + 1)
	r.tickets = append(r.tickets, *t)
	return nil
}

func (r *stubTicketRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.contador++
	return r.contador, nil
}

func (r *stubTicketRepo) NextTicketSeq(_ context.Context, _ *gorm.DB, fecha time.Time) (int, error) {
	seq := 1
	dia := fecha.Format("2006-01-02")
	for _, t := range r.tickets {
		if t.Fecha.Format("2006-01-02") == dia {
			seq++
		}
	}
	return seq, nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id uint) (*model.Ticket, error) {
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			return &r.tickets[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubTicketRepo) FindByOfflineID(_ context.Context, offlineID string) (*model.Ticket, error) {
	for i := range r.tickets {
		if r.tickets[i].OfflineID != nil && *r.tickets[i].OfflineID == offlineID {
			return &r.tickets[i], nil
		}
	}
	return nil, nil
}

func (r *stubTicketRepo) ListInWindow(_ context.Context, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.Fecha.After(desdeExcl) && !t.Fecha.After(hastaIncl) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListPendientesTx(_ *gorm.DB, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.CierreID == nil && t.Fecha.After(desdeExcl) && !t.Fecha.After(hastaIncl) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListByFecha(_ context.Context, fecha string) ([]model.Ticket, error) {
	return r.ListByFechaTx(nil, fecha)
}

func (r *stubTicketRepo) ListByFechaTx(_ *gorm.DB, fecha string) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.Fecha.Format("2006-01-02") == fecha {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) ListByCierre(_ context.Context, cierreID uint) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.CierreID != nil && *t.CierreID == cierreID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) MarkClosedTx(_ *gorm.DB, desdeExcl, hastaIncl time.Time, cierreID uint) (int64, error) {
	var n int64
	for i := range r.tickets {
		t := &r.tickets[i]
		if t.CierreID == nil && t.Fecha.After(desdeExcl) && !t.Fecha.After(hastaIncl) {
			id := cierreID
			t.CierreID = &id
			n++
		}
	}
	return n, nil
}

func (r *stubTicketRepo) LineasEnVentana(_ context.Context, desdeExcl, hastaIncl time.Time) ([]repository.LineaVenta, error) {
	var out []repository.LineaVenta
	for _, t := range r.tickets {
		if !t.Fecha.After(desdeExcl) || t.Fecha.After(hastaIncl) {
			continue
		}
		for _, l := range t.Lineas {
			meta := r.resolver[l.SKU] // zero value = unresolved, empty buckets
			out = append(out, repository.LineaVenta{
				TicketID:       t.ID,
				Fecha:          t.Fecha,
				Cajero:         t.Cajero,
				MetodoPago:     t.MetodoPago,
				SKU:            l.SKU,
				Articulo:       l.Nombre,
				Cantidad:       l.Cantidad,
				PrecioUnitario: l.PrecioUnitario,
				TipoIVA:        l.TipoIVA,
				Categoria:      meta.categoria,
				Tipo:           meta.tipo,
				Proveedor:      meta.proveedor,
			})
		}
	}
	return out, nil
}

// ── In-memory CierreRepository ───────────────────────────────────────────────

type stubCierreRepo struct {
	cierres []model.Cierre
}

func (r *stubCierreRepo) CreateTx(_ *gorm.DB, c *model.Cierre) error {
	c.ID = uint(len(r.cierres) + 1)
	r.cierres = append(r.cierres, *c)
	return nil
}

func (r *stubCierreRepo) SetNumeroTx(_ *gorm.DB, id uint, numero int) error {
	for i := range r.cierres {
		if r.cierres[i].ID == id {
			r.cierres[i].Numero = numero
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubCierreRepo) FindByID(_ context.Context, id uint) (*model.Cierre, error) {
	for i := range r.cierres {
		if r.cierres[i].ID == id {
			return &r.cierres[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCierreRepo) FindUltimoZ(_ context.Context) (*model.Cierre, error) {
	var ultimo *model.Cierre
	for i := range r.cierres {
		c := &r.cierres[i]
		if c.Tipo != "Z" {
			continue
		}
		if ultimo == nil || c.CerradoEn.After(ultimo.CerradoEn) {
			ultimo = c
		}
	}
	return ultimo, nil
}

func (r *stubCierreRepo) List(_ context.Context, page, limit int) ([]model.Cierre, int64, error) {
	// newest first
	out := make([]model.Cierre, 0, len(r.cierres))
	for i := len(r.cierres) - 1; i >= 0; i-- {
		out = append(out, r.cierres[i])
	}
	total := int64(len(out))
	inicio := (page - 1) * limit
	if inicio >= len(out) {
		return nil, total, nil
	}
	fin := inicio + limit
	if fin > len(out) {
		fin = len(out)
	}
	return out[inicio:fin], total, nil
}

// ── In-memory ProductoRepository ─────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[string]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[string]*model.Producto)}
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	return r.productos[sku], nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ── In-memory ClienteRepository ──────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uint]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uint]*model.Cliente)}
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uint) (*model.Cliente, error) {
	return r.clientes[id], nil
}

func (r *stubClienteRepo) ResolverPorNombre(_ context.Context, nombre string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Nombre == nombre {
			return c, nil
		}
	}
	return nil, nil
}

// ── In-memory ParametroRepository ────────────────────────────────────────────

type stubParametroRepo struct {
	valores map[string]string
	promos  []model.Promocion
}

func newStubParametroRepo() *stubParametroRepo {
	return &stubParametroRepo{valores: make(map[string]string)}
}

func (r *stubParametroRepo) Get(_ context.Context, clave, def string) string {
	if v, ok := r.valores[clave]; ok {
		return v
	}
	return def
}

func (r *stubParametroRepo) ListPromociones(_ context.Context) ([]model.Promocion, error) {
	return r.promos, nil
}
