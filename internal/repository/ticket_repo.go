package repository

import (
	"context"
	"time"

	"kooltpv/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineaVenta is the flat projection the aggregator consumes: one ticket line
// joined to its ticket header and resolved product metadata. Unresolved SKUs
// leave Categoria/Tipo/Proveedor empty — they still count.
type LineaVenta struct {
	TicketID       uint
	Fecha          time.Time
	Cajero         string
	MetodoPago     string
	SKU            string
	Articulo       string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	TipoIVA        decimal.Decimal
	Categoria      string
	Tipo           string
	Proveedor      string
}

type TicketRepository interface {
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
	Create(ctx context.Context, tx *gorm.DB, t *model.Ticket) error
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	NextTicketSeq(ctx context.Context, tx *gorm.DB, fecha time.Time) (int, error)
	FindByID(ctx context.Context, id uint) (*model.Ticket, error)
	FindByOfflineID(ctx context.Context, offlineID string) (*model.Ticket, error)
	ListInWindow(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error)
	ListPendientesTx(tx *gorm.DB, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error)
	ListByFecha(ctx context.Context, fecha string) ([]model.Ticket, error)
	ListByFechaTx(tx *gorm.DB, fecha string) ([]model.Ticket, error)
	ListByCierre(ctx context.Context, cierreID uint) ([]model.Ticket, error)
	MarkClosedTx(tx *gorm.DB, desdeExcl, hastaIncl time.Time, cierreID uint) (int64, error)
	LineasEnVentana(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]LineaVenta, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) DB() *gorm.DB { return r.db }

func (r *ticketRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Ticket) error {
	return tx.WithContext(ctx).Create(t).Error
}

// NextTicketNumber increments the persistent "ticket_no" counter and returns
// the new value. Legacy databases without the counter row fall back to
// max(ticket_no)+1 and seed the counter from it.
func (r *ticketRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	res := tx.WithContext(ctx).
		Exec(`UPDATE contadores SET valor = valor + 1 WHERE nombre = 'ticket_no'`)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var next int64
		if err := tx.WithContext(ctx).
			Raw(`SELECT COALESCE(MAX(ticket_no), 0) + 1 FROM tickets`).
			Scan(&next).Error; err != nil {
			return 0, err
		}
		if err := tx.WithContext(ctx).
			Exec(`INSERT INTO contadores (nombre, valor) VALUES ('ticket_no', ?)`, next).Error; err != nil {
			return 0, err
		}
		return next, nil
	}
	var num int64
	err := tx.WithContext(ctx).
		Raw(`SELECT valor FROM contadores WHERE nombre = 'ticket_no'`).
		Scan(&num).Error
	return num, err
}

// NextTicketSeq returns the next per-day sequence for the ticket's date.
func (r *ticketRepo) NextTicketSeq(ctx context.Context, tx *gorm.DB, fecha time.Time) (int, error) {
	var seq int
	err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(MAX(ticket_seq), 0) + 1 FROM tickets WHERE DATE(fecha) = ?`,
			fecha.Format("2006-01-02")).
		Scan(&seq).Error
	return seq, err
}

func (r *ticketRepo) FindByID(ctx context.Context, id uint) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Lineas", func(db *gorm.DB) *gorm.DB { return db.Order("ticket_lineas.id ASC") }).
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) FindByOfflineID(ctx context.Context, offlineID string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Lineas").
		Where("offline_id = ?", offlineID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) ListInWindow(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("fecha > ? AND fecha <= ?", desdeExcl, hastaIncl).
		Order("fecha ASC, id ASC").
		Find(&tickets).Error
	return tickets, err
}

// ListPendientesTx returns the untagged tickets of the window, inside the
// caller's transaction so the tagged set equals the aggregated set.
func (r *ticketRepo) ListPendientesTx(tx *gorm.DB, desdeExcl, hastaIncl time.Time) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := tx.
		Where("cierre_id IS NULL AND fecha > ? AND fecha <= ?", desdeExcl, hastaIncl).
		Order("fecha ASC, id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Ticket, error) {
	return r.ListByFechaTx(r.db.WithContext(ctx), fecha)
}

func (r *ticketRepo) ListByFechaTx(tx *gorm.DB, fecha string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := tx.
		Where("DATE(fecha) = ?", fecha).
		Order("fecha ASC, id ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListByCierre(ctx context.Context, cierreID uint) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("cierre_id = ?", cierreID).
		Order("fecha ASC, id ASC").
		Find(&tickets).Error
	return tickets, err
}

// MarkClosedTx stamps every untagged ticket of the window. The cierre_id IS
// NULL guard makes re-runs no-ops: already-closed tickets are never overwritten.
func (r *ticketRepo) MarkClosedTx(tx *gorm.DB, desdeExcl, hastaIncl time.Time, cierreID uint) (int64, error) {
	res := tx.Model(&model.Ticket{}).
		Where("cierre_id IS NULL AND fecha > ? AND fecha <= ?", desdeExcl, hastaIncl).
		Update("cierre_id", cierreID)
	return res.RowsAffected, res.Error
}

func (r *ticketRepo) LineasEnVentana(ctx context.Context, desdeExcl, hastaIncl time.Time) ([]LineaVenta, error) {
	var lineas []LineaVenta
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id                         AS ticket_id,
		       t.fecha                      AS fecha,
		       t.cajero                     AS cajero,
		       t.metodo_pago                AS metodo_pago,
		       l.sku                        AS sku,
		       COALESCE(p.nombre, l.nombre) AS articulo,
		       l.cantidad                   AS cantidad,
		       l.precio_unitario            AS precio_unitario,
		       l.tipo_iva                   AS tipo_iva,
		       COALESCE(c.nombre, '')       AS categoria,
		       COALESCE(tp.nombre, '')      AS tipo,
		       COALESCE(pr.nombre, '')      AS proveedor
		FROM ticket_lineas l
		JOIN tickets t        ON t.id = l.ticket_id
		LEFT JOIN productos p      ON p.sku = l.sku
		LEFT JOIN categorias c     ON c.id = p.categoria_id
		LEFT JOIN tipos_producto tp ON tp.id = p.tipo_id
		LEFT JOIN proveedores pr   ON pr.id = p.proveedor_id
		WHERE t.fecha > ? AND t.fecha <= ?
		ORDER BY t.fecha ASC, l.id ASC`,
		desdeExcl, hastaIncl).
		Scan(&lineas).Error
	return lineas, err
}
