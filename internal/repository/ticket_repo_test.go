package repository

import (
	"context"
	"testing"
	"time"

	"kooltpv/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestDB opens a private in-memory SQLite database. A single connection so
// every query sees the same :memory: store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Categoria{}, &model.TipoProducto{}, &model.Proveedor{},
		&model.Producto{}, &model.Cliente{}, &model.Parametro{},
		&model.Contador{}, &model.Cierre{}, &model.Ticket{}, &model.TicketLinea{},
	))
	return db
}

func guardarTicket(t *testing.T, repo TicketRepository, fecha time.Time, metodo string, total string, lineas ...model.TicketLinea) *model.Ticket {
	t.Helper()
	ctx := context.Background()
	var ticket model.Ticket
	err := repo.DB().Transaction(func(tx *gorm.DB) error {
		no, err := repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}
		seq, err := repo.NextTicketSeq(ctx, tx, fecha)
		if err != nil {
			return err
		}
		ticket = model.Ticket{
			TicketNo: no, TicketSeq: seq, Fecha: fecha, Cajero: "ana",
			MetodoPago: metodo, Total: dec(total), Lineas: lineas,
		}
		return repo.Create(ctx, tx, &ticket)
	})
	require.NoError(t, err)
	return &ticket
}

func TestNextTicketNumberUsaElContadorPersistente(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.Contador{Nombre: "ticket_no", Valor: 41}).Error)
	repo := NewTicketRepository(db)

	fecha := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	primero := guardarTicket(t, repo, fecha, "efectivo", "1.00")
	segundo := guardarTicket(t, repo, fecha, "efectivo", "1.00")

	assert.Equal(t, int64(42), primero.TicketNo)
	assert.Equal(t, int64(43), segundo.TicketNo)
}

func TestNextTicketNumberSiembraContadorLegado(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	// legacy database: tickets exist but the counter row does not
	require.NoError(t, db.Create(&model.Ticket{
		TicketNo: 7, TicketSeq: 1, Fecha: time.Now(), Cajero: "ana",
		MetodoPago: "efectivo", Total: dec("1.00"),
	}).Error)

	fecha := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	nuevo := guardarTicket(t, repo, fecha, "efectivo", "1.00")
	assert.Equal(t, int64(8), nuevo.TicketNo)

	// the counter row now exists and drives subsequent numbers
	var contador model.Contador
	require.NoError(t, db.First(&contador, "nombre = ?", "ticket_no").Error)
	assert.Equal(t, int64(8), contador.Valor)

	siguiente := guardarTicket(t, repo, fecha, "efectivo", "1.00")
	assert.Equal(t, int64(9), siguiente.TicketNo)
}

func TestNextTicketSeqReiniciaCadaDia(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	sabado := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	domingo := sabado.AddDate(0, 0, 1)

	a := guardarTicket(t, repo, sabado, "efectivo", "1.00")
	b := guardarTicket(t, repo, sabado.Add(time.Hour), "efectivo", "1.00")
	c := guardarTicket(t, repo, domingo, "efectivo", "1.00")

	assert.Equal(t, 1, a.TicketSeq)
	assert.Equal(t, 2, b.TicketSeq)
	assert.Equal(t, 1, c.TicketSeq)
}

func TestMarkClosedTxNoReescribeCierres(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	guardarTicket(t, repo, dia.Add(10*time.Hour), "efectivo", "1.00")
	guardarTicket(t, repo, dia.Add(11*time.Hour), "tarjeta", "2.00")

	desde, hasta := dia, dia.Add(23*time.Hour)
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.MarkClosedTx(tx, desde, hasta, 1)
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)

	// a re-run finds nothing untagged: the guard keeps closings idempotent
	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.MarkClosedTx(tx, desde, hasta, 2)
		assert.Equal(t, int64(0), n)
		return err
	})
	require.NoError(t, err)

	pendientes, err := repo.ListPendientesTx(db, desde, hasta)
	require.NoError(t, err)
	assert.Empty(t, pendientes)

	cubiertos, err := repo.ListByCierre(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, cubiertos, 2)
}

func TestLineasEnVentanaResuelveCatalogoYConservaHuerfanas(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	categoria := model.Categoria{Nombre: "Panadería", Activo: true}
	require.NoError(t, db.Create(&categoria).Error)
	proveedor := model.Proveedor{Nombre: "Harinas del Norte", Activo: true}
	require.NoError(t, db.Create(&proveedor).Error)
	require.NoError(t, db.Create(&model.Producto{
		SKU: "PAN-001", Nombre: "Pan de pueblo", CategoriaID: &categoria.ID,
		ProveedorID: &proveedor.ID, PrecioVenta: dec("1.20"), TipoIVA: dec("10"), Activo: true,
	}).Error)

	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	guardarTicket(t, repo, dia.Add(10*time.Hour), "efectivo", "3.40",
		model.TicketLinea{SKU: "PAN-001", Nombre: "Pan de pueblo", Cantidad: dec("2"), PrecioUnitario: dec("1.20"), TipoIVA: dec("10")},
		model.TicketLinea{SKU: "BORRADO-9", Nombre: "Artículo sin ficha", Cantidad: dec("1"), PrecioUnitario: dec("1.00"), TipoIVA: dec("21")},
	)

	lineas, err := repo.LineasEnVentana(context.Background(), dia, dia.Add(23*time.Hour))
	require.NoError(t, err)
	require.Len(t, lineas, 2)

	assert.Equal(t, "Panadería", lineas[0].Categoria)
	assert.Equal(t, "Harinas del Norte", lineas[0].Proveedor)

	// orphan line survives with empty buckets
	assert.Equal(t, "BORRADO-9", lineas[1].SKU)
	assert.Equal(t, "", lineas[1].Categoria)
	assert.Equal(t, "", lineas[1].Proveedor)
	assert.Equal(t, "Artículo sin ficha", lineas[1].Articulo)
}

func TestFindByOfflineID(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	offlineID := "3f1f2a9c-0a45-4d44-8ac4-1f51a1c9d001"
	fecha := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.Create(context.Background(), tx, &model.Ticket{
			TicketNo: 1, TicketSeq: 1, Fecha: fecha, Cajero: "ana",
			MetodoPago: "efectivo", Total: dec("1.00"), OfflineID: &offlineID,
		})
	})
	require.NoError(t, err)

	encontrado, err := repo.FindByOfflineID(context.Background(), offlineID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), encontrado.TicketNo)
}
