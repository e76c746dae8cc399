package service

import (
	"context"
	"testing"
	"time"

	"kooltpv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoConVentas seeds a window of sales: three bread tickets at 12.10 (21%)
// plus one milk line at 10% and one line whose SKU resolves to nothing.
func repoConVentas(dia time.Time) *stubTicketRepo {
	repo := newStubTicketRepo()
	repo.resolver["PAN-001"] = metaProducto{categoria: "Panadería", tipo: "Pan", proveedor: "Harinas del Norte"}
	repo.resolver["LECHE-01"] = metaProducto{categoria: "Lácteos", tipo: "Leche", proveedor: "Granja Sur"}

	for i := 0; i < 3; i++ {
		repo.tickets = append(repo.tickets, model.Ticket{
			ID:         uint(i + 1),
			TicketNo:   int64(i + 1),
			Fecha:      dia.Add(time.Duration(i+1) * time.Hour),
			Cajero:     "ana",
			MetodoPago: "efectivo",
			Total:      dec("12.10"),
			Lineas: []model.TicketLinea{{
				SKU: "PAN-001", Nombre: "Pan de pueblo",
				Cantidad: dec("1"), PrecioUnitario: dec("12.10"), TipoIVA: dec("21"),
			}},
		})
	}
	repo.tickets = append(repo.tickets, model.Ticket{
		ID: 4, TicketNo: 4, Fecha: dia.Add(4 * time.Hour), Cajero: "luis",
		MetodoPago: "tarjeta", Total: dec("3.20"),
		Lineas: []model.TicketLinea{
			{SKU: "LECHE-01", Nombre: "Leche entera", Cantidad: dec("2"), PrecioUnitario: dec("1.10"), TipoIVA: dec("10")},
			{SKU: "MISTERIO", Nombre: "Artículo sin ficha", Cantidad: dec("1"), PrecioUnitario: dec("1.00"), TipoIVA: dec("21")},
		},
	})
	return repo
}

func ventanaDelDia(dia time.Time) (time.Time, time.Time) {
	return dia.Add(-time.Nanosecond), dia.Add(24*time.Hour - time.Nanosecond)
}

func TestDesgloseIVACuadraBaseMasCuota(t *testing.T) {
	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	svc := NewInformeService(repoConVentas(dia))

	desde, hasta := ventanaDelDia(dia)
	lineas, err := svc.DesgloseIVA(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, lineas, 2)

	// 21%: gross 3×12.10 + 1.00 = 37.30 → base 30.83, cuota 6.47
	veintiuno := lineas[0]
	assert.True(t, veintiuno.TipoIVA.Equal(dec("21")))
	assert.True(t, veintiuno.Total.Equal(dec("37.30")), "total %s", veintiuno.Total)
	assert.True(t, veintiuno.Base.Equal(dec("30.83")), "base %s", veintiuno.Base)
	assert.True(t, veintiuno.Cuota.Equal(dec("6.47")), "cuota %s", veintiuno.Cuota)

	// every row must reconcile exactly: base + cuota == total
	for _, l := range lineas {
		assert.True(t, l.Base.Add(l.Cuota).Equal(l.Total), "tipo %s no cuadra", l.TipoIVA)
	}
}

func TestDesgloseIVATipoCeroTodoEsBase(t *testing.T) {
	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	repo := newStubTicketRepo()
	repo.tickets = append(repo.tickets, model.Ticket{
		ID: 1, TicketNo: 1, Fecha: dia.Add(time.Hour), Cajero: "ana", MetodoPago: "efectivo",
		Total:  dec("5.00"),
		Lineas: []model.TicketLinea{{SKU: "LIBRO-1", Nombre: "Libro", Cantidad: dec("1"), PrecioUnitario: dec("5.00"), TipoIVA: dec("0")}},
	})
	svc := NewInformeService(repo)

	desde, hasta := ventanaDelDia(dia)
	lineas, err := svc.DesgloseIVA(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, lineas, 1)
	assert.True(t, lineas[0].Base.Equal(dec("5.00")))
	assert.True(t, lineas[0].Cuota.IsZero())
}

func TestDesgloseVentasAgrupaYConservaSinFicha(t *testing.T) {
	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	svc := NewInformeService(repoConVentas(dia))

	desde, hasta := ventanaDelDia(dia)
	resp, err := svc.DesgloseVentas(context.Background(), desde, hasta)
	require.NoError(t, err)

	// categories: Panadería, Lácteos and the empty bucket for the unresolved SKU
	require.Len(t, resp.PorCategoria, 3)
	assert.Equal(t, "Panadería", resp.PorCategoria[0].Nombre)
	assert.True(t, resp.PorCategoria[0].Total.Equal(dec("36.30")))
	assert.Equal(t, "", resp.PorCategoria[2].Nombre)
	assert.True(t, resp.PorCategoria[2].Total.Equal(dec("1.00")))

	require.Len(t, resp.PorArticulo, 3)
	assert.Equal(t, "Pan de pueblo", resp.PorArticulo[0].Nombre)
	assert.True(t, resp.PorArticulo[0].Cantidad.Equal(dec("3")))
}

func TestVentasPorCajeroOrdenaPorTotal(t *testing.T) {
	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	svc := NewInformeService(repoConVentas(dia))

	desde, hasta := ventanaDelDia(dia)
	totales, err := svc.VentasPorCajero(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, totales, 2)
	assert.Equal(t, "ana", totales[0].Nombre)
	assert.True(t, totales[0].Total.Equal(dec("36.30")))
	assert.Equal(t, "luis", totales[1].Nombre)
}

func TestVentasPorProveedorIncluyeBucketVacio(t *testing.T) {
	dia := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	svc := NewInformeService(repoConVentas(dia))

	desde, hasta := ventanaDelDia(dia)
	totales, err := svc.VentasPorProveedor(context.Background(), desde, hasta)
	require.NoError(t, err)
	require.Len(t, totales, 3)

	nombres := make([]string, 0, 3)
	for _, tp := range totales {
		nombres = append(nombres, tp.Nombre)
	}
	assert.Contains(t, nombres, "")
	assert.Equal(t, "Harinas del Norte", totales[0].Nombre)
}

func TestInformesVentanaVaciaDevuelveVacio(t *testing.T) {
	svc := NewInformeService(newStubTicketRepo())
	desde, hasta := ventanaDelDia(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local))

	lineas, err := svc.DesgloseIVA(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Empty(t, lineas)

	totales, err := svc.VentasPorCajero(context.Background(), desde, hasta)
	require.NoError(t, err)
	assert.Empty(t, totales)
}
