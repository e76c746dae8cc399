package service

import (
	"context"
	"testing"
	"time"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fidelizacionApagada() FidelizacionService {
	return NewFidelizacionService(newStubParametroRepo(), newStubProductoRepo(), newStubClienteRepo(), newStubTicketRepo())
}

func lineaPan(cantidad, precio string) dto.LineaTicketRequest {
	return dto.LineaTicketRequest{
		SKU:            "PAN-001",
		Nombre:         "Pan de pueblo",
		Cantidad:       dec(cantidad),
		PrecioUnitario: dec(precio),
		TipoIVA:        dec("10"),
	}
}

func TestGuardarTicketAsignaNumeroYSecuencia(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, newStubClienteRepo(), fidelizacionApagada())

	primero, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{lineaPan("2", "1.20")},
		MetodoPago: "efectivo",
		Entregado:  dec("5.00"),
	})
	require.NoError(t, err)

	segundo, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{lineaPan("1", "1.20")},
		MetodoPago: "tarjeta",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), primero.TicketNo)
	assert.Equal(t, int64(2), segundo.TicketNo)
	assert.Equal(t, 1, primero.TicketSeq)
	assert.Equal(t, 2, segundo.TicketSeq)

	// total = 2 × 1.20; cambio = 5.00 − 2.40
	assert.True(t, primero.Total.Equal(dec("2.40")), "total %s", primero.Total)
	assert.True(t, primero.Cambio.Equal(dec("2.60")), "cambio %s", primero.Cambio)
	// card payments hand back no change even with entregado = 0
	assert.True(t, segundo.Cambio.IsZero())
}

func TestGuardarTicketRechazaCarritoInvalido(t *testing.T) {
	svc := NewTicketService(newStubTicketRepo(), newStubClienteRepo(), fidelizacionApagada())

	_, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		MetodoPago: "efectivo",
	})
	assert.True(t, apierror.IsValidation(err), "carrito vacío: %v", err)

	linea := lineaPan("0", "1.20")
	_, err = svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{linea},
		MetodoPago: "efectivo",
	})
	assert.True(t, apierror.IsValidation(err), "cantidad cero: %v", err)

	linea = lineaPan("1", "-0.50")
	_, err = svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{linea},
		MetodoPago: "efectivo",
	})
	assert.True(t, apierror.IsValidation(err), "precio negativo: %v", err)
}

func TestGuardarTicketDeduplicaReintentosOffline(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, newStubClienteRepo(), fidelizacionApagada())

	offlineID := "7b1c2f7e-49c4-4418-9c88-64f0e9b4f001"
	req := dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{lineaPan("1", "1.20")},
		MetodoPago: "efectivo",
		OfflineID:  &offlineID,
	}

	primero, err := svc.GuardarTicket(context.Background(), "ana", req)
	require.NoError(t, err)
	repetido, err := svc.GuardarTicket(context.Background(), "ana", req)
	require.NoError(t, err)

	assert.Equal(t, primero.ID, repetido.ID)
	assert.Equal(t, primero.TicketNo, repetido.TicketNo)
	assert.Len(t, repo.tickets, 1)
}

func TestGuardarTicketFallaTodoONada(t *testing.T) {
	repo := newStubTicketRepo()
	repo.failCreate = true
	svc := NewTicketService(repo, newStubClienteRepo(), fidelizacionApagada())

	_, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{lineaPan("1", "1.20")},
		MetodoPago: "efectivo",
	})
	assert.True(t, apierror.IsPersistence(err))
	assert.Empty(t, repo.tickets)
}

func TestGuardarTicketRechazaClienteInexistente(t *testing.T) {
	svc := NewTicketService(newStubTicketRepo(), newStubClienteRepo(), fidelizacionApagada())

	clienteID := uint(99)
	_, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
		Lineas:     []dto.LineaTicketRequest{lineaPan("1", "1.20")},
		MetodoPago: "efectivo",
		ClienteID:  &clienteID,
	})
	assert.True(t, apierror.IsValidation(err))
}

func TestListarEnVentanaRespetaLimites(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewTicketService(repo, newStubClienteRepo(), fidelizacionApagada()).(*ticketService)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		momento := base.Add(time.Duration(i) * time.Hour)
		svc.ahora = func() time.Time { return momento }
		_, err := svc.GuardarTicket(context.Background(), "ana", dto.GuardarTicketRequest{
			Lineas:     []dto.LineaTicketRequest{lineaPan("1", "1.20")},
			MetodoPago: "efectivo",
		})
		require.NoError(t, err)
	}

	// (10:00, 12:00]: the lower bound is exclusive, the upper inclusive
	resp, err := svc.ListarEnVentana(context.Background(), base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
