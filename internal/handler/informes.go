package handler

import (
	"net/http"

	"kooltpv/internal/service"

	"github.com/gin-gonic/gin"
)

// InformeHandler serves the sales and tax rollups the GUI renders on the
// reports screen. All endpoints take the same window query params
// (fecha=YYYY-MM-DD or desde/hasta in RFC 3339).
type InformeHandler struct {
	informes     service.InformeService
	fidelizacion service.FidelizacionService
}

func NewInformeHandler(informes service.InformeService, fidelizacion service.FidelizacionService) *InformeHandler {
	return &InformeHandler{informes: informes, fidelizacion: fidelizacion}
}

func (h *InformeHandler) IVA(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	lineas, err := h.informes.DesgloseIVA(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lineas})
}

func (h *InformeHandler) Ventas(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	resp, err := h.informes.DesgloseVentas(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InformeHandler) Cajeros(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	totales, err := h.informes.VentasPorCajero(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totales})
}

func (h *InformeHandler) Proveedores(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	totales, err := h.informes.VentasPorProveedor(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totales})
}

func (h *InformeHandler) Puntos(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	resp, err := h.fidelizacion.DesglosePuntos(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
