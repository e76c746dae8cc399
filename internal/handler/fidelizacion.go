package handler

import (
	"net/http"

	"kooltpv/internal/dto"
	"kooltpv/internal/service"

	"github.com/gin-gonic/gin"
)

type FidelizacionHandler struct{ svc service.FidelizacionService }

func NewFidelizacionHandler(svc service.FidelizacionService) *FidelizacionHandler {
	return &FidelizacionHandler{svc: svc}
}

// Simular previews the loyalty points a cart would earn without persisting
// anything. The GUI calls this while the cart is still being edited.
func (h *FidelizacionHandler) Simular(c *gin.Context) {
	var req dto.SimularPuntosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	puntos, err := h.svc.PuntosPorVenta(c.Request.Context(), req.Lineas, req.ClienteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SimularPuntosResponse{Puntos: puntos})
}
