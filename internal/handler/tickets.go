package handler

import (
	"net/http"
	"strconv"

	"kooltpv/internal/apierror"
	"kooltpv/internal/dto"
	"kooltpv/internal/middleware"
	"kooltpv/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct{ svc service.TicketService }

func NewTicketHandler(svc service.TicketService) *TicketHandler { return &TicketHandler{svc: svc} }

// Guardar persists a finished sale. The cashier on the ticket is always the
// authenticated user, never a request field.
func (h *TicketHandler) Guardar(c *gin.Context) {
	var req dto.GuardarTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GuardarTicket(c.Request.Context(), claims.Nombre, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TicketHandler) Obtener(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerTicket(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns the tickets inside a reporting window.
func (h *TicketHandler) Listar(c *gin.Context) {
	desde, hasta, ok := ventanaDesdeQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarEnVentana(c.Request.Context(), desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
