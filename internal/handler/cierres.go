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

type CierreHandler struct{ svc service.CierreService }

func NewCierreHandler(svc service.CierreService) *CierreHandler { return &CierreHandler{svc: svc} }

// Computar runs a Z or X closing. A day with nothing pending returns 200 with
// cierre_id null rather than an error, so the GUI can show the message as-is.
func (h *CierreHandler) Computar(c *gin.Context) {
	var req dto.ComputarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ComputarCierre(c.Request.Context(), claims.Nombre, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp.CierreID == nil {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CierreHandler) Detalle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.DetalleCierre(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns closed sessions, newest first.
func (h *CierreHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
