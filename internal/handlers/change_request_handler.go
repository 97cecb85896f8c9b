package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/httpresp"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	ucChangeRequest "github.com/BruksfildServices01/booking-platform/internal/usecase/changerequest"
)

type ChangeRequestHandler struct {
	list   *ucChangeRequest.List
	accept *ucChangeRequest.Accept
	reject *ucChangeRequest.Reject
}

func NewChangeRequestHandler(
	list *ucChangeRequest.List,
	accept *ucChangeRequest.Accept,
	reject *ucChangeRequest.Reject,
) *ChangeRequestHandler {
	return &ChangeRequestHandler{list: list, accept: accept, reject: reject}
}

func (h *ChangeRequestHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	requests, err := h.list.Execute(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, requests)
}

func (h *ChangeRequestHandler) Accept(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.accept.Execute(
		c.Request.Context(),
		c.MustGet(middleware.ContextBusinessID).(uint),
		c.MustGet(middleware.ContextUserID).(uint),
		id,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Change request approved",
		"appointment": ap,
	})
}

func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.reject.Execute(
		c.Request.Context(),
		c.MustGet(middleware.ContextBusinessID).(uint),
		c.MustGet(middleware.ContextUserID).(uint),
		id,
	); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Change request rejected"})
}
