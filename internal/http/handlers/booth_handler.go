// README: Booth listing and queue ticket handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/booth"
	"ridehail/internal/types"
)

type BoothHandler struct {
	booths *booth.Service
}

func NewBoothHandler(svc *booth.Service) *BoothHandler {
	return &BoothHandler{booths: svc}
}

func (h *BoothHandler) List(c *gin.Context) {
	list, err := h.booths.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if list == nil {
		list = []booth.Booth{}
	}
	writeJSON(c, http.StatusOK, list)
}

type queueReq struct {
	BoothID string  `json:"booth_id" binding:"required"`
	Phone   *string `json:"phone"`
}

func (h *BoothHandler) Queue(c *gin.Context) {
	var req queueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	n, err := h.booths.IssueTicket(c.Request.Context(), booth.IssueTicketCommand{
		BoothID: types.ID(req.BoothID),
		Phone:   req.Phone,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"queue_number": n})
}
