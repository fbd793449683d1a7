// README: Fare quote handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/pricing"
	"ridehail/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type fareReq struct {
	VehicleType string   `json:"vehicle_type" binding:"required"`
	DistanceKm  *float64 `json:"distance_km" binding:"required"`
	TimeMin     *float64 `json:"time_min" binding:"required"`
}

func (h *FareHandler) Compute(c *gin.Context) {
	var req fareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	fare, err := h.pricing.Compute(types.VehicleType(req.VehicleType), *req.DistanceKm, *req.TimeMin)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, fare)
}
