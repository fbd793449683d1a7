// README: Driver listing and sample data seeding.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/booth"
	"ridehail/internal/modules/driver"
	"ridehail/internal/types"
)

type DriverHandler struct {
	drivers *driver.Service
	booths  *booth.Service
}

func NewDriverHandler(drivers *driver.Service, booths *booth.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers, booths: booths}
}

func (h *DriverHandler) List(c *gin.Context) {
	list, err := h.drivers.List(c.Request.Context(), types.VehicleType(c.Query("vt")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if list == nil {
		list = []driver.Driver{}
	}
	writeJSON(c, http.StatusOK, list)
}

// Seed creates the sample fleet and booths; each is skipped when its collection is non-empty.
func (h *DriverHandler) Seed(c *gin.Context) {
	ctx := c.Request.Context()
	drivers, err := h.drivers.SeedSamples(ctx)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	booths, err := h.booths.SeedSamples(ctx)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"seeded": gin.H{"drivers": drivers, "booths": booths}})
}
