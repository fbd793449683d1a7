// README: Base handler utilities (JSON helpers, request shapes, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/booth"
	"ridehail/internal/modules/driver"
	"ridehail/internal/modules/matching"
	"ridehail/internal/modules/pricing"
	"ridehail/internal/modules/ride"
	"ridehail/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Pointers keep 0 a valid coordinate while still rejecting absent fields.
type coordinateReq struct {
	Lat *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
}

func (c coordinateReq) point() types.Point {
	return types.Point{Lat: *c.Lat, Lng: *c.Lng}
}

type locationReq struct {
	Name       *string        `json:"name"`
	Coordinate *coordinateReq `json:"coordinate" binding:"required"`
}

func (l locationReq) location() types.Location {
	return types.Location{Name: l.Name, Coordinate: l.Coordinate.point()}
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	writeError(c, http.StatusBadRequest, err.Error())
}

// writeDomainError maps module errors to HTTP statuses. Unknown errors are attached to the
// context for the logging middleware and surface as 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrNoDriversAvailable):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrNotFound),
		errors.Is(err, booth.ErrNotFound),
		errors.Is(err, driver.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrInvalidVehicleType),
		errors.Is(err, ride.ErrBadRequest),
		errors.Is(err, ride.ErrNoRoute):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrInvalidState),
		errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
