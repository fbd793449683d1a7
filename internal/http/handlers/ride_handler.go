// README: Ride handlers for request, lookup, match, route simulation, progress and live updates.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/matching"
	"ridehail/internal/modules/ride"
	"ridehail/internal/types"
	"ridehail/internal/ws"
)

type RideHandler struct {
	rides    *ride.Service
	matching *matching.Service
	hub      *ws.Hub
}

func NewRideHandler(rides *ride.Service, matchingSvc *matching.Service, hub *ws.Hub) *RideHandler {
	return &RideHandler{rides: rides, matching: matchingSvc, hub: hub}
}

type rideReq struct {
	RiderName    string       `json:"rider_name" binding:"required"`
	RiderPhone   string       `json:"rider_phone" binding:"required"`
	Pickup       *locationReq `json:"pickup" binding:"required"`
	Drop         *locationReq `json:"drop" binding:"required"`
	VehicleType  string       `json:"vehicle_type" binding:"required"`
	FixedBoothID *string      `json:"fixed_booth_id"`
}

func (h *RideHandler) Request(c *gin.Context) {
	var req rideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	cmd := ride.RequestCommand{
		RiderName:   req.RiderName,
		RiderPhone:  req.RiderPhone,
		Pickup:      req.Pickup.location(),
		Drop:        req.Drop.location(),
		VehicleType: types.VehicleType(req.VehicleType),
	}
	if req.FixedBoothID != nil {
		id := types.ID(*req.FixedBoothID)
		cmd.FixedBoothID = &id
	}
	id, err := h.rides.Request(c.Request.Context(), cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ride_id": id, "status": ride.StatusRequested})
}

func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) Match(c *gin.Context) {
	status, err := h.matching.MatchDriver(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": status})
}

func (h *RideHandler) Simulate(c *gin.Context) {
	points, err := h.rides.SimulateRoute(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"points": points})
}

func (h *RideHandler) Tick(c *gin.Context) {
	res, err := h.rides.Progress(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Watch streams ride events over a websocket until the ride completes.
func (h *RideHandler) Watch(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, err := h.rides.Get(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, id); err != nil {
		_ = c.Error(err)
	}
}

type scheduleReq struct {
	RiderPhone   string    `json:"rider_phone" binding:"required"`
	BoothID      string    `json:"booth_id" binding:"required"`
	VehicleType  string    `json:"vehicle_type" binding:"required,oneof=auto taxi"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}

func (h *RideHandler) Schedule(c *gin.Context) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	id, err := h.rides.Schedule(c.Request.Context(), ride.ScheduleCommand{
		RiderPhone:   req.RiderPhone,
		BoothID:      types.ID(req.BoothID),
		VehicleType:  types.VehicleType(req.VehicleType),
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"scheduled": true, "id": id})
}
