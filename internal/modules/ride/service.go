// README: Ride service implements the lifecycle state machine, route simulation and progress.
package ride

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ridehail/internal/docstore"
	"ridehail/internal/events"
	"ridehail/internal/lock"
	"ridehail/internal/modules/location"
	"ridehail/internal/modules/pricing"
	"ridehail/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("ride not found")
	ErrConflict     = errors.New("ride state conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrNoRoute      = errors.New("no route to follow; simulate the route first")
)

type FareEstimator interface {
	Estimate(pickup, drop types.Point, vt types.VehicleType) (pricing.FareBreakdown, error)
}

// DriverReleaser puts a driver back into the available pool.
type DriverReleaser interface {
	Release(ctx context.Context, id types.ID) error
}

type Deps struct {
	Store      *Store
	Locker     lock.Locker
	Fares      FareEstimator
	Drivers    DriverReleaser
	Events     events.Publisher
	Log        *slog.Logger
	RouteSteps int
}

type Service struct {
	store      *Store
	locker     lock.Locker
	fares      FareEstimator
	drivers    DriverReleaser
	events     events.Publisher
	log        *slog.Logger
	routeSteps int
	now        func() time.Time
}

func NewService(d Deps) *Service {
	s := &Service{
		store:      d.Store,
		locker:     d.Locker,
		fares:      d.Fares,
		drivers:    d.Drivers,
		events:     d.Events,
		log:        d.Log,
		routeSteps: d.RouteSteps,
		now:        func() time.Time { return time.Now().UTC() },
	}
	if s.locker == nil {
		s.locker = lock.NewMemoryLocker()
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.routeSteps <= 0 {
		s.routeSteps = location.DefaultRouteSteps
	}
	return s
}

type RequestCommand struct {
	RiderName    string
	RiderPhone   string
	Pickup       types.Location
	Drop         types.Location
	VehicleType  types.VehicleType
	FixedBoothID *types.ID
}

type AssignCommand struct {
	RideID types.ID
	Driver DriverSnapshot
}

type ProgressResult struct {
	Status   Status       `json:"status"`
	Position *types.Point `json:"position,omitempty"`
	Progress float64      `json:"progress"`
}

// Request creates a ride in the requested state. The vehicle type is not checked here;
// an estimated fare is attached only when the type is priced.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (types.ID, error) {
	if cmd.RiderName == "" || cmd.RiderPhone == "" || cmd.VehicleType == "" {
		return "", ErrBadRequest
	}
	if !cmd.Pickup.Coordinate.Valid() || !cmd.Drop.Coordinate.Valid() {
		return "", ErrBadRequest
	}

	now := s.now()
	r := Ride{
		RiderName:    cmd.RiderName,
		RiderPhone:   cmd.RiderPhone,
		Pickup:       cmd.Pickup,
		Drop:         cmd.Drop,
		VehicleType:  cmd.VehicleType,
		FixedBoothID: cmd.FixedBoothID,
		Status:       StatusRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.fares != nil {
		if fare, err := s.fares.Estimate(cmd.Pickup.Coordinate, cmd.Drop.Coordinate, cmd.VehicleType); err == nil {
			r.Fare = &fare
		}
	}

	id, err := s.store.Create(ctx, r)
	if err != nil {
		return "", err
	}
	s.log.Info("ride requested", "ride_id", id, "vehicle_type", cmd.VehicleType)
	s.publish(ctx, events.Event{Type: events.RideRequested, RideID: id, Status: string(StatusRequested)})
	return id, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

// Assign attaches a claimed driver to a requested ride and moves it to driver_en_route.
func (s *Service) Assign(ctx context.Context, cmd AssignCommand) (Status, error) {
	if cmd.RideID == "" || cmd.Driver.ID == "" {
		return "", ErrBadRequest
	}
	err := s.withRide(ctx, cmd.RideID, func(ctx context.Context, r *Ride) error {
		if r.Status != StatusRequested || !CanTransition(r.Status, StatusDriverEnRoute) {
			return ErrInvalidState
		}
		snap := cmd.Driver
		if snap.TakenAt.IsZero() {
			snap.TakenAt = s.now()
		}
		return s.store.Update(ctx, r.ID, docstore.Fields{
			"status":     StatusDriverEnRoute,
			"driver":     snap,
			"updated_at": s.now(),
		})
	})
	if err != nil {
		return "", err
	}
	s.log.Info("driver assigned", "ride_id", cmd.RideID, "driver_id", cmd.Driver.ID)
	s.publish(ctx, events.Event{
		Type:     events.RideMatched,
		RideID:   cmd.RideID,
		Status:   string(StatusDriverEnRoute),
		DriverID: cmd.Driver.ID,
	})
	return StatusDriverEnRoute, nil
}

// SimulateRoute replaces the ride's route with a fresh straight-line route and rewinds the cursor.
func (s *Service) SimulateRoute(ctx context.Context, id types.ID) ([]types.Point, error) {
	var (
		points []types.Point
		status Status
	)
	err := s.withRide(ctx, id, func(ctx context.Context, r *Ride) error {
		if r.Status.IsTerminal() {
			return ErrInvalidState
		}
		points = location.InterpolateRoute(r.Pickup.Coordinate, r.Drop.Coordinate, s.routeSteps)
		status = r.Status
		return s.store.Update(ctx, r.ID, docstore.Fields{
			"route_points": points,
			"route_index":  0,
			"updated_at":   s.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	start := points[0]
	s.publish(ctx, events.Event{Type: events.RideRouteSimulated, RideID: id, Status: string(status), Position: &start})
	return points, nil
}

// Progress advances the ride one point along its route. Once the cursor is on the last
// point the next call completes the ride and frees the driver.
func (s *Service) Progress(ctx context.Context, id types.ID) (ProgressResult, error) {
	var (
		res      ProgressResult
		driverID types.ID
	)
	err := s.withRide(ctx, id, func(ctx context.Context, r *Ride) error {
		if r.Status.IsTerminal() {
			return ErrInvalidState
		}
		if len(r.RoutePoints) == 0 {
			return ErrNoRoute
		}
		if r.Driver != nil {
			driverID = r.Driver.ID
		}
		last := len(r.RoutePoints) - 1
		if r.RouteIndex < last {
			idx := r.RouteIndex + 1
			status := r.Status
			if idx > 1 {
				status = StatusOngoing
			}
			if status != r.Status && !CanTransition(r.Status, status) {
				return ErrInvalidState
			}
			if err := s.store.Update(ctx, r.ID, docstore.Fields{
				"route_index": idx,
				"status":      status,
				"updated_at":  s.now(),
			}); err != nil {
				return err
			}
			pos := r.RoutePoints[idx]
			res = ProgressResult{Status: status, Position: &pos, Progress: float64(idx) / float64(last)}
			return nil
		}

		if !CanTransition(r.Status, StatusCompleted) {
			return ErrInvalidState
		}
		if err := s.store.Update(ctx, r.ID, docstore.Fields{
			"status":     StatusCompleted,
			"updated_at": s.now(),
		}); err != nil {
			return err
		}
		pos := r.RoutePoints[last]
		res = ProgressResult{Status: StatusCompleted, Position: &pos, Progress: 1}
		return nil
	})
	if err != nil {
		return ProgressResult{}, err
	}

	if res.Status == StatusCompleted {
		s.releaseDriver(ctx, id, driverID)
		s.log.Info("ride completed", "ride_id", id, "driver_id", driverID)
		s.publish(ctx, events.Event{Type: events.RideCompleted, RideID: id, Status: string(res.Status), DriverID: driverID, Position: res.Position, Progress: &res.Progress})
		return res, nil
	}
	s.publish(ctx, events.Event{Type: events.RideProgressed, RideID: id, Status: string(res.Status), DriverID: driverID, Position: res.Position, Progress: &res.Progress})
	return res, nil
}

// releaseDriver never fails the completion; errors are only logged.
func (s *Service) releaseDriver(ctx context.Context, rideID, driverID types.ID) {
	if driverID == "" || s.drivers == nil {
		return
	}
	if err := s.drivers.Release(ctx, driverID); err != nil {
		s.log.Warn("release driver failed", "ride_id", rideID, "driver_id", driverID, "err", err)
	}
}

func (s *Service) withRide(ctx context.Context, id types.ID, fn func(ctx context.Context, r *Ride) error) error {
	return s.locker.WithLock(ctx, "ride:"+id.String(), func(ctx context.Context) error {
		r, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, r)
	})
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish ride event failed", "type", e.Type, "ride_id", e.RideID, "err", err)
	}
}
