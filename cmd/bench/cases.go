// README: Runner checks: environment, ride flow over HTTP, race checks and load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// ids carried between flow steps
	rideID  string
	boothID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// call sends a JSON request and decodes a JSON response into out when out is non-nil.
func (r *Runner) call(ctx context.Context, method, path string, body, out any) (int, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, latency, fmt.Errorf("decode: %w", err)
		}
		return resp.StatusCode, latency, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, latency, nil
}

func (r *Runner) expect(ctx context.Context, method, path string, body, out any, want int) Result {
	code, latency, err := r.call(ctx, method, path, body, out)
	if err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	if code != want {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", code, want)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
}

func rideRequest(vt string) map[string]any {
	return map[string]any{
		"rider_name":   "Bench Rider",
		"rider_phone":  "9000000099",
		"pickup":       map[string]any{"name": "MG Road", "coordinate": map[string]any{"lat": 12.9716, "lng": 77.5946}},
		"drop":         map[string]any{"coordinate": map[string]any{"lat": 12.9750, "lng": 77.5900}},
		"vehicle_type": vt,
	}
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "dsn not configured"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.db.Ping(ctx); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Env: Redis connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.redis == nil {
				return Result{Status: statusSkip, Note: "redis not configured"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.redis.Ping(ctx).Err(); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Migration: apply (optional)", Run: func(ctx context.Context, r *Runner) Result {
			if !r.cfg.ApplyMigration {
				return Result{Status: statusSkip, Note: "apply-migration=false"}
			}
			if r.db == nil {
				return Result{Status: statusFail, Note: "db not configured"}
			}
			sql, err := os.ReadFile(r.cfg.MigrationPath)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			for _, s := range splitSQL(string(sql)) {
				if _, err := r.db.Exec(ctx, s); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Migration: tables exist", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "db not configured"}
			}
			tables, err := extractTables(r.cfg.MigrationPath)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			for _, t := range tables {
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
				).Scan(&exists)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: statusFail, Note: "missing table: " + t}
				}
			}
			return Result{Status: statusPass, Note: strings.Join(tables, ",")}
		}},

		{Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/health", nil, nil, http.StatusOK)
		}},
		{Name: "API: store diagnostic", Run: func(ctx context.Context, r *Runner) Result {
			var report struct {
				ConnectionStatus string `json:"connection_status"`
			}
			res := r.expect(ctx, http.MethodGet, "/test", nil, &report, http.StatusOK)
			if res.Status == statusPass && report.ConnectionStatus != "connected" {
				return Result{Status: statusFail, Latency: res.Latency, Note: "connection_status=" + report.ConnectionStatus}
			}
			return res
		}},
		{Name: "Fare: missing distance -> 400", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/fare", map[string]any{"vehicle_type": "taxi", "time_min": 10}, nil, http.StatusBadRequest)
		}},
		{Name: "API: seed sample data", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/seed", nil, nil, http.StatusOK)
		}},

		// Fare
		{Name: "Fare: auto quote", Run: func(ctx context.Context, r *Runner) Result {
			var fare struct {
				Total float64 `json:"total"`
			}
			res := r.expect(ctx, http.MethodPost, "/api/fare", map[string]any{"vehicle_type": "auto", "distance_km": 5, "time_min": 10}, &fare, http.StatusOK)
			if res.Status == statusPass && fare.Total != 95 {
				return Result{Status: statusFail, Latency: res.Latency, Note: fmt.Sprintf("total=%v want=95", fare.Total)}
			}
			return res
		}},
		{Name: "Fare: unknown vehicle -> 400", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/fare", map[string]any{"vehicle_type": "bike", "distance_km": 5, "time_min": 10}, nil, http.StatusBadRequest)
		}},
		{Name: "Drivers: list taxis", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/drivers?vt=taxi", nil, nil, http.StatusOK)
		}},

		// Ride flow
		{Name: "Ride: request", Run: func(ctx context.Context, r *Runner) Result {
			var out struct {
				RideID string `json:"ride_id"`
			}
			res := r.expect(ctx, http.MethodPost, "/api/ride/request", rideRequest("auto"), &out, http.StatusOK)
			r.rideID = out.RideID
			return res
		}},
		{Name: "Ride: tick before simulate -> 400", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/ride/tick/"+r.rideID, nil, nil, http.StatusBadRequest)
		}},
		{Name: "Ride: match driver", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/ride/match/"+r.rideID, nil, nil, http.StatusOK)
		}},
		{Name: "Ride: rematch -> 409", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/ride/match/"+r.rideID, nil, nil, http.StatusConflict)
		}},
		{Name: "Ride: simulate route", Run: func(ctx context.Context, r *Runner) Result {
			var out struct {
				Points []json.RawMessage `json:"points"`
			}
			res := r.expect(ctx, http.MethodGet, "/api/ride/simulate/"+r.rideID, nil, &out, http.StatusOK)
			if res.Status == statusPass && len(out.Points) < 2 {
				return Result{Status: statusFail, Note: fmt.Sprintf("points=%d", len(out.Points))}
			}
			return res
		}},
		{Name: "Ride: tick to completion", Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			ticks, err := r.driveToCompletion(ctx, r.rideID)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass, Latency: time.Since(start), Note: fmt.Sprintf("ticks=%d", ticks)}
		}},
		{Name: "Ride: tick after completion -> 409", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/ride/tick/"+r.rideID, nil, nil, http.StatusConflict)
		}},
		{Name: "Ride: unknown vehicle match -> 404", Run: func(ctx context.Context, r *Runner) Result {
			var out struct {
				RideID string `json:"ride_id"`
			}
			if res := r.expect(ctx, http.MethodPost, "/api/ride/request", rideRequest("bike"), &out, http.StatusOK); res.Status != statusPass {
				return res
			}
			return r.expect(ctx, http.MethodPost, "/api/ride/match/"+out.RideID, nil, nil, http.StatusNotFound)
		}},
		{Name: "Ride: missing ride -> 404", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/ride/does-not-exist", nil, nil, http.StatusNotFound)
		}},

		// Booths
		{Name: "Booth: list", Run: func(ctx context.Context, r *Runner) Result {
			var booths []struct {
				ID string `json:"id"`
			}
			res := r.expect(ctx, http.MethodGet, "/api/booths", nil, &booths, http.StatusOK)
			if res.Status == statusPass {
				if len(booths) == 0 {
					return Result{Status: statusFail, Note: "no booths"}
				}
				r.boothID = booths[0].ID
			}
			return res
		}},
		{Name: "Booth: issue ticket", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/booths/queue", map[string]any{"booth_id": r.boothID}, nil, http.StatusOK)
		}},
		{Name: "Booth: unknown booth -> 404", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/booths/queue", map[string]any{"booth_id": "does-not-exist"}, nil, http.StatusNotFound)
		}},
		{Name: "Schedule: pickup", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/schedule", map[string]any{
				"rider_phone":   "9000000099",
				"booth_id":      r.boothID,
				"vehicle_type":  "auto",
				"scheduled_for": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			}, nil, http.StatusOK)
		}},

		// Concurrency
		{Name: "Concurrency: queue tickets unique", Run: concurrentTickets},
		{Name: "Concurrency: no double booking", Run: concurrentMatch},

		// Load
		{Name: "Perf: fare quote throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/fare", map[string]any{"vehicle_type": "taxi", "distance_km": 3.2, "time_min": 12})
		}},
		{Name: "Perf: request ride throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/ride/request", rideRequest("taxi"))
		}},
	}
}

// driveToCompletion simulates a route when needed and ticks until the ride completes.
func (r *Runner) driveToCompletion(ctx context.Context, rideID string) (int, error) {
	var ride struct {
		RoutePoints []json.RawMessage `json:"route_points"`
	}
	if code, _, err := r.call(ctx, http.MethodGet, "/api/ride/"+rideID, nil, &ride); err != nil || code != http.StatusOK {
		return 0, fmt.Errorf("get ride: status=%d err=%v", code, err)
	}
	if len(ride.RoutePoints) == 0 {
		if code, _, err := r.call(ctx, http.MethodPost, "/api/ride/simulate/"+rideID, nil, nil); err != nil || code != http.StatusOK {
			return 0, fmt.Errorf("simulate: status=%d err=%v", code, err)
		}
	}
	for ticks := 1; ticks <= 1000; ticks++ {
		var res struct {
			Status string `json:"status"`
		}
		code, _, err := r.call(ctx, http.MethodPost, "/api/ride/tick/"+rideID, nil, &res)
		if err != nil {
			return ticks, err
		}
		if code != http.StatusOK {
			return ticks, fmt.Errorf("tick %d: status=%d", ticks, code)
		}
		if res.Status == "completed" {
			return ticks, nil
		}
	}
	return 1000, fmt.Errorf("ride %s never completed", rideID)
}

func concurrentTickets(ctx context.Context, r *Runner) Result {
	if r.boothID == "" {
		return Result{Status: statusSkip, Note: "no booth"}
	}
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
		dup  int
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			var out struct {
				QueueNumber int `json:"queue_number"`
			}
			code, _, err := r.call(gctx, http.MethodPost, "/api/booths/queue", map[string]any{"booth_id": r.boothID}, &out)
			if err != nil {
				return err
			}
			if code != http.StatusOK {
				return fmt.Errorf("status=%d", code)
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[out.QueueNumber] {
				dup++
			}
			seen[out.QueueNumber] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if dup > 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("duplicates=%d", dup)}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("unique=%d", len(seen))}
}

// concurrentMatch races match calls for many rides and checks no driver is attached twice.
// Matched rides are driven to completion afterwards so their drivers return to the pool.
func concurrentMatch(ctx context.Context, r *Runner) Result {
	rideIDs := make([]string, r.cfg.Concurrency)
	for i := range rideIDs {
		var out struct {
			RideID string `json:"ride_id"`
		}
		if code, _, err := r.call(ctx, http.MethodPost, "/api/ride/request", rideRequest("auto"), &out); err != nil || code != http.StatusOK {
			return Result{Status: statusFail, Note: fmt.Sprintf("request: status=%d err=%v", code, err)}
		}
		rideIDs[i] = out.RideID
	}

	var (
		wg      sync.WaitGroup
		matched = make([]bool, len(rideIDs))
		start   = make(chan struct{})
	)
	for i, id := range rideIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			code, _, err := r.call(ctx, http.MethodPost, "/api/ride/match/"+id, nil, nil)
			matched[i] = err == nil && code == http.StatusOK
		}()
	}
	close(start)
	wg.Wait()

	drivers := map[string]string{}
	success := 0
	for i, id := range rideIDs {
		if !matched[i] {
			continue
		}
		success++
		var ride struct {
			Driver *struct {
				ID string `json:"id"`
			} `json:"driver"`
		}
		if code, _, err := r.call(ctx, http.MethodGet, "/api/ride/"+id, nil, &ride); err != nil || code != http.StatusOK || ride.Driver == nil {
			return Result{Status: statusFail, Note: "matched ride has no driver: " + id}
		}
		if other, ok := drivers[ride.Driver.ID]; ok {
			return Result{Status: statusFail, Note: fmt.Sprintf("driver %s on rides %s and %s", ride.Driver.ID, other, id)}
		}
		drivers[ride.Driver.ID] = id
		if _, err := r.driveToCompletion(ctx, id); err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("matched=%d of %d", success, len(rideIDs))}
}

func perfLoad(ctx context.Context, r *Runner, path string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, err := r.call(ctx, http.MethodPost, path, payload, nil)
				if err != nil || code >= 500 {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
