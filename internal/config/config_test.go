package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"RIDE_HTTP_ADDR", "RIDE_STORE", "RIDE_LOCK", "RIDE_ROUTE_STEPS", "RIDE_AVG_SPEED_KMH", "RIDE_AMQP_URL", "RIDE_LOCK_TTL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Lock.Backend != BackendMemory {
		t.Errorf("backends = %q/%q, want memory/memory", cfg.Store.Backend, cfg.Lock.Backend)
	}
	if cfg.Dispatch.RouteSteps != 30 {
		t.Errorf("route steps = %d, want 30", cfg.Dispatch.RouteSteps)
	}
	if cfg.Lock.TTL != 5*time.Second {
		t.Errorf("lock ttl = %v", cfg.Lock.TTL)
	}
	if cfg.Events.AMQPURL != "" {
		t.Errorf("amqp url should default to empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RIDE_STORE", "postgres")
	t.Setenv("RIDE_LOCK", "redis")
	t.Setenv("RIDE_ROUTE_STEPS", "10")
	t.Setenv("RIDE_AVG_SPEED_KMH", "40.5")
	t.Setenv("RIDE_LOCK_TTL", "2s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendPostgres || cfg.Lock.Backend != BackendRedis {
		t.Errorf("backends = %q/%q", cfg.Store.Backend, cfg.Lock.Backend)
	}
	if cfg.Dispatch.RouteSteps != 10 || cfg.Dispatch.AvgSpeedKmh != 40.5 {
		t.Errorf("dispatch = %+v", cfg.Dispatch)
	}
	if cfg.Lock.TTL != 2*time.Second {
		t.Errorf("lock ttl = %v", cfg.Lock.TTL)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("RIDE_STORE", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestLoadRejectsNonPositiveSteps(t *testing.T) {
	t.Setenv("RIDE_STORE", "")
	t.Setenv("RIDE_ROUTE_STEPS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero route steps")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ride.env")
	body := "RIDE_AMQP_EXCHANGE=from_file\nRIDE_ROUTE_STEPS=12\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RIDE_ENV_FILE", path)
	t.Setenv("RIDE_STORE", "")
	t.Setenv("RIDE_LOCK", "")
	// Registered for restore, then unset so the file can provide it.
	t.Setenv("RIDE_AMQP_EXCHANGE", "")
	os.Unsetenv("RIDE_AMQP_EXCHANGE")
	t.Setenv("RIDE_ROUTE_STEPS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Events.Exchange != "from_file" {
		t.Errorf("exchange = %q, want value from env file", cfg.Events.Exchange)
	}
	if cfg.Dispatch.RouteSteps != 7 {
		t.Errorf("route steps = %d, process env should win over the file", cfg.Dispatch.RouteSteps)
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	t.Setenv("RIDE_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("RIDE_STORE", "")
	t.Setenv("RIDE_LOCK", "")
	t.Setenv("RIDE_ROUTE_STEPS", "")
	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
}
