package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.Backend != "native" {
		t.Errorf("Backend = %q, want native", cfg.Backend)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout())
	}
	if cfg.Quality != "best" {
		t.Errorf("Quality = %q, want best", cfg.Quality)
	}
}

func TestParseKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := parse([]byte("backend: ytdlp\ntimeout_seconds: 10\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "ytdlp" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout())
	}
	if cfg.Port != 8000 {
		t.Errorf("omitted port lost its default: %d", cfg.Port)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := parse([]byte("port: [nonsense")); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TUBESERVE_PORT", "9000")
	t.Setenv("TUBESERVE_BACKEND", "scrape")
	t.Setenv("TUBESERVE_TIMEOUT", "5")
	t.Setenv("TUBESERVE_LOG_JSON", "true")

	cfg := Default()
	applyEnv(cfg)

	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Backend != "scrape" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if !cfg.LogJSON {
		t.Error("LogJSON not set")
	}
}

func TestApplyEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TUBESERVE_PORT", "not-a-number")
	cfg := Default()
	applyEnv(cfg)
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default kept", cfg.Port)
	}
}

func TestTimeoutFloor(t *testing.T) {
	cfg := &Config{TimeoutSeconds: -1}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s floor", cfg.Timeout())
	}
}
