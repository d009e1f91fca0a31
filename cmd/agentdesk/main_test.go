package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIntEnv(t *testing.T) {
	t.Setenv("AGENTDESK_TEST_INT", "42")
	if got := intEnv("AGENTDESK_TEST_INT", 7); got != 42 {
		t.Errorf("intEnv = %d, want 42", got)
	}
	if got := intEnv("AGENTDESK_TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("missing: intEnv = %d, want fallback 7", got)
	}
	t.Setenv("AGENTDESK_TEST_INT", "not a number")
	if got := intEnv("AGENTDESK_TEST_INT", 7); got != 7 {
		t.Errorf("invalid: intEnv = %d, want fallback 7", got)
	}
}

func TestDurationEnv(t *testing.T) {
	t.Setenv("AGENTDESK_TEST_DUR", "90s")
	if got := durationEnv("AGENTDESK_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("durationEnv = %s, want 90s", got)
	}
	t.Setenv("AGENTDESK_TEST_DUR", "ninety")
	if got := durationEnv("AGENTDESK_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("invalid: durationEnv = %s, want fallback 1m", got)
	}
}

func TestBoolEnv(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "no": false, "off": false,
	}
	for raw, want := range cases {
		t.Setenv("AGENTDESK_TEST_BOOL", raw)
		if got := boolEnv("AGENTDESK_TEST_BOOL", !want); got != want {
			t.Errorf("boolEnv(%q) = %v, want %v", raw, got, want)
		}
	}
	t.Setenv("AGENTDESK_TEST_BOOL", "maybe")
	if got := boolEnv("AGENTDESK_TEST_BOOL", true); got != true {
		t.Error("invalid value should keep the fallback")
	}
}

func TestBackendProfileDefaults(t *testing.T) {
	t.Setenv("AGENTDESK_BACKEND_PROFILE", "")
	t.Setenv("AGENTDESK_DATA_DIR", "")
	t.Setenv("AGENTDESK_POSTGRES_DSN", "")

	if dsn, err := backendProfileDefaults(); err != nil || dsn != "" {
		t.Errorf("empty profile = (%q, %v), want no default", dsn, err)
	}

	t.Setenv("AGENTDESK_BACKEND_PROFILE", "memory")
	if dsn, err := backendProfileDefaults(); err != nil || dsn != "memory://" {
		t.Errorf("memory profile = (%q, %v)", dsn, err)
	}

	t.Setenv("AGENTDESK_BACKEND_PROFILE", "durable-local")
	t.Setenv("AGENTDESK_DATA_DIR", "/var/lib/agentdesk")
	dsn, err := backendProfileDefaults()
	if err != nil {
		t.Fatalf("durable-local: %v", err)
	}
	want := "file://" + filepath.Join("/var/lib/agentdesk", "state.json")
	if dsn != want {
		t.Errorf("durable-local dsn = %q, want %q", dsn, want)
	}

	t.Setenv("AGENTDESK_BACKEND_PROFILE", "production")
	if _, err := backendProfileDefaults(); err == nil {
		t.Error("production without DSN should fail")
	}
	t.Setenv("AGENTDESK_POSTGRES_DSN", "postgres://db/agentdesk")
	if dsn, err := backendProfileDefaults(); err != nil || dsn != "postgres://db/agentdesk" {
		t.Errorf("production profile = (%q, %v)", dsn, err)
	}

	t.Setenv("AGENTDESK_BACKEND_PROFILE", "clay-tablets")
	if _, err := backendProfileDefaults(); err == nil || !strings.Contains(err.Error(), "clay-tablets") {
		t.Errorf("unknown profile err = %v, want named profile", err)
	}
}
