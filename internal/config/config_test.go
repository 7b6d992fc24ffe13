package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TLS_CERT", "")
	t.Setenv("TLS_KEY", "")
	t.Setenv("SHELL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, defaultPort)
	}
	if cfg.Shell != "/bin/sh" {
		t.Errorf("Shell = %q, want /bin/sh", cfg.Shell)
	}
}

func TestLoadCustomPort(t *testing.T) {
	t.Setenv("PORT", "8443")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8443 {
		t.Errorf("Port = %d, want 8443", cfg.Port)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadMismatchedTLSPair(t *testing.T) {
	t.Setenv("TLS_CERT", "/tmp/cert.pem")
	t.Setenv("TLS_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when only TLS_CERT is set")
	}
}

func TestLoadUsesShellEnv(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Shell != "/bin/zsh" {
		t.Errorf("Shell = %q, want /bin/zsh", cfg.Shell)
	}
}
