package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.5 {
		t.Fatalf("unexpected default threshold: %v", cfg.ConfidenceThreshold)
	}
	if cfg.MaxFileSizeBytes() != 10<<20 {
		t.Fatalf("unexpected default size limit: %d", cfg.MaxFileSizeBytes())
	}
	if len(cfg.OCRLanguages) != 1 || cfg.OCRLanguages[0] != "eng" {
		t.Fatalf("unexpected default languages: %v", cfg.OCRLanguages)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.7")
	t.Setenv("ALLOWED_EXTENSIONS", ".jpg, .png")
	t.Setenv("WORKER_CONCURRENCY", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.ConfidenceThreshold != 0.7 || cfg.WorkerConcurrency != 4 {
		t.Fatalf("env not honored: %+v", cfg)
	}
	if len(cfg.AllowedExtensions) != 2 || cfg.AllowedExtensions[1] != ".png" {
		t.Fatalf("list parsing failed: %v", cfg.AllowedExtensions)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "1.5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for threshold > 1")
	}
}

func TestAllowedExtension(t *testing.T) {
	cfg := &Config{AllowedExtensions: []string{".jpg", ".jpeg", ".png"}}
	cases := []struct {
		name string
		ok   bool
	}{
		{"card.jpg", true},
		{"CARD.JPEG", true},
		{"scan.png", true},
		{"document.pdf", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := cfg.AllowedExtension(tc.name); got != tc.ok {
			t.Fatalf("AllowedExtension(%q) = %v, want %v", tc.name, got, tc.ok)
		}
	}
}
