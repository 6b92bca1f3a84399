package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etude.yml")
	data := []byte("timeSignature: \"3/4\"\nbpm: 90\ngrandStaff: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeSignature != "3/4" || cfg.BPM != 90 || !cfg.GrandStaff {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.MaxHistory != 1000 || cfg.LogLevel != "info" {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etude.yml")
	data := []byte("timeSignature: \"13/16\"\nbpm: -4\nlogLevel: loud\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeSignature != "4/4" || cfg.BPM != 120 || cfg.LogLevel != "info" {
		t.Errorf("bad values should normalize: %+v", cfg)
	}
}

func TestLoadMalformedFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etude.yml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML must fail")
	}
}
