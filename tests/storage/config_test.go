package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/relay/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{Enabled: true, ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "form-archive" {
		t.Errorf("container_name: got %s, want form-archive", cfg.ContainerName)
	}
}

func TestFinalizeDisabledSkipsValidation(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("disabled config should not validate: %v", err)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_ARCHIVE_ENABLED", "true")
	t.Setenv("TEST_ARCHIVE_CONTAINER", "uploads")
	t.Setenv("TEST_ARCHIVE_CONN", "override-connection")

	env := &storage.Env{
		Enabled:          "TEST_ARCHIVE_ENABLED",
		ContainerName:    "TEST_ARCHIVE_CONTAINER",
		ConnectionString: "TEST_ARCHIVE_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should be true")
	}
	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	cfg := storage.Config{Enabled: true}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "connection_string required") {
		t.Errorf("error %q does not name connection_string", err.Error())
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "form-archive",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{Enabled: true, ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if !base.Enabled {
		t.Error("enabled should be true after merge")
	}
	if base.ContainerName != "form-archive" {
		t.Errorf("container_name should remain form-archive, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}
