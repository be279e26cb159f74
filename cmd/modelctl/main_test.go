package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/onmodelcreating/core/model"
	"github.com/artpar/onmodelcreating/domain/catalog"
)

type order struct {
	ID string
}

type orderLine struct {
	ID string
}

// Bound to the wrong type on purpose.
func (orderLine) OnModelCreating(b *model.EntityTypeBuilder[order]) {}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("MODELCTL_DATABASE_DSN", filepath.Join(dir, "model.db"))
	t.Setenv("MODELCTL_LOG_FORMAT", "json")
	t.Setenv("MODELCTL_LOG_LEVEL", "error")
	applyDSN = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.yaml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	if !strings.Contains(out, "4 invoked, 1 skipped, 0 failed") {
		t.Errorf("output should contain summary:\n%s", out)
	}
	if !strings.Contains(out, "catalog.Tag") {
		t.Errorf("output should list catalog.Tag:\n%s", out)
	}
}

func TestCheck_Misbound(t *testing.T) {
	registerModel = func(mb *model.Builder) {
		model.Entity[order](mb)
		model.Entity[orderLine](mb)
	}
	t.Cleanup(func() { registerModel = catalog.Register })

	out, err := execute(t, "check")
	if err == nil {
		t.Fatal("check should fail for a misbound entity type")
	}
	if !strings.Contains(err.Error(), "must only implement") {
		t.Errorf("error = %v, want misbound message", err)
	}
	if !strings.Contains(out, crossMark) {
		t.Errorf("output should mark the failed type:\n%s", out)
	}
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS catalog_audit_log",
		"CREATE UNIQUE INDEX IF NOT EXISTS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestApply(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "apply.db")

	out, err := execute(t, "apply", "--dsn", dsn)
	if err != nil {
		t.Fatalf("apply error = %v", err)
	}
	if !strings.Contains(out, "5 tables ensured in "+dsn) {
		t.Errorf("output = %q, want tables ensured in %s", out, dsn)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "modelctl dev") {
		t.Errorf("output = %q, want modelctl dev", out)
	}
}
