package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestOptionsURL(t *testing.T) {
	o := Options{Host: "db", Port: "5432", Name: "idle", User: "game", Password: "p@ss word"}
	got := o.URL()
	want := "postgres://game:p%40ss%20word@db:5432/idle?sslmode=disable"
	if got != want {
		t.Errorf("URL: got %q, want %q", got, want)
	}

	o.SSLMode = "require"
	if !strings.HasSuffix(o.URL(), "sslmode=require") {
		t.Errorf("sslmode not applied: %q", o.URL())
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_accounts.up.sql")
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	for _, col := range []string{"username", "password_hash", "salt", "balance", "level", "last_collected_at", "version"} {
		if !strings.Contains(string(up), col) {
			t.Errorf("accounts table missing column %s", col)
		}
	}
	if _, err := fs.ReadFile(migrationsFS, "migrations/000001_create_accounts.down.sql"); err != nil {
		t.Errorf("read down migration: %v", err)
	}
}
