package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestRemoteDSNRoundTrip(t *testing.T) {
	keyring.MockInit()

	if _, err := GetRemoteDSN(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before set, got %v", err)
	}
	if err := SetRemoteDSN("postgres://sync@localhost/workpulse"); err != nil {
		t.Fatal(err)
	}
	dsn, err := GetRemoteDSN()
	if err != nil {
		t.Fatal(err)
	}
	if dsn != "postgres://sync@localhost/workpulse" {
		t.Fatalf("dsn = %q", dsn)
	}
	if err := DeleteRemoteDSN(); err != nil {
		t.Fatal(err)
	}
	if err := DeleteRemoteDSN(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should report ErrNotFound, got %v", err)
	}
}

func TestSetEmpty(t *testing.T) {
	keyring.MockInit()
	if err := SetRemoteDSN(""); err == nil {
		t.Fatal("expected error for empty connection string")
	}
}
