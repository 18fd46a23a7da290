// Package keyring keeps the remote sync connection string in the OS keyring
// so it never has to live in the config file.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "workpulse"
	account = "remote-dsn"
)

var (
	ErrNotFound    = errors.New("remote connection string not found in keyring")
	ErrUnavailable = errors.New("OS keyring is not available")
)

func GetRemoteDSN() (string, error) {
	dsn, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return dsn, nil
}

func SetRemoteDSN(dsn string) error {
	if dsn == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(service, account, dsn); err != nil {
		return fmt.Errorf("store connection string in keyring: %w", err)
	}
	return nil
}

func DeleteRemoteDSN() error {
	if err := keyring.Delete(service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete connection string from keyring: %w", err)
	}
	return nil
}
