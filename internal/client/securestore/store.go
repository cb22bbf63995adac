// Package securestore keeps named secrets sealed with the device key inside
// the local metadata table. It stands in for the platform keychain.
package securestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/merrycards/merry/internal/client/repositories/metadata"
	"github.com/merrycards/merry/internal/cryptox"
	"github.com/merrycards/merry/internal/dbx"
)

// Purpose string bound into the HKDF expansion of the device secret.
const keyPurpose = "merry/securestore/v1"

type Store struct {
	db  *sql.DB
	key []byte
}

// New returns a Store sealing values with a key derived from deviceSecret.
func New(db *sql.DB, deviceSecret []byte) (*Store, error) {
	key, err := cryptox.DeriveKey(deviceSecret, keyPurpose)
	if err != nil {
		return nil, fmt.Errorf("derive store key: %w", err)
	}
	return &Store{db: db, key: key}, nil
}

// Get returns the value stored under name, or "" if there is none.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	sealed, err := metadata.NewSQLiteRepository(s.db).Get(ctx, name)
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", nil
	}

	plain, err := cryptox.Open(s.key, sealed, []byte(name))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	return string(plain), nil
}

// SetAll stores every pair in one transaction.
func (s *Store) SetAll(ctx context.Context, values map[string]string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for name, value := range values {
			sealed, err := cryptox.Seal(s.key, []byte(value), []byte(name))
			if err != nil {
				return fmt.Errorf("seal %s: %w", name, err)
			}
			if err := repo.Set(ctx, name, sealed); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the named values. Missing names are ignored.
func (s *Store) Delete(ctx context.Context, names ...string) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, names...)
}
