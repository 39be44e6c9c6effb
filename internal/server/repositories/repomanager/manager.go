// Package repomanager opens the configured store and vends repositories bound
// to it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory store.
const MemoryDSN = "memory"

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Users() users.Repository
	Contacts() contacts.Repository
	Close() error
}

// New returns a manager for dsn: the in-memory store for MemoryDSN, Postgres
// otherwise.
func New(dsn string) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}
	m, err := NewPostgresRepositoryManager(dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}
