package repomanager

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/memory"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users() }

func (m *MemoryRepositoryManager) Contacts() contacts.Repository { return m.store.Contacts() }

func (m *MemoryRepositoryManager) Close() error { return nil }
