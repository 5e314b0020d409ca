package auth

import (
	"context"
	"strings"
	"sync"
)

// MemoryAdminUserRepository is an in-memory implementation for scaffolding and tests.
type MemoryAdminUserRepository struct {
	mu    sync.RWMutex
	users map[string]*AdminUser
}

// NewMemoryAdminUserRepository creates an empty in-memory admin user repository.
func NewMemoryAdminUserRepository() *MemoryAdminUserRepository {
	return &MemoryAdminUserRepository{
		users: make(map[string]*AdminUser),
	}
}

// GetByEmail retrieves an admin user by email.
func (m *MemoryAdminUserRepository) GetByEmail(_ context.Context, email string) (*AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, &NotFoundError{Resource: "admin user", Key: email}
	}
	return rec.Clone(), nil
}

// Create inserts the supplied admin user.
func (m *MemoryAdminUserRepository) Create(_ context.Context, record *AdminUser) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[strings.ToLower(record.Email)] = record.Clone()
	return record.Clone(), nil
}
