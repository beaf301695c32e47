package handlers

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/certfolio/apiserver/internal/services"
	"github.com/certfolio/apiserver/internal/storage"
	"github.com/certfolio/apiserver/internal/store"
	"github.com/certfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

// memUserRepo is an in-memory services.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users []types.User
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUserRepo) UpdateProfile(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.users {
		if existing.ID == user.ID {
			user.UpdatedAt = time.Now()
			m.users[i] = user
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

// memCertRepo is an in-memory services.CertificateRepository preserving the
// newest-first listing contract.
type memCertRepo struct {
	mu    sync.Mutex
	certs []types.Certificate
}

func (m *memCertRepo) Create(ctx context.Context, cert types.Certificate) (types.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Add(time.Duration(len(m.certs)) * time.Millisecond)
	cert.ID = uuid.NewString()
	cert.CreatedAt = now
	cert.UpdatedAt = now
	m.certs = append(m.certs, cert)
	return cert, nil
}

func (m *memCertRepo) ListByOwner(ctx context.Context, ownerID string) ([]types.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Certificate, 0)
	for i := len(m.certs) - 1; i >= 0; i-- {
		if m.certs[i].OwnerID == ownerID {
			out = append(out, m.certs[i])
		}
	}
	return out, nil
}

func (m *memCertRepo) Delete(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cert := range m.certs {
		if cert.ID == id && cert.OwnerID == ownerID {
			m.certs = append(m.certs[:i], m.certs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// memBackend is an in-memory storage.Backend.
type memBackend struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{files: map[string][]byte{}}
}

func (m *memBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

func (m *memBackend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBackend) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}

// newTestRouter assembles the API routes over in-memory dependencies,
// mirroring the wiring in internal/server.
func newTestRouter(userRepo *memUserRepo, certRepo *memCertRepo, backend storage.Backend) *chi.Mux {
	files := storage.NewFileStore(backend)
	userService := services.NewUserService(userRepo)
	certService := services.NewCertificateService(certRepo, files)
	authMiddleware := RequireAuth(testSecret)

	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, userService, testSecret, time.Hour)
	})
	router.Route("/api/certificates", func(r chi.Router) {
		CertificateRouter(r, certService, authMiddleware)
	})
	router.Route("/api/users", func(r chi.Router) {
		UserRouter(r, userService, authMiddleware)
	})
	router.Route("/api/upload", func(r chi.Router) {
		UploadRouter(r, files, authMiddleware)
	})
	router.Route("/uploads", func(r chi.Router) {
		FileRouter(r, files)
	})
	return router
}
