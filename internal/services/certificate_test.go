package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/certfolio/apiserver/internal/storage"
	"github.com/certfolio/apiserver/internal/store"
	"github.com/certfolio/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCertRepo records created certificates in memory.
type fakeCertRepo struct {
	certs []types.Certificate
}

func (f *fakeCertRepo) Create(ctx context.Context, cert types.Certificate) (types.Certificate, error) {
	cert.ID = "cert-1"
	f.certs = append(f.certs, cert)
	return cert, nil
}

func (f *fakeCertRepo) ListByOwner(ctx context.Context, ownerID string) ([]types.Certificate, error) {
	out := make([]types.Certificate, 0)
	for i := len(f.certs) - 1; i >= 0; i-- {
		if f.certs[i].OwnerID == ownerID {
			out = append(out, f.certs[i])
		}
	}
	return out, nil
}

func (f *fakeCertRepo) Delete(ctx context.Context, id, ownerID string) error {
	for i, cert := range f.certs {
		if cert.ID == id && cert.OwnerID == ownerID {
			f.certs = append(f.certs[:i], f.certs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// memBackend keeps stored files in a map.
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

func newCertService(repo *fakeCertRepo, backend storage.Backend) *CertificateService {
	return NewCertificateService(repo, storage.NewFileStore(backend))
}

func TestCertificateCreate_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input CreateCertificateInput
	}{
		{"missing name", CreateCertificateInput{Issuer: "Amazon", FileUrl: "/uploads/a.pdf"}},
		{"missing issuer", CreateCertificateInput{Name: "AWS SA", FileUrl: "/uploads/a.pdf"}},
		{"missing fileUrl", CreateCertificateInput{Name: "AWS SA", Issuer: "Amazon"}},
		{"whitespace name", CreateCertificateInput{Name: "   ", Issuer: "Amazon", FileUrl: "/uploads/a.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCertRepo{}
			svc := newCertService(repo, newMemBackend())

			_, err := svc.Create(context.Background(), "owner-1", tt.input)
			assert.ErrorIs(t, err, store.ErrInvalidInput)
			assert.Empty(t, repo.certs, "nothing may persist on invalid input")
		})
	}
}

func TestCertificateCreate_InlineThumbnail(t *testing.T) {
	repo := &fakeCertRepo{}
	backend := newMemBackend()
	svc := newCertService(repo, backend)

	png := []byte{0x89, 'P', 'N', 'G'}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	cert, err := svc.Create(context.Background(), "owner-1", CreateCertificateInput{
		Name:      "AWS SA",
		Issuer:    "Amazon",
		FileUrl:   "/uploads/a.pdf",
		Thumbnail: dataURL,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cert.ThumbnailUrl, storage.URLPrefix))
	assert.True(t, strings.HasSuffix(cert.ThumbnailUrl, ".png"))

	key := strings.TrimPrefix(cert.ThumbnailUrl, storage.URLPrefix)
	assert.Equal(t, png, backend.files[key], "decoded thumbnail bytes must be committed before create returns")
}

func TestCertificateCreate_InvalidThumbnail(t *testing.T) {
	tests := []struct {
		name      string
		thumbnail string
	}{
		{"not a data url", "http://example.com/thumb.png"},
		{"missing base64 marker", "data:image/png,rawdata"},
		{"bad encoding", "data:image/png;base64,!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCertRepo{}
			svc := newCertService(repo, newMemBackend())

			_, err := svc.Create(context.Background(), "owner-1", CreateCertificateInput{
				Name:      "AWS SA",
				Issuer:    "Amazon",
				FileUrl:   "/uploads/a.pdf",
				Thumbnail: tt.thumbnail,
			})
			assert.ErrorIs(t, err, store.ErrInvalidInput)
			assert.Empty(t, repo.certs)
		})
	}
}

func TestCertificateCreate_TagsAndOwner(t *testing.T) {
	repo := &fakeCertRepo{}
	svc := newCertService(repo, newMemBackend())

	cert, err := svc.Create(context.Background(), "owner-1", CreateCertificateInput{
		Name:    "AWS SA",
		Issuer:  "Amazon",
		FileUrl: "/uploads/a.pdf",
		Tags:    []string{"cloud", "aws"},
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", cert.OwnerID)
	assert.Equal(t, []string{"cloud", "aws"}, cert.Tags)
}
