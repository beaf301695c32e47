package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/certfolio/apiserver/internal/storage"
	"github.com/certfolio/apiserver/internal/store"
	"github.com/certfolio/apiserver/types"
)

// CertificateRepository defines persistence operations for certificates.
type CertificateRepository interface {
	Create(ctx context.Context, cert types.Certificate) (types.Certificate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.Certificate, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// CreateCertificateInput is the payload for creating a certificate. The file
// must already be uploaded; FileUrl carries its reference. Thumbnail may be
// an inline base64 data URL, persisted to storage during create.
type CreateCertificateInput struct {
	Name         string
	Issuer       string
	DateIssued   string
	FileUrl      string
	ThumbnailUrl string
	Thumbnail    string
	Tags         []string
}

// CertificateService encapsulates certificate use-cases.
type CertificateService struct {
	repo  CertificateRepository
	files *storage.FileStore
}

func NewCertificateService(repo CertificateRepository, files *storage.FileStore) *CertificateService {
	return &CertificateService{repo: repo, files: files}
}

func (s *CertificateService) Create(ctx context.Context, ownerID string, input CreateCertificateInput) (types.Certificate, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Issuer = strings.TrimSpace(input.Issuer)
	input.FileUrl = strings.TrimSpace(input.FileUrl)

	if input.Name == "" {
		return types.Certificate{}, fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}
	if input.Issuer == "" {
		return types.Certificate{}, fmt.Errorf("%w: issuer is required", store.ErrInvalidInput)
	}
	if input.FileUrl == "" {
		return types.Certificate{}, fmt.Errorf("%w: fileUrl is required", store.ErrInvalidInput)
	}

	thumbnailUrl := input.ThumbnailUrl
	if input.Thumbnail != "" {
		url, err := s.saveThumbnail(ctx, input.Thumbnail)
		if err != nil {
			return types.Certificate{}, err
		}
		thumbnailUrl = url
	}

	return s.repo.Create(ctx, types.Certificate{
		OwnerID:      ownerID,
		Name:         input.Name,
		Issuer:       input.Issuer,
		DateIssued:   input.DateIssued,
		FileUrl:      input.FileUrl,
		ThumbnailUrl: thumbnailUrl,
		Tags:         input.Tags,
	})
}

func (s *CertificateService) ListByOwner(ctx context.Context, ownerID string) ([]types.Certificate, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *CertificateService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// saveThumbnail decodes an inline "data:<mime>;base64,<data>" payload and
// persists it through the file store, returning the stored reference.
func (s *CertificateService) saveThumbnail(ctx context.Context, dataURL string) (string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", fmt.Errorf("%w: invalid thumbnail format", store.ErrInvalidInput)
	}
	mediaType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok || encoded == "" {
		return "", fmt.Errorf("%w: invalid thumbnail format", store.ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid thumbnail encoding", store.ErrInvalidInput)
	}

	url, err := s.files.Save(ctx, "thumbnail.png", bytes.NewReader(data), int64(len(data)), mediaType)
	if err != nil {
		return "", fmt.Errorf("saving thumbnail: %w", err)
	}
	return url, nil
}
