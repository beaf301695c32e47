package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/certfolio/apiserver/types"
	"github.com/google/uuid"
)

// CertificateRepository handles persistence for certificates.
type CertificateRepository struct {
	db *sql.DB
}

func NewCertificateRepository(db *sql.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(ctx context.Context, cert types.Certificate) (types.Certificate, error) {
	now := time.Now()
	cert.ID = uuid.NewString()
	cert.CreatedAt = now
	cert.UpdatedAt = now

	tagsJSON, err := json.Marshal(cert.Tags)
	if err != nil {
		return types.Certificate{}, err
	}

	const query = `
		INSERT INTO certificates (id, owner_id, name, issuer, date_issued, file_url, thumbnail_url, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		cert.ID,
		cert.OwnerID,
		cert.Name,
		cert.Issuer,
		cert.DateIssued,
		cert.FileUrl,
		cert.ThumbnailUrl,
		tagsJSON,
		cert.CreatedAt,
		cert.UpdatedAt,
	); err != nil {
		return types.Certificate{}, err
	}
	return cert, nil
}

// ListByOwner returns the owner's certificates, newest first. The same query
// backs the public listing: the current design exposes identical fields to
// owners and anonymous viewers.
func (r *CertificateRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.Certificate, error) {
	const query = `
		SELECT id, owner_id, name, issuer, date_issued, file_url, thumbnail_url, tags, created_at, updated_at
		FROM certificates
		WHERE owner_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := make([]types.Certificate, 0)
	for rows.Next() {
		var cert types.Certificate
		var tagsJSON []byte
		if err := rows.Scan(
			&cert.ID,
			&cert.OwnerID,
			&cert.Name,
			&cert.Issuer,
			&cert.DateIssued,
			&cert.FileUrl,
			&cert.ThumbnailUrl,
			&tagsJSON,
			&cert.CreatedAt,
			&cert.UpdatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(tagsJSON, &cert.Tags)
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return certs, nil
}

// Delete removes a certificate only when the requester owns it. The id and
// owner match in one statement, so a wrong-owner delete reports ErrNotFound
// without confirming that the record exists.
func (r *CertificateRepository) Delete(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM certificates WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
