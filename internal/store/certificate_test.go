package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/certfolio/apiserver/types"
)

func setupCertMock(t *testing.T) (*CertificateRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewCertificateRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestCertificateCreate_Success(t *testing.T) {
	repo, mock, cleanup := setupCertMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO certificates`)).
		WithArgs(
			sqlmock.AnyArg(),
			"owner-1",
			"AWS Solutions Architect",
			"Amazon",
			"2025-01-15",
			"/uploads/123-abc.pdf",
			"",
			[]byte(`["cloud","aws"]`),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cert, err := repo.Create(context.Background(), types.Certificate{
		OwnerID:    "owner-1",
		Name:       "AWS Solutions Architect",
		Issuer:     "Amazon",
		DateIssued: "2025-01-15",
		FileUrl:    "/uploads/123-abc.pdf",
		Tags:       []string{"cloud", "aws"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.ID == "" {
		t.Errorf("expected generated id, got empty")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCertificateListByOwner_NewestFirst(t *testing.T) {
	repo, mock, cleanup := setupCertMock(t)
	defer cleanup()

	now := time.Now()
	columns := []string{"id", "owner_id", "name", "issuer", "date_issued", "file_url", "thumbnail_url", "tags", "created_at", "updated_at"}
	query := `
		SELECT id, owner_id, name, issuer, date_issued, file_url, thumbnail_url, tags, created_at, updated_at
		FROM certificates
		WHERE owner_id = $1
		ORDER BY created_at DESC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c3", "owner-1", "third", "x", "", "/uploads/3.pdf", "", []byte(`[]`), now, now).
			AddRow("c2", "owner-1", "second", "x", "", "/uploads/2.pdf", "", []byte(`[]`), now.Add(-time.Hour), now.Add(-time.Hour)).
			AddRow("c1", "owner-1", "first", "x", "", "/uploads/1.pdf", "", []byte(`[]`), now.Add(-2*time.Hour), now.Add(-2*time.Hour)))

	certs, err := repo.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(certs) != 3 {
		t.Fatalf("expected 3 certificates, got %d", len(certs))
	}
	if certs[0].ID != "c3" || certs[1].ID != "c2" || certs[2].ID != "c1" {
		t.Errorf("unexpected order: %s, %s, %s", certs[0].ID, certs[1].ID, certs[2].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCertificateListByOwner_Empty(t *testing.T) {
	repo, mock, cleanup := setupCertMock(t)
	defer cleanup()

	columns := []string{"id", "owner_id", "name", "issuer", "date_issued", "file_url", "thumbnail_url", "tags", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM certificates`)).
		WithArgs("owner-2").
		WillReturnRows(sqlmock.NewRows(columns))

	certs, err := repo.ListByOwner(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if certs == nil {
		t.Errorf("expected empty slice, got nil")
	}
	if len(certs) != 0 {
		t.Errorf("expected no certificates, got %d", len(certs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCertificateDelete_OwnerMatch(t *testing.T) {
	repo, mock, cleanup := setupCertMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM certificates WHERE id = $1 AND owner_id = $2`)).
		WithArgs("cert-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "cert-1", "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCertificateDelete_WrongOwner(t *testing.T) {
	repo, mock, cleanup := setupCertMock(t)
	defer cleanup()

	// Wrong owner means zero rows touched; the caller sees not-found rather
	// than a confirmation that someone else's record exists.
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM certificates WHERE id = $1 AND owner_id = $2`)).
		WithArgs("cert-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "cert-1", "intruder")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
