package repository

import (
	"context"

	"qrlinks/internal/domain"
)

// LinkRepository defines the contract for short link persistence.
// The interface keeps the service layer independent of the storage
// backend (sqlite in dev, postgres in prod).
type LinkRepository interface {
	// Create stores a new short link. Returns domain.ErrCodeTaken when
	// the unique index on code rejects the insert.
	Create(ctx context.Context, link *domain.ShortLink) error

	// FindByCode retrieves a link by its short code.
	FindByCode(ctx context.Context, code string) (*domain.ShortLink, error)

	// UpdateTarget changes the target URL of an existing link.
	UpdateTarget(ctx context.Context, code, targetURL string) (*domain.ShortLink, error)

	// Delete removes a link permanently. Returns domain.ErrLinkNotFound
	// when no row matched.
	Delete(ctx context.Context, code string) error

	// List returns links ordered by created_at descending, plus the
	// total row count for pagination.
	List(ctx context.Context, skip, limit int) ([]domain.ShortLink, int64, error)

	// IncrementClick atomically increments the click counter.
	IncrementClick(ctx context.Context, code string) error

	// ExistsByCode checks code existence without fetching the row.
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
