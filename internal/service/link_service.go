package service

import (
	"context"

	"qrlinks/internal/domain"
)

// LinkService defines the business logic for link management and
// redirect resolution. The identity argument on mutations is the
// verified admin identity, passed explicitly for audit logging.
type LinkService interface {
	// Create stores a new short link, generating a code when the
	// request does not supply one.
	Create(ctx context.Context, req *domain.CreateLinkRequest, identity string) (*domain.ShortLink, error)

	// Update changes the target URL of an existing link.
	Update(ctx context.Context, code, targetURL, identity string) (*domain.ShortLink, error)

	// Delete removes a link permanently.
	Delete(ctx context.Context, code, identity string) error

	// List returns a page of links ordered by creation time descending.
	List(ctx context.Context, skip, limit int) (*domain.PaginatedLinks, error)

	// Resolve maps a path segment to a target URL for redirection.
	// Reserved words and malformed segments resolve to ErrLinkNotFound
	// without touching the repository.
	Resolve(ctx context.Context, code string) (string, error)

	// ResolveLegacy resolves the back-compat /r/{code} form, which
	// skips the reserved-word and pattern checks.
	ResolveLegacy(ctx context.Context, code string) (string, error)

	// QRCode renders the short URL for a live code as a base64 PNG.
	QRCode(ctx context.Context, code string) (string, error)
}
