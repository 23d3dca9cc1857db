package service

import (
	"context"
	"strings"

	"qrlinks/internal/cache"
	"qrlinks/internal/config"
	"qrlinks/internal/domain"
	"qrlinks/internal/qr"
	"qrlinks/internal/repository"
	"qrlinks/internal/shortener"
	"qrlinks/pkg/logger"
	"qrlinks/pkg/validator"
)

// reserved path segments that are never treated as short codes because
// they collide with system routes. A stored link with one of these
// codes is still reachable through /r/{code}.
var reserved = map[string]struct{}{
	"":             {},
	"docs":         {},
	"openapi.json": {},
	"redoc":        {},
	"static":       {},
	"dashboard":    {},
	"config":       {},
	"login":        {},
	"logout":       {},
	"create":       {},
	"update":       {},
	"delete":       {},
	"links":        {},
	"qr":           {},
	"favicon.ico":  {},
	"health":       {},
}

// IsReserved reports whether a path segment is a system route.
func IsReserved(code string) bool {
	_, ok := reserved[code]
	return ok
}

// linkService implements the LinkService interface.
type linkService struct {
	repo      repository.LinkRepository
	cache     cache.Cache
	cfg       *config.Config
	logger    *logger.Logger
	generator *shortener.CodeGenerator
}

// NewLinkService creates a link service with its dependencies injected.
// The cache may be nil; QR rendering then happens on every request.
func NewLinkService(
	repo repository.LinkRepository,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) LinkService {
	return &linkService{
		repo:      repo,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		generator: shortener.NewCodeGenerator(cfg.CodeLength),
	}
}

// Create stores a new link. A caller-supplied code is used verbatim
// after trimming surrounding whitespace and is not validated against
// the resolution pattern; a code that can never match still round-trips
// through /r/{code}. Collisions on the custom path are left to the
// storage unique index, which reports them as domain.ErrCodeTaken.
func (s *linkService) Create(ctx context.Context, req *domain.CreateLinkRequest, identity string) (*domain.ShortLink, error) {
	code := strings.TrimSpace(req.Code)

	if code == "" {
		generated, err := s.generateUniqueCode(ctx)
		if err != nil {
			s.logger.Errorw("failed to generate short code", "error", err)
			return nil, domain.NewInternalError(err)
		}
		code = generated
	}

	link := &domain.ShortLink{
		Code:      code,
		TargetURL: req.TargetURL,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Infow("link created",
		"code", link.Code,
		"target_url", link.TargetURL,
		"by", identity,
	)

	return link, nil
}

// Update changes only the target URL; the code stays stable so printed
// QR images keep working.
func (s *linkService) Update(ctx context.Context, code, targetURL, identity string) (*domain.ShortLink, error) {
	link, err := s.repo.UpdateTarget(ctx, code, targetURL)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("link updated",
		"code", code,
		"target_url", targetURL,
		"by", identity,
	)

	return link, nil
}

func (s *linkService) Delete(ctx context.Context, code, identity string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	// Drop any cached QR payload for the dead code.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, qrCacheKey(code)); err != nil {
			s.logger.Warnw("failed to evict cached QR image", "error", err, "code", code)
		}
	}

	s.logger.Infow("link deleted", "code", code, "by", identity)
	return nil
}

func (s *linkService) List(ctx context.Context, skip, limit int) (*domain.PaginatedLinks, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	items, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	return &domain.PaginatedLinks{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}, nil
}

// Resolve decides whether a path segment redirects. Reserved words and
// pattern mismatches return the same not-found as unknown codes, so the
// response leaks nothing about which codes exist.
func (s *linkService) Resolve(ctx context.Context, code string) (string, error) {
	if IsReserved(code) || !validator.ValidCode(code) {
		return "", domain.ErrLinkNotFound
	}

	return s.resolveAndCount(ctx, code)
}

// ResolveLegacy serves previously distributed /r/{code} links, which
// bypass the reserved-word and pattern checks entirely.
func (s *linkService) ResolveLegacy(ctx context.Context, code string) (string, error) {
	return s.resolveAndCount(ctx, code)
}

// resolveAndCount looks up the target and records the visit. The
// increment is best-effort: its error is logged and discarded, the
// redirect is returned regardless.
func (s *linkService) resolveAndCount(ctx context.Context, code string) (string, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if err := s.repo.IncrementClick(ctx, code); err != nil {
		s.logger.Errorw("failed to increment click count", "error", err, "code", code)
	}

	return link.TargetURL, nil
}

// QRCode renders the absolute short URL for a live code as a base64
// PNG. The image encodes the short URL, not the target, so it is safe
// to cache for as long as the code exists.
func (s *linkService) QRCode(ctx context.Context, code string) (string, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, qrCacheKey(code))
		if err != nil {
			s.logger.Warnw("QR cache read failed", "error", err, "code", code)
		} else if cached != "" {
			return cached, nil
		}
	}

	encoded, err := qr.EncodeBase64(s.cfg.ShortURL(link.Code))
	if err != nil {
		s.logger.Errorw("failed to render QR image", "error", err, "code", code)
		return "", domain.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, qrCacheKey(code), encoded, s.cfg.CacheTTL); err != nil {
			s.logger.Warnw("QR cache write failed", "error", err, "code", code)
		}
	}

	return encoded, nil
}

// generateUniqueCode draws codes until one is free. The loop is
// unbounded; at 62^7 combinations a second pass is already vanishingly
// rare, and the unique index remains the final guard either way.
func (s *linkService) generateUniqueCode(ctx context.Context) (string, error) {
	for {
		code, err := s.generator.Generate()
		if err != nil {
			return "", err
		}

		exists, err := s.repo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}

		s.logger.Warnw("short code collision, regenerating", "code", code)
	}
}

func qrCacheKey(code string) string {
	return "qr:" + code
}
