package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"qrlinks/internal/domain"
	"qrlinks/internal/repository"
)

// linkRepository implements repository.LinkRepository on top of GORM.
// It works against any dialector; the service is wired with sqlite in
// dev and postgres in prod.
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a GORM-backed link repository.
func NewLinkRepository(db *gorm.DB) repository.LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts a new link. The unique index on code is the final
// arbiter for collisions; application-level existence checks are only a
// pre-check.
func (r *linkRepository) Create(ctx context.Context, link *domain.ShortLink) error {
	result := r.db.WithContext(ctx).Create(link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrCodeTaken
		}
		return domain.NewInternalError(result.Error)
	}
	return nil
}

func (r *linkRepository) FindByCode(ctx context.Context, code string) (*domain.ShortLink, error) {
	var link domain.ShortLink

	result := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewInternalError(result.Error)
	}

	return &link, nil
}

// UpdateTarget mutates only target_url; code and created_at are immutable.
func (r *linkRepository) UpdateTarget(ctx context.Context, code, targetURL string) (*domain.ShortLink, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.ShortLink{}).
		Where("code = ?", code).
		Update("target_url", targetURL)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, domain.ErrLinkNotFound
	}

	return r.FindByCode(ctx, code)
}

// Delete removes the row permanently. No soft delete.
func (r *linkRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Where("code = ?", code).
		Delete(&domain.ShortLink{})

	if result.Error != nil {
		return domain.NewInternalError(result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

func (r *linkRepository) List(ctx context.Context, skip, limit int) ([]domain.ShortLink, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.ShortLink{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError(err)
	}

	links := make([]domain.ShortLink, 0, limit)
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&links)

	if result.Error != nil {
		return nil, 0, domain.NewInternalError(result.Error)
	}

	return links, total, nil
}

// IncrementClick uses a single UPDATE with an expression so concurrent
// redirects never lose counts to a read-modify-write race.
func (r *linkRepository) IncrementClick(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ShortLink{}).
		Where("code = ?", code).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))

	if result.Error != nil {
		return domain.NewInternalError(result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

func (r *linkRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.ShortLink{}).
		Where("code = ?", code).
		Count(&count)

	if result.Error != nil {
		return false, domain.NewInternalError(result.Error)
	}

	return count > 0, nil
}
