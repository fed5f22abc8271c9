package reviewrepo

import (
	"context"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

// GormReviewRepository implements ports.ReviewRepository using GORM.
type GormReviewRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormReviewRepository(db *gorm.DB, tracker aggregateTracker) *GormReviewRepository {
	return &GormReviewRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a review. The caller checks for an existing review first; the unique
// index on source_id catches the race between two such checks.
func (r *GormReviewRepository) Add(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgutil.IsUniqueViolation(err, sourceConstraint) {
			return errs.NewDuplicateReviewError(aggregate.SourceID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReviewRepository) Query(
	ctx context.Context,
	filter ports.ReviewFilter,
	page paging.Page,
) ([]*review.Review, int64, error) {
	base := r.db.WithContext(ctx).Model(&ReviewDTO{}).Scopes(scope(filter)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []ReviewDTO
	if err := base.Scopes(pgutil.NewestFirst, pgutil.Paginate(page)).Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	reviews := make([]*review.Review, 0, len(dtos))
	for _, dto := range dtos {
		rv, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, total, nil
}

// Summary returns the average rating and review count of subject; no reviews gives {0, 0}.
func (r *GormReviewRepository) Summary(ctx context.Context, subject review.Subject) (review.Summary, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.WithContext(ctx).Model(&ReviewDTO{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
		Scopes(scope(ports.ReviewFilter{Subject: &subject})).
		Scan(&row).Error
	if err != nil {
		return review.Summary{}, err
	}
	return review.SummaryFromTotals(row.Count, row.Total), nil
}

func scope(filter ports.ReviewFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Subject != nil {
			db = db.Where("subject_kind = ? AND subject_id = ?", filter.Subject.Kind.String(), filter.Subject.ID.Bytes())
		}
		if id := pgutil.OptionalUUID(filter.SourceID); id != nil {
			db = db.Where("source_id = ?", *id)
		}
		return db
	}
}
