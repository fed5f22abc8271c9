// Package reviewrepo persists doctor, laboratory and pharmacy reviews with GORM.
package reviewrepo

import (
	"time"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/review"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sourceConstraint = "idx_reviews_source_id"

// ReviewDTO maps the reviews table. Rating is stored denormalized so that the
// summary is a single aggregate query.
type ReviewDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SubjectKind string         `gorm:"size:16;index:idx_reviews_subject"`
	SubjectID   uuid.UUID      `gorm:"type:uuid;index:idx_reviews_subject"`
	PatientID   uuid.UUID      `gorm:"type:uuid;index"`
	SourceID    uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_reviews_source_id"`
	Scores      map[string]int `gorm:"type:jsonb;serializer:json"`
	Rating      float64        `gorm:"type:double precision"`
	Comment     string
	CreatedAt   time.Time      `gorm:"index"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ReviewDTO) TableName() string {
	return "reviews"
}

func fromDomain(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:          r.ID().Bytes(),
		SubjectKind: r.Subject().Kind.String(),
		SubjectID:   r.Subject().ID.Bytes(),
		PatientID:   r.PatientID().Bytes(),
		SourceID:    r.SourceID().Bytes(),
		Scores:      r.Scores(),
		Rating:      r.Rating(),
		Comment:     r.Comment(),
		CreatedAt:   r.CreatedAt(),
	}
}

func toDomain(dto ReviewDTO) (*review.Review, error) {
	id, err := pgutil.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	subjectID, err := pgutil.ToUUID(dto.SubjectID)
	if err != nil {
		return nil, err
	}
	patientID, err := pgutil.ToUUID(dto.PatientID)
	if err != nil {
		return nil, err
	}
	sourceID, err := pgutil.ToUUID(dto.SourceID)
	if err != nil {
		return nil, err
	}
	kind, err := review.ParseSubjectKind(dto.SubjectKind)
	if err != nil {
		return nil, err
	}
	subject, err := review.NewSubject(kind, subjectID)
	if err != nil {
		return nil, err
	}

	return review.NewReview(id, subject, patientID, sourceID, dto.Scores, dto.Comment, dto.CreatedAt)
}
