package review

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

const (
	MinScore = 1
	MaxScore = 5

	maxCommentLength = 2000
)

var ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview constructor")

// Review is a patient's rating of a doctor, laboratory or pharmacy.
// SourceID is the appointment or order being reviewed; one review per source.
type Review struct {
	id        kernel.UUID
	subject   Subject
	patientID kernel.UUID
	sourceID  kernel.UUID
	scores    map[string]int
	comment   string
	createdAt time.Time

	isConstructed bool
}

// NewReview checks that scores holds exactly the criteria of the subject kind,
// each between MinScore and MaxScore.
func NewReview(
	id kernel.UUID,
	subject Subject,
	patientID, sourceID kernel.UUID,
	scores map[string]int,
	comment string,
	createdAt time.Time,
) (*Review, error) {
	r := &Review{
		subject:       subject,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	var subjectErr error
	if _, err := NewSubject(subject.Kind, subject.ID); err != nil {
		subjectErr = err
	}

	if err := errors.Join(
		setUUID(&r.id, id),
		setUUID(&r.patientID, patientID),
		setUUID(&r.sourceID, sourceID),
		subjectErr,
		r.setComment(comment),
	); err != nil {
		return nil, err
	}
	if err := r.setScores(scores); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Review) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReviewIsNotConstructed
	}
	return nil
}

// Rating is the arithmetic mean of the sub-ratings.
func (r *Review) Rating() float64 {
	sum := 0
	for _, s := range r.scores {
		sum += s
	}
	return float64(sum) / float64(len(r.scores))
}

func (r *Review) ID() kernel.UUID {
	return r.id
}

func (r *Review) Subject() Subject {
	return r.subject
}

func (r *Review) PatientID() kernel.UUID {
	return r.patientID
}

func (r *Review) SourceID() kernel.UUID {
	return r.sourceID
}

// Scores returns a copy of the sub-ratings keyed by criterion.
func (r *Review) Scores() map[string]int {
	return maps.Clone(r.scores)
}

func (r *Review) Comment() string {
	return r.comment
}

func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Review) setScores(scores map[string]int) error {
	criteria := r.subject.Kind.Criteria()
	var problems []error
	for _, c := range criteria {
		score, ok := scores[c]
		if !ok {
			problems = append(problems, errs.NewValueIsRequiredError(c+" score"))
			continue
		}
		if score < MinScore || score > MaxScore {
			problems = append(problems, errs.NewValueIsOutOfRangeError(c+" score", score, MinScore, MaxScore))
		}
	}
	for _, c := range slices.Sorted(maps.Keys(scores)) {
		if !slices.Contains(criteria, c) {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"score", fmt.Errorf("%q is not rated for a %s", c, strings.ToLower(r.subject.Kind.String()))))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	r.scores = maps.Clone(scores)
	return nil
}

func (r *Review) setComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return errs.NewValueIsOutOfRangeError("comment length", len(comment), 0, maxCommentLength)
	}
	r.comment = comment
	return nil
}

func setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
