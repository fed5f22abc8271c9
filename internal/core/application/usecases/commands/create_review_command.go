package commands

import (
	"errors"
	"maps"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/pkg/guard"
)

var ErrCreateReviewCommandIsNotConstructed = errors.New(
	"CreateReviewCommand must be created via NewCreateReviewCommand constructor",
)

// CreateReviewCommand is a patient's rating of a finished interaction.
// For a doctor review SourceID is the appointment; for a laboratory or pharmacy
// review it is the lab order or pharmacy order. The reviewed party is derived
// from the source.
type CreateReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID  kernel.UUID
	kind      review.SubjectKind
	sourceID  kernel.UUID
	patientID kernel.UUID
	scores    map[string]int
	comment   string

	guard guard.ConstructorGuard
}

// NewCreateReviewCommand checks identifiers and the subject kind. Scores are
// checked against the kind's criteria when the review is built.
func NewCreateReviewCommand(
	reviewID kernel.UUID,
	kind review.SubjectKind,
	sourceID, patientID kernel.UUID,
	scores map[string]int,
	comment string,
) (CreateReviewCommand, error) {
	cmd := CreateReviewCommand{
		kind:    kind,
		scores:  maps.Clone(scores),
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setCommandUUID(&cmd.reviewID, reviewID),
		setCommandUUID(&cmd.sourceID, sourceID),
		setCommandUUID(&cmd.patientID, patientID),
		kind.Validate(),
	); err != nil {
		return CreateReviewCommand{}, err
	}

	return cmd, nil
}

func (c CreateReviewCommand) Validate() error {
	return c.guard.Validate(ErrCreateReviewCommandIsNotConstructed)
}

func (c CreateReviewCommand) ReviewID() kernel.UUID          { return c.reviewID }
func (c CreateReviewCommand) SubjectKind() review.SubjectKind { return c.kind }
func (c CreateReviewCommand) SourceID() kernel.UUID          { return c.sourceID }
func (c CreateReviewCommand) PatientID() kernel.UUID         { return c.patientID }
func (c CreateReviewCommand) Scores() map[string]int         { return maps.Clone(c.scores) }
func (c CreateReviewCommand) Comment() string                { return c.comment }
