package commands

import (
	"context"
	"errors"
	"time"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
)

var ErrReviewSourceIsNotFinished = errors.New("only a finished appointment or order can be reviewed")

// CreateReviewCommandHandler stores a patient's review of a doctor, laboratory or pharmacy.
//
// Business rules:
//   - A doctor can be reviewed for a Completed appointment
//   - A laboratory can be reviewed for a Completed lab order
//   - A pharmacy can be reviewed for a Delivered pharmacy order
//   - The source must belong to the reviewing patient, otherwise it is reported as not found
//   - One review per source; a second attempt fails with DuplicateReview and the first is kept
type CreateReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewCreateReviewCommandHandler(uowFactory ReviewUoWFactory) CreateReviewCommandHandler {
	return CreateReviewCommandHandler{uowFactory: uowFactory}
}

func (h CreateReviewCommandHandler) Handle(ctx context.Context, cmd CreateReviewCommand) (*review.Review, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	subject, err := h.resolveSubject(ctx, uow, cmd)
	if err != nil {
		return nil, err
	}

	repo := uow.ReviewRepository()
	_, exists, err := ports.FindReviewBySource(ctx, repo, cmd.SourceID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewDuplicateReviewError(cmd.SourceID().String())
	}

	r, err := review.NewReview(
		cmd.ReviewID(),
		subject,
		cmd.PatientID(),
		cmd.SourceID(),
		cmd.Scores(),
		cmd.Comment(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = repo.Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// resolveSubject loads the source and returns the party it reviews.
func (h CreateReviewCommandHandler) resolveSubject(
	ctx context.Context,
	uow ReviewUoW,
	cmd CreateReviewCommand,
) (review.Subject, error) {
	var (
		owner    kernel.UUID
		finished bool
		party    kernel.UUID
		source   string
	)

	switch cmd.SubjectKind() {
	case review.Doctor:
		visit, err := uow.AppointmentRepository().Get(ctx, cmd.SourceID())
		if err != nil {
			return review.Subject{}, err
		}
		owner, party, source = visit.PatientID(), visit.DoctorID(), appointment.AggregateKind
		finished = visit.Status() == appointment.Completed
	case review.Laboratory:
		order, err := uow.LabOrderRepository().Get(ctx, cmd.SourceID())
		if err != nil {
			return review.Subject{}, err
		}
		owner, party, source = order.PatientID(), order.LaboratoryID(), laborder.AggregateKind
		finished = order.Status() == laborder.Completed
	case review.Pharmacy:
		order, err := uow.PharmacyOrderRepository().Get(ctx, cmd.SourceID())
		if err != nil {
			return review.Subject{}, err
		}
		owner, party, source = order.PatientID(), order.PharmacyID(), pharmacyorder.AggregateKind
		finished = order.Status() == pharmacyorder.Delivered
	default:
		return review.Subject{}, cmd.SubjectKind().Validate()
	}

	if !owner.IsEqual(cmd.PatientID()) {
		return review.Subject{}, errs.NewObjectNotFoundError(source, cmd.SourceID().String())
	}
	if !finished {
		return review.Subject{}, errs.NewValueIsInvalidErrorWithCause(source, ErrReviewSourceIsNotFinished)
	}

	return review.NewSubject(cmd.SubjectKind(), party)
}
