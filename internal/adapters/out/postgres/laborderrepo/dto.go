// Package laborderrepo persists lab orders, their tests and their results with GORM.
package laborderrepo

import (
	"time"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LabOrderDTO maps the lab_orders table. Version backs optimistic concurrency.
// Many rows may share one prescription.
type LabOrderDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescriptionID     uuid.UUID `gorm:"type:uuid;index"`
	LaboratoryID       uuid.UUID `gorm:"type:uuid;index"`
	PatientID          uuid.UUID `gorm:"type:uuid;index"`
	Status             string    `gorm:"size:40;index"`
	AmountMinor        int64
	RejectionReason    string
	Tests              []TestDTO   `gorm:"foreignKey:LabOrderID;constraint:OnDelete:CASCADE"`
	Results            []ResultDTO `gorm:"foreignKey:LabOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time   `gorm:"index"`
	PaidAt             *time.Time
	ConfirmedAt        *time.Time
	RejectedAt         *time.Time
	SamplesCollectedAt *time.Time
	ResultsReadyAt     *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	Version            int64          `gorm:"not null;default:0"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (LabOrderDTO) TableName() string {
	return "lab_orders"
}

// TestDTO maps lab_order_tests, the prescription items routed to the laboratory.
type TestDTO struct {
	LabOrderID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescriptionItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position           int
	TestID             string `gorm:"size:64"`
	Name               string
}

func (TestDTO) TableName() string {
	return "lab_order_tests"
}

// ResultDTO maps lab_results. A test is reported at most once per order.
type ResultDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LabOrderID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_lab_results_order_test"`
	TestID         string    `gorm:"size:64;uniqueIndex:idx_lab_results_order_test"`
	Position       int
	Value          string
	ReferenceRange string
	Unit           string `gorm:"size:32"`
	Notes          string
	AttachmentRef  string
	IsAbnormal     bool
	RecordedAt     time.Time
}

func (ResultDTO) TableName() string {
	return "lab_results"
}

func fromDomain(o *laborder.LabOrder) LabOrderDTO {
	id := o.ID().Bytes()

	tests := make([]TestDTO, 0, len(o.Tests()))
	for i, t := range o.Tests() {
		tests = append(tests, TestDTO{
			LabOrderID:         id,
			PrescriptionItemID: t.PrescriptionItemID().Bytes(),
			Position:           i,
			TestID:             t.TestID(),
			Name:               t.Name(),
		})
	}

	results := make([]ResultDTO, 0, len(o.Results()))
	for i, r := range o.Results() {
		results = append(results, ResultDTO{
			ID:             r.ID().Bytes(),
			LabOrderID:     id,
			TestID:         r.TestID(),
			Position:       i,
			Value:          r.Value(),
			ReferenceRange: r.ReferenceRange(),
			Unit:           r.Unit(),
			Notes:          r.Notes(),
			AttachmentRef:  r.AttachmentRef(),
			IsAbnormal:     r.IsAbnormal(),
			RecordedAt:     r.RecordedAt(),
		})
	}

	return LabOrderDTO{
		ID:                 id,
		PrescriptionID:     o.PrescriptionID().Bytes(),
		LaboratoryID:       o.LaboratoryID().Bytes(),
		PatientID:          o.PatientID().Bytes(),
		Status:             o.Status().String(),
		AmountMinor:        o.Amount().Minor(),
		RejectionReason:    o.RejectionReason(),
		Tests:              tests,
		Results:            results,
		CreatedAt:          o.CreatedAt(),
		PaidAt:             o.PaidAt(),
		ConfirmedAt:        o.ConfirmedAt(),
		RejectedAt:         o.RejectedAt(),
		SamplesCollectedAt: o.SamplesCollectedAt(),
		ResultsReadyAt:     o.ResultsReadyAt(),
		CompletedAt:        o.CompletedAt(),
		CancelledAt:        o.CancelledAt(),
		Version:            o.Version(),
	}
}

func toDomain(dto LabOrderDTO) (*laborder.LabOrder, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.PrescriptionID, dto.LaboratoryID, dto.PatientID} {
		id, err := pgutil.ToUUID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	status, err := laborder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountMinor)
	if err != nil {
		return nil, err
	}

	tests := make([]laborder.Test, 0, len(dto.Tests))
	for _, t := range dto.Tests {
		itemID, itemErr := pgutil.ToUUID(t.PrescriptionItemID)
		if itemErr != nil {
			return nil, itemErr
		}
		test, itemErr := laborder.NewTest(itemID, t.TestID, t.Name)
		if itemErr != nil {
			return nil, itemErr
		}
		tests = append(tests, test)
	}

	results := make([]laborder.LabResult, 0, len(dto.Results))
	for _, r := range dto.Results {
		resultID, resultErr := pgutil.ToUUID(r.ID)
		if resultErr != nil {
			return nil, resultErr
		}
		result, resultErr := laborder.NewLabResult(resultID, laborder.ResultInput{
			TestID:         r.TestID,
			Value:          r.Value,
			ReferenceRange: r.ReferenceRange,
			Unit:           r.Unit,
			Notes:          r.Notes,
			AttachmentRef:  r.AttachmentRef,
			IsAbnormal:     r.IsAbnormal,
		}, r.RecordedAt)
		if resultErr != nil {
			return nil, resultErr
		}
		results = append(results, result)
	}

	return laborder.Restore(laborder.Snapshot{
		ID:                 ids[0],
		PrescriptionID:     ids[1],
		LaboratoryID:       ids[2],
		PatientID:          ids[3],
		Tests:              tests,
		Status:             status,
		Amount:             amount,
		RejectionReason:    dto.RejectionReason,
		Results:            results,
		CreatedAt:          dto.CreatedAt,
		PaidAt:             dto.PaidAt,
		ConfirmedAt:        dto.ConfirmedAt,
		RejectedAt:         dto.RejectedAt,
		SamplesCollectedAt: dto.SamplesCollectedAt,
		ResultsReadyAt:     dto.ResultsReadyAt,
		CompletedAt:        dto.CompletedAt,
		CancelledAt:        dto.CancelledAt,
		Version:            dto.Version,
	})
}
