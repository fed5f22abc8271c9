package http

import (
	"time"

	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/paging"

	"github.com/google/uuid"
)

// Requests

type ScheduleAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctorId"`
	PatientID uuid.UUID `json:"patientId"`
	StartTime time.Time `json:"startTime"`
}

type CancelAppointmentRequest struct {
	Actor string `json:"actor"`
}

type PrescriptionItemRequest struct {
	Kind         string `json:"kind"`
	ReferenceID  string `json:"referenceId"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
}

type CreatePrescriptionRequest struct {
	AppointmentID uuid.UUID                 `json:"appointmentId"`
	DoctorID      uuid.UUID                 `json:"doctorId"`
	PatientID     uuid.UUID                 `json:"patientId"`
	Notes         string                    `json:"notes,omitempty"`
	Items         []PrescriptionItemRequest `json:"items"`
}

// SelectionRequest routes prescription items to one provider. ProviderKind is
// "laboratory" or "pharmacy".
type SelectionRequest struct {
	ProviderKind string      `json:"providerKind"`
	ProviderID   uuid.UUID   `json:"providerId"`
	ItemIDs      []uuid.UUID `json:"itemIds"`
}

type CreateOrdersRequest struct {
	PatientID  uuid.UUID          `json:"patientId"`
	Selections []SelectionRequest `json:"selections"`
}

type RecordPaymentRequest struct {
	AmountMinor int64 `json:"amountMinor"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type LabResultRequest struct {
	TestID         string `json:"testId"`
	Value          string `json:"value"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	Unit           string `json:"unit,omitempty"`
	Notes          string `json:"notes,omitempty"`
	AttachmentRef  string `json:"attachmentRef,omitempty"`
	IsAbnormal     bool   `json:"isAbnormal"`
}

type SubmitResultsRequest struct {
	Results []LabResultRequest `json:"results"`
}

type ConfirmPharmacyOrderRequest struct {
	DeliveryFeeMinor int64 `json:"deliveryFeeMinor"`
}

type CreateReviewRequest struct {
	SubjectKind string         `json:"subjectKind"`
	SourceID    uuid.UUID      `json:"sourceId"`
	PatientID   uuid.UUID      `json:"patientId"`
	Scores      map[string]int `json:"scores"`
	Comment     string         `json:"comment,omitempty"`
}

// Responses

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	DoctorID    uuid.UUID  `json:"doctorId"`
	PatientID   uuid.UUID  `json:"patientId"`
	Status      string     `json:"status"`
	StartTime   time.Time  `json:"startTime"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

type PrescriptionItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	ReferenceID  string    `json:"referenceId"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID            uuid.UUID                  `json:"id"`
	AppointmentID uuid.UUID                  `json:"appointmentId"`
	DoctorID      uuid.UUID                  `json:"doctorId"`
	PatientID     uuid.UUID                  `json:"patientId"`
	Notes         string                     `json:"notes,omitempty"`
	Items         []PrescriptionItemResponse `json:"items"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

type LabTestResponse struct {
	PrescriptionItemID uuid.UUID `json:"prescriptionItemId"`
	TestID             string    `json:"testId"`
	Name               string    `json:"name"`
}

type LabResultResponse struct {
	ID             uuid.UUID `json:"id"`
	TestID         string    `json:"testId"`
	Value          string    `json:"value"`
	ReferenceRange string    `json:"referenceRange,omitempty"`
	Unit           string    `json:"unit,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	AttachmentRef  string    `json:"attachmentRef,omitempty"`
	IsAbnormal     bool      `json:"isAbnormal"`
	RecordedAt     time.Time `json:"recordedAt"`
}

type LabOrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	PrescriptionID     uuid.UUID           `json:"prescriptionId"`
	LaboratoryID       uuid.UUID           `json:"laboratoryId"`
	PatientID          uuid.UUID           `json:"patientId"`
	Status             string              `json:"status"`
	StatusText         string              `json:"statusText"`
	AmountMinor        int64               `json:"amountMinor"`
	RejectionReason    string              `json:"rejectionReason,omitempty"`
	Tests              []LabTestResponse   `json:"tests"`
	Results            []LabResultResponse `json:"results"`
	CreatedAt          time.Time           `json:"createdAt"`
	PaidAt             *time.Time          `json:"paidAt,omitempty"`
	ConfirmedAt        *time.Time          `json:"confirmedAt,omitempty"`
	RejectedAt         *time.Time          `json:"rejectedAt,omitempty"`
	SamplesCollectedAt *time.Time          `json:"samplesCollectedAt,omitempty"`
	ResultsReadyAt     *time.Time          `json:"resultsReadyAt,omitempty"`
	CompletedAt        *time.Time          `json:"completedAt,omitempty"`
	CancelledAt        *time.Time          `json:"cancelledAt,omitempty"`
}

type PharmacyOrderItemResponse struct {
	PrescriptionItemID uuid.UUID `json:"prescriptionItemId"`
	MedicationID       string    `json:"medicationId"`
	Name               string    `json:"name"`
	Instructions       string    `json:"instructions,omitempty"`
}

type PharmacyOrderResponse struct {
	ID               uuid.UUID                   `json:"id"`
	Number           string                      `json:"number"`
	PrescriptionID   uuid.UUID                   `json:"prescriptionId"`
	PharmacyID       uuid.UUID                   `json:"pharmacyId"`
	PatientID        uuid.UUID                   `json:"patientId"`
	Status           string                      `json:"status"`
	StatusText       string                      `json:"statusText"`
	DeliveryFeeMinor int64                       `json:"deliveryFeeMinor"`
	RejectionReason  string                      `json:"rejectionReason,omitempty"`
	Items            []PharmacyOrderItemResponse `json:"items"`
	CreatedAt        time.Time                   `json:"createdAt"`
	ConfirmedAt      *time.Time                  `json:"confirmedAt,omitempty"`
	RejectedAt       *time.Time                  `json:"rejectedAt,omitempty"`
	PreparingAt      *time.Time                  `json:"preparingAt,omitempty"`
	DispatchedAt     *time.Time                  `json:"dispatchedAt,omitempty"`
	DeliveredAt      *time.Time                  `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time                  `json:"cancelledAt,omitempty"`
}

type CreateOrdersResponse struct {
	LabOrders      []LabOrderResponse      `json:"labOrders"`
	PharmacyOrders []PharmacyOrderResponse `json:"pharmacyOrders"`
}

type ReviewResponse struct {
	ID          uuid.UUID      `json:"id"`
	SubjectKind string         `json:"subjectKind"`
	SubjectID   uuid.UUID      `json:"subjectId"`
	PatientID   uuid.UUID      `json:"patientId"`
	SourceID    uuid.UUID      `json:"sourceId"`
	Scores      map[string]int `json:"scores"`
	Rating      float64        `json:"rating"`
	Comment     string         `json:"comment,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type RatingSummaryResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type OrderSummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Number         string    `json:"number,omitempty"`
	PrescriptionID uuid.UUID `json:"prescriptionId"`
	ProviderID     uuid.UUID `json:"providerId"`
	PatientID      uuid.UUID `json:"patientId"`
	Status         string    `json:"status"`
	StatusText     string    `json:"statusText"`
	AmountMinor    int64     `json:"amountMinor"`
	CreatedAt      time.Time `json:"createdAt"`
}

type DoctorPatientResponse struct {
	PatientID       uuid.UUID `json:"patientId"`
	LastVisitAt     time.Time `json:"lastVisitAt"`
	CompletedVisits int64     `json:"completedVisits"`
}

// PageResponse is one page of a listing. TotalCount counts every matching row, not
// just the ones on this page.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	HasNext    bool  `json:"hasNext"`
}

// kernelUUID converts a wire identifier. The nil UUID becomes the zero kernel.UUID,
// which command constructors reject as invalid.
func kernelUUID(id uuid.UUID) kernel.UUID {
	k, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}
	}
	return k
}

func kernelUUIDs(ids []uuid.UUID) []kernel.UUID {
	out := make([]kernel.UUID, len(ids))
	for i, id := range ids {
		out[i] = kernelUUID(id)
	}
	return out
}

func toSelections(in []SelectionRequest) ([]services.Selection, error) {
	out := make([]services.Selection, len(in))
	for i, s := range in {
		kind, err := services.ParseProviderKind(s.ProviderKind)
		if err != nil {
			return nil, err
		}
		out[i] = services.Selection{
			ProviderKind: kind,
			ProviderID:   kernelUUID(s.ProviderID),
			ItemIDs:      kernelUUIDs(s.ItemIDs),
		}
	}
	return out, nil
}

func toResultInputs(in []LabResultRequest) []laborder.ResultInput {
	out := make([]laborder.ResultInput, len(in))
	for i, r := range in {
		out[i] = laborder.ResultInput{
			TestID:         r.TestID,
			Value:          r.Value,
			ReferenceRange: r.ReferenceRange,
			Unit:           r.Unit,
			Notes:          r.Notes,
			AttachmentRef:  r.AttachmentRef,
			IsAbnormal:     r.IsAbnormal,
		}
	}
	return out
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID().Bytes(),
		DoctorID:    a.DoctorID().Bytes(),
		PatientID:   a.PatientID().Bytes(),
		Status:      a.Status().String(),
		StartTime:   a.StartTime(),
		CreatedAt:   a.CreatedAt(),
		CompletedAt: a.CompletedAt(),
		CancelledAt: a.CancelledAt(),
	}
}

func toPrescriptionResponse(p *prescription.Prescription) PrescriptionResponse {
	items := make([]PrescriptionItemResponse, 0, len(p.Items()))
	for _, item := range p.Items() {
		items = append(items, PrescriptionItemResponse{
			ID:           item.ID().Bytes(),
			Kind:         item.Kind().String(),
			ReferenceID:  item.ReferenceID(),
			Name:         item.Name(),
			Instructions: item.Instructions(),
		})
	}
	return PrescriptionResponse{
		ID:            p.ID().Bytes(),
		AppointmentID: p.AppointmentID().Bytes(),
		DoctorID:      p.DoctorID().Bytes(),
		PatientID:     p.PatientID().Bytes(),
		Notes:         p.Notes(),
		Items:         items,
		CreatedAt:     p.CreatedAt(),
	}
}

func toLabOrderResponse(o *laborder.LabOrder) LabOrderResponse {
	tests := make([]LabTestResponse, 0, len(o.Tests()))
	for _, t := range o.Tests() {
		tests = append(tests, LabTestResponse{
			PrescriptionItemID: t.PrescriptionItemID().Bytes(),
			TestID:             t.TestID(),
			Name:               t.Name(),
		})
	}
	results := make([]LabResultResponse, 0, len(o.Results()))
	for _, r := range o.Results() {
		results = append(results, LabResultResponse{
			ID:             r.ID().Bytes(),
			TestID:         r.TestID(),
			Value:          r.Value(),
			ReferenceRange: r.ReferenceRange(),
			Unit:           r.Unit(),
			Notes:          r.Notes(),
			AttachmentRef:  r.AttachmentRef(),
			IsAbnormal:     r.IsAbnormal(),
			RecordedAt:     r.RecordedAt(),
		})
	}
	return LabOrderResponse{
		ID:                 o.ID().Bytes(),
		PrescriptionID:     o.PrescriptionID().Bytes(),
		LaboratoryID:       o.LaboratoryID().Bytes(),
		PatientID:          o.PatientID().Bytes(),
		Status:             o.Status().String(),
		StatusText:         o.Status().DisplayText(),
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
	}
}

func toPharmacyOrderResponse(o *pharmacyorder.PharmacyOrder) PharmacyOrderResponse {
	items := make([]PharmacyOrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, PharmacyOrderItemResponse{
			PrescriptionItemID: item.PrescriptionItemID().Bytes(),
			MedicationID:       item.MedicationID(),
			Name:               item.Name(),
			Instructions:       item.Instructions(),
		})
	}
	return PharmacyOrderResponse{
		ID:               o.ID().Bytes(),
		Number:           o.Number().String(),
		PrescriptionID:   o.PrescriptionID().Bytes(),
		PharmacyID:       o.PharmacyID().Bytes(),
		PatientID:        o.PatientID().Bytes(),
		Status:           o.Status().String(),
		StatusText:       o.Status().DisplayText(),
		DeliveryFeeMinor: o.DeliveryFee().Minor(),
		RejectionReason:  o.RejectionReason(),
		Items:            items,
		CreatedAt:        o.CreatedAt(),
		ConfirmedAt:      o.ConfirmedAt(),
		RejectedAt:       o.RejectedAt(),
		PreparingAt:      o.PreparingAt(),
		DispatchedAt:     o.DispatchedAt(),
		DeliveredAt:      o.DeliveredAt(),
		CancelledAt:      o.CancelledAt(),
	}
}

func toCreateOrdersResponse(r services.FanOutResult) CreateOrdersResponse {
	resp := CreateOrdersResponse{
		LabOrders:      make([]LabOrderResponse, 0, len(r.LabOrders)),
		PharmacyOrders: make([]PharmacyOrderResponse, 0, len(r.PharmacyOrders)),
	}
	for _, o := range r.LabOrders {
		resp.LabOrders = append(resp.LabOrders, toLabOrderResponse(o))
	}
	for _, o := range r.PharmacyOrders {
		resp.PharmacyOrders = append(resp.PharmacyOrders, toPharmacyOrderResponse(o))
	}
	return resp
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
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

func toOrderSummaryResponse(s queries.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:             s.ID.Bytes(),
		Kind:           string(s.Kind),
		Number:         s.Number,
		PrescriptionID: s.PrescriptionID.Bytes(),
		ProviderID:     s.ProviderID.Bytes(),
		PatientID:      s.PatientID.Bytes(),
		Status:         s.Status,
		StatusText:     s.StatusText,
		AmountMinor:    s.AmountMinor,
		CreatedAt:      s.CreatedAt,
	}
}

func toDoctorPatientResponse(p queries.DoctorPatient) DoctorPatientResponse {
	return DoctorPatientResponse{
		PatientID:       p.PatientID.Bytes(),
		LastVisitAt:     p.LastVisitAt,
		CompletedVisits: p.CompletedVisits,
	}
}

func toPageResponse[T, R any](result paging.Result[T], convert func(T) R) PageResponse[R] {
	items := make([]R, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return PageResponse[R]{
		Items:      items,
		TotalCount: result.TotalCount,
		PageNumber: result.Page.Number(),
		PageSize:   result.Page.Size(),
		HasNext:    result.Page.HasNext(result.TotalCount),
	}
}
