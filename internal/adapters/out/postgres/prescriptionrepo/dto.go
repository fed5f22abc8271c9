// Package prescriptionrepo persists prescriptions and their items with GORM.
package prescriptionrepo

import (
	"time"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/prescription"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrescriptionDTO maps the prescriptions table. One prescription per appointment.
type PrescriptionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_prescriptions_appointment_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;index"`
	PatientID     uuid.UUID `gorm:"type:uuid;index"`
	Notes         string
	Items         []ItemDTO `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `gorm:"index"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (PrescriptionDTO) TableName() string {
	return "prescriptions"
}

// ItemDTO maps prescription_items; Position keeps the order the doctor wrote them in.
type ItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;index"`
	Position       int
	Kind           string `gorm:"size:16"`
	ReferenceID    string `gorm:"size:64"`
	Name           string
	Instructions   string
}

func (ItemDTO) TableName() string {
	return "prescription_items"
}

func fromDomain(p *prescription.Prescription) PrescriptionDTO {
	items := make([]ItemDTO, 0, len(p.Items()))
	for i, item := range p.Items() {
		items = append(items, ItemDTO{
			ID:             item.ID().Bytes(),
			PrescriptionID: p.ID().Bytes(),
			Position:       i,
			Kind:           item.Kind().String(),
			ReferenceID:    item.ReferenceID(),
			Name:           item.Name(),
			Instructions:   item.Instructions(),
		})
	}

	return PrescriptionDTO{
		ID:            p.ID().Bytes(),
		AppointmentID: p.AppointmentID().Bytes(),
		DoctorID:      p.DoctorID().Bytes(),
		PatientID:     p.PatientID().Bytes(),
		Notes:         p.Notes(),
		Items:         items,
		CreatedAt:     p.CreatedAt(),
	}
}

func toDomain(dto PrescriptionDTO) (*prescription.Prescription, error) {
	id, err := pgutil.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	appointmentID, err := pgutil.ToUUID(dto.AppointmentID)
	if err != nil {
		return nil, err
	}
	doctorID, err := pgutil.ToUUID(dto.DoctorID)
	if err != nil {
		return nil, err
	}
	patientID, err := pgutil.ToUUID(dto.PatientID)
	if err != nil {
		return nil, err
	}

	items := make([]prescription.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := pgutil.ToUUID(itemDTO.ID)
		if itemErr != nil {
			return nil, itemErr
		}
		kind, itemErr := prescription.ParseItemKind(itemDTO.Kind)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := prescription.NewItem(itemID, kind, itemDTO.ReferenceID, itemDTO.Name, itemDTO.Instructions)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return prescription.RestorePrescription(id, appointmentID, doctorID, patientID, dto.Notes, items, dto.CreatedAt)
}
