// Package pharmacyorderrepo persists pharmacy orders and their items with GORM.
package pharmacyorderrepo

import (
	"time"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/pharmacyorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const numberConstraint = "idx_pharmacy_orders_number"

// PharmacyOrderDTO maps the pharmacy_orders table.
type PharmacyOrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number          string    `gorm:"size:24;uniqueIndex:idx_pharmacy_orders_number"`
	PrescriptionID  uuid.UUID `gorm:"type:uuid;index"`
	PharmacyID      uuid.UUID `gorm:"type:uuid;index"`
	PatientID       uuid.UUID `gorm:"type:uuid;index"`
	Status          string    `gorm:"size:40;index"`
	DeliveryFee     int64
	RejectionReason string
	Items           []ItemDTO `gorm:"foreignKey:PharmacyOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time `gorm:"index"`
	ConfirmedAt     *time.Time
	RejectedAt      *time.Time
	PreparingAt     *time.Time
	DispatchedAt    *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	Version         int64          `gorm:"not null;default:0"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PharmacyOrderDTO) TableName() string {
	return "pharmacy_orders"
}

type ItemDTO struct {
	PharmacyOrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescriptionItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position           int
	MedicationID       string `gorm:"size:64"`
	Name               string
	Instructions       string
}

func (ItemDTO) TableName() string {
	return "pharmacy_order_items"
}

func fromDomain(o *pharmacyorder.PharmacyOrder) PharmacyOrderDTO {
	id := o.ID().Bytes()
	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			PharmacyOrderID:    id,
			PrescriptionItemID: item.PrescriptionItemID().Bytes(),
			Position:           i,
			MedicationID:       item.MedicationID(),
			Name:               item.Name(),
			Instructions:       item.Instructions(),
		})
	}

	return PharmacyOrderDTO{
		ID:              id,
		Number:          o.Number().String(),
		PrescriptionID:  o.PrescriptionID().Bytes(),
		PharmacyID:      o.PharmacyID().Bytes(),
		PatientID:       o.PatientID().Bytes(),
		Status:          o.Status().String(),
		DeliveryFee:     o.DeliveryFee().Minor(),
		RejectionReason: o.RejectionReason(),
		Items:           items,
		CreatedAt:       o.CreatedAt(),
		ConfirmedAt:     o.ConfirmedAt(),
		RejectedAt:      o.RejectedAt(),
		PreparingAt:     o.PreparingAt(),
		DispatchedAt:    o.DispatchedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CancelledAt:     o.CancelledAt(),
		Version:         o.Version(),
	}
}

func toDomain(dto PharmacyOrderDTO) (*pharmacyorder.PharmacyOrder, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.PrescriptionID, dto.PharmacyID, dto.PatientID} {
		id, err := pgutil.ToUUID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	number, err := pharmacyorder.ParseOrderNumber(dto.Number)
	if err != nil {
		return nil, err
	}
	status, err := pharmacyorder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	items := make([]pharmacyorder.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		itemID, itemErr := pgutil.ToUUID(i.PrescriptionItemID)
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := pharmacyorder.NewItem(itemID, i.MedicationID, i.Name, i.Instructions)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return pharmacyorder.Restore(pharmacyorder.Snapshot{
		ID:              ids[0],
		Number:          number,
		PrescriptionID:  ids[1],
		PharmacyID:      ids[2],
		PatientID:       ids[3],
		Items:           items,
		Status:          status,
		DeliveryFee:     fee,
		RejectionReason: dto.RejectionReason,
		CreatedAt:       dto.CreatedAt,
		ConfirmedAt:     dto.ConfirmedAt,
		RejectedAt:      dto.RejectedAt,
		PreparingAt:     dto.PreparingAt,
		DispatchedAt:    dto.DispatchedAt,
		DeliveredAt:     dto.DeliveredAt,
		CancelledAt:     dto.CancelledAt,
		Version:         dto.Version,
	})
}
