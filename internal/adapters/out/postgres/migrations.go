package postgres

import (
	"medmarket/internal/adapters/out/postgres/appointmentrepo"
	"medmarket/internal/adapters/out/postgres/laborderrepo"
	"medmarket/internal/adapters/out/postgres/pharmacyorderrepo"
	"medmarket/internal/adapters/out/postgres/prescriptionrepo"
	"medmarket/internal/adapters/out/postgres/reviewrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents before children.
func Models() []any {
	return []any{
		&appointmentrepo.AppointmentDTO{},
		&prescriptionrepo.PrescriptionDTO{},
		&prescriptionrepo.ItemDTO{},
		&laborderrepo.LabOrderDTO{},
		&laborderrepo.TestDTO{},
		&laborderrepo.ResultDTO{},
		&pharmacyorderrepo.PharmacyOrderDTO{},
		&pharmacyorderrepo.ItemDTO{},
		&reviewrepo.ReviewDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
