// Package pharmacyorder provides the PharmacyOrder aggregate and its status machine.
//
// The package includes:
//   - PharmacyOrder: one pharmacy's share of a prescription, from placement to delivery
//   - Status: the closed set of pharmacy order states and the edges between them
//   - OrderNumber: the unique human-facing reference printed on receipts
//
// Key business rules:
//   - Every order references a prescription, a patient and a pharmacy
//   - Many pharmacy orders may reference the same prescription
//   - The delivery fee is fixed when the pharmacy confirms
//   - Rejection by the pharmacy always carries a reason
package pharmacyorder
