// Package laborder provides the LabOrder aggregate and its status machine.
//
// The package includes:
//   - LabOrder: one laboratory's share of a prescription, driven from payment to completion
//   - Status: the closed set of lab order states and the edges between them
//   - LabResult: a result row attached when the laboratory submits results
//
// Key business rules:
//   - Every order references a prescription, a patient and a laboratory
//   - Many lab orders may reference the same prescription
//   - Transitions follow Status edges only; an invalid action leaves the order untouched
//   - Rejection by the laboratory always carries a reason
//   - Results may only reference tests that belong to the order
package laborder
