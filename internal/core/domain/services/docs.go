// Package services contains domain services that coordinate several aggregates.
//
// The package includes:
//   - PrescriptionFanOut: splits a prescription into independent lab and pharmacy orders
//
// Domain services hold no state and never touch storage; the application layer
// loads the aggregates, calls the service and saves the result in one unit of work.
package services
