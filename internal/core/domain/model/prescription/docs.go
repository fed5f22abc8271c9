// Package prescription provides the Prescription aggregate written by a doctor
// at the end of an appointment.
//
// A prescription owns one or more items, each a lab test or a medication
// reference. It is immutable once created; patients later fan it out into any
// number of independent lab and pharmacy orders, so nothing here assumes a
// single downstream order.
package prescription
