// Package appointment provides the Appointment aggregate: a scheduled visit between
// a doctor and a patient. A completed appointment is what allows a prescription
// to be issued and the doctor to be reviewed.
package appointment
