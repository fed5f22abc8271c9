// Package review provides patient reviews of doctors, laboratories and pharmacies,
// and the rating summary derived from them.
//
// A review is immutable. Each appointment or order can be reviewed once, and only
// after it ended successfully; the application layer checks both.
package review
