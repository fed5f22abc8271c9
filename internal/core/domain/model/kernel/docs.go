// Package kernel holds the value objects shared by every aggregate of the
// marketplace: identifiers, money amounts and status-change events.
//
// Value objects are immutable and must be created via their constructors;
// the zero value of each type fails Validate.
package kernel
