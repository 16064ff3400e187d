// Package ptrx provides pointer helpers for building partial-update patches
// and optional request fields.
package ptrx

import "time"

// String returns a pointer to the string value passed in.
func String(v string) *string { return &v }

// Bool returns a pointer to the bool value passed in.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to the int value passed in.
func Int(v int) *int { return &v }

// Int64 returns a pointer to the int64 value passed in.
func Int64(v int64) *int64 { return &v }

// Time returns a pointer to the time value passed in.
func Time(v time.Time) *time.Time { return &v }

// Value dereferences p, returning the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
