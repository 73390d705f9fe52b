package heap

import "errors"

// Sentinel errors returned by Heap operations (spec.md §7).
//
// Callers should use [errors.Is] to check error kinds, following the
// teacher's slotcache sentinel-error convention (see pkg/slotcache/api.go).
var (
	// ErrRowTooLarge indicates a packed row plus its slot entry cannot
	// fit on any single page. Rows are never split across pages.
	ErrRowTooLarge = errors.New("heap: row too large for a page")

	// ErrSlotOutOfRange indicates a RID names a slot index the page's
	// current directory does not have.
	ErrSlotOutOfRange = errors.New("heap: slot out of range")

	// ErrSlotDeleted indicates a RID names a slot that has been deleted
	// (or was never occupied).
	ErrSlotDeleted = errors.New("heap: slot deleted")

	// ErrCorrupt indicates an internal invariant was violated while
	// reading page structure.
	ErrCorrupt = errors.New("heap: corrupt page")
)
