// Package rid defines the row identifier shared by the heap and the
// sequential index.
package rid

import "fmt"

// RID names a row's physical location: a page number and a slot index
// within that page's slot directory. RIDs are stable — once a slot is
// occupied and later freed, the same (page, slot) pair must not be
// reused for a different logical row while any RID referencing it may
// still be held.
type RID struct {
	Page uint16
	Slot uint16
}

// New builds a RID from a page and slot index.
func New(page, slot uint16) RID {
	return RID{Page: page, Slot: slot}
}

// String renders the RID as "(page,slot)" for logs and error messages.
func (r RID) String() string {
	return fmt.Sprintf("(%d,%d)", r.Page, r.Slot)
}
