package seqindex

import "errors"

// ErrCorrupt indicates an internal invariant was violated while
// chasing pointers through the logical list — in particular, the
// anti-cycle guard in Reorganize firing (spec.md §7, §9: "a correct
// implementation should never need it and should also report Corrupt
// when it fires").
var ErrCorrupt = errors.New("seqindex: corrupt index")
