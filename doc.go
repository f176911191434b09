// Package scratchmap demonstrates memory-mapped file I/O through a single,
// fully checked resource lifecycle.
//
// # Quick Start
//
//	res, err := scratchmap.Run(ctx)
//	if err != nil {
//	    var se *scratchmap.StepError
//	    if errors.As(err, &se) { ... } // se.Op names the failed call
//	}
//	fmt.Println(res.Read) // "Hello, mmap!"
//
// # Lifecycle
//
// Run walks these states, stopping at the first failure:
//
//	unopened -> opened -> sized -> mapped -> unlinked -> descriptor-closed
//	         -> written -> read -> unmapped -> done
//
// The backing file (default /tmp/test) is opened read-write with mode 0600,
// truncated to 4096 bytes and mapped with PROT_READ|PROT_WRITE and MAP_SHARED.
// Its directory entry is then removed and its descriptor closed; the mapping
// stays valid through both. The message is copied into the start of the
// region up to its first NUL byte, the rest of the region is zero filled,
// and the message is read back up to the first NUL byte.
//
// # Errors
//
// Each failing operation is reported as a *StepError matching one of
// ErrOpen, ErrResize, ErrMap, ErrUnlink, ErrClose, ErrWrite, ErrRead or
// ErrUnmap as well as the underlying platform error. Resources acquired
// before the failure are released in reverse order; failed releases are
// joined to the original error as *CleanupError values.
package scratchmap
