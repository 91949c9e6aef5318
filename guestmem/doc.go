// Package guestmem moves nul-terminated strings in and out of WebAssembly
// linear memory.
//
// Guest strings are sequences of little-endian code units ending in a zero
// unit, the layout C code compiled to wasm32 uses for char, char16_t and
// wchar_t strings. Reads are always bounded: a guest pointer is untrusted,
// so ReadCString scans at most the requested number of units and never past
// the end of memory.
//
// # Memory
//
// WazeroMemory adapts a wazero api.Memory to cutils.Memory. Any other
// implementation works too; tests use plain byte slices.
//
// # Allocation
//
// Lower copies a string into guest memory obtained from a cutils.Allocator
// and records it in an AllocationList so the host can free everything it
// handed to the guest in one call:
//
//	list := guestmem.NewAllocationList()
//	defer list.FreeAndRelease(alloc)
//
//	ptr, err := guestmem.Lower[uint8](mem, alloc, "hello", list)
//
// GuestAllocator calls the allocator a module exports (cabi_realloc and its
// older spellings). Bump serves modules that export none.
package guestmem
