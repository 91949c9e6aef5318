// Package cutils provides nul-terminated strings of fixed-width code units
// and the plumbing to move them across native and WebAssembly boundaries.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	cutils/          Root package with core Memory and Allocator interfaces
//	├── cstr/        Borrowed, fixed-capacity and owned C strings (8/16/32-bit)
//	├── guestmem/    Reading and lowering C strings in wazero linear memory
//	├── errors/      Structured error types for debugging
//	└── cmd/cstr/    Command line encoder and interactive inspector
//
// # Quick Start
//
// Build a string and hand it to native code:
//
//	s, err := cstr.NewEncoded[uint16]("hello")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nativeCall(s.Ptr())
//	s.Refresh() // native code may have written through the pointer
//
// Format into a fixed buffer without allocating:
//
//	var name cstr.StaticU8[[32]uint8]
//	fmt.Fprintf(&name, "worker-%d", id)
//
// Read a string out of a guest module:
//
//	mem := guestmem.NewWazeroMemory(mod.Memory())
//	s, err := guestmem.ReadCString[uint8](mem, ptr, 4096)
//
// # Code Unit Widths
//
// Each code unit holds exactly one scalar value, so the 8-bit width covers
// Latin-1, the 16-bit width the Basic Multilingual Plane, and the 32-bit
// width all of Unicode. Text that does not fit is rejected, never split.
//
// # Thread Safety
//
// Strings are plain values. They may be passed between goroutines, but
// concurrent mutation of one instance must be synchronized by the caller.
package cutils
