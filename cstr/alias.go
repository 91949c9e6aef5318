package cstr

// Width-specific names for the string family.
type (
	U8CStr  = CStr[uint8]
	U16CStr = CStr[uint16]
	U32CStr = CStr[uint32]

	U8CString  = CString[uint8]
	U16CString = CString[uint16]
	U32CString = CString[uint32]

	StaticU8[B any]  = Static[uint8, B]
	StaticU16[B any] = Static[uint16, B]
	StaticU32[B any] = Static[uint32, B]
)

// The native wide-character family. WideUnit is chosen per platform at
// build time.
type (
	WideCStr          = CStr[WideUnit]
	WideCString       = CString[WideUnit]
	StaticWide[B any] = Static[WideUnit, B]
)
