package guestmem

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/asakhar/cutils"
	"github.com/asakhar/cutils/errors"
)

var (
	_ cutils.Memory      = (*WazeroMemory)(nil)
	_ cutils.MemorySizer = (*WazeroMemory)(nil)
)

// WazeroMemory wraps wazero memory to implement cutils.Memory
type WazeroMemory struct {
	mem api.Memory
}

// NewWazeroMemory wraps mem. It returns nil when mem is nil, which is what
// api.Module.Memory reports for modules without memory.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	if mem == nil {
		return nil
	}
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, []string{"read"}, uint64(offset), uint64(length))
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return errors.OutOfBounds(errors.PhaseMemory, []string{"write"}, uint64(offset), uint64(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	val, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, []string{"read"}, uint64(offset), 1)
	}
	return val, nil
}

func (m *WazeroMemory) ReadU16(offset uint32) (uint16, error) {
	val, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, []string{"read"}, uint64(offset), 2)
	}
	return val, nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, []string{"read"}, uint64(offset), 4)
	}
	return val, nil
}

func (m *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, []string{"write"}, uint64(offset), 1)
	}
	return nil
}

func (m *WazeroMemory) WriteU16(offset uint32, value uint16) error {
	if !m.mem.WriteUint16Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, []string{"write"}, uint64(offset), 2)
	}
	return nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseMemory, []string{"write"}, uint64(offset), 4)
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}
