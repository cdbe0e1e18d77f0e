// Package binfmttest builds minimal ELF and PE headers for tests.
package binfmttest

import (
	"encoding/binary"

	"github.com/provide-io/distbundle/pkg/binfmt"
	"github.com/provide-io/distbundle/pkg/platform"
)

// ELF returns a 64-byte ELF header with the given machine field.
func ELF(machine uint16) []byte {
	data := make([]byte, 64)
	copy(data, []byte{0x7F, 'E', 'L', 'F', 2, 1, 1})
	binary.LittleEndian.PutUint16(data[18:], machine)
	return data
}

// PE returns a DOS stub pointing at a PE signature with the given machine field.
func PE(machine uint16) []byte {
	data := make([]byte, 0x80+6)
	data[0], data[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(data[0x3C:], 0x80)
	copy(data[0x80:], []byte{'P', 'E', 0, 0})
	binary.LittleEndian.PutUint16(data[0x84:], machine)
	return data
}

// Executable returns header bytes of the native format of target classified as class.
func Executable(target platform.OS, class binfmt.ArchitectureClass) []byte {
	if target == platform.Windows {
		if class == binfmt.Bit64 {
			return PE(0x8664)
		}
		return PE(0x014c)
	}
	if class == binfmt.Bit64 {
		return ELF(0x3E)
	}
	return ELF(0x03)
}
