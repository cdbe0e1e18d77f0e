//
// SPDX-FileCopyrightText: Copyright (c) 2025 provide.io llc. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

// Package binfmt classifies native executables as 32-bit or 64-bit by
// reading their raw ELF or PE headers.
package binfmt

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/provide-io/distbundle/pkg/platform"
)

// ArchitectureClass is the word size a native executable was built for.
type ArchitectureClass int

const (
	Unknown ArchitectureClass = iota
	Bit32
	Bit64
)

func (c ArchitectureClass) String() string {
	switch c {
	case Bit32:
		return "32-bit"
	case Bit64:
		return "64-bit"
	default:
		return "unknown"
	}
}

// Result is the outcome of one probe. Recognized reports whether the file
// carried the expected magic bytes at all.
type Result struct {
	Class      ArchitectureClass
	Recognized bool
}

// Machine field values of interest
const (
	elfMachineX86   = 0x03
	elfMachineAMD64 = 0x3E

	peMachineI386  = 0x014c
	peMachineAMD64 = 0x8664
)

const (
	elfMachineOffset = 18 // e_machine
	peOffsetField    = 0x3C
)

var unrecognized = Result{Class: Unknown}

// ProbeELF inspects path as an ELF object.
func ProbeELF(path string) Result {
	f, ok := openRegular(path)
	if !ok {
		return unrecognized
	}
	defer f.Close()

	header := make([]byte, elfMachineOffset+2)
	if _, err := io.ReadFull(f, header); err != nil {
		return unrecognized
	}
	if header[0] != 0x7F || header[1] != 'E' || header[2] != 'L' || header[3] != 'F' {
		return unrecognized
	}

	// Both values of interest fit in the low byte, so little-endian
	// decoding gives the right answer for either byte order on x86 targets.
	switch binary.LittleEndian.Uint16(header[elfMachineOffset:]) {
	case elfMachineX86:
		return Result{Class: Bit32, Recognized: true}
	case elfMachineAMD64:
		return Result{Class: Bit64, Recognized: true}
	default:
		return Result{Class: Unknown, Recognized: true}
	}
}

// ProbePE inspects path as a Windows PE image.
func ProbePE(path string) Result {
	f, ok := openRegular(path)
	if !ok {
		return unrecognized
	}
	defer f.Close()

	dos := make([]byte, peOffsetField+4)
	if _, err := io.ReadFull(f, dos); err != nil {
		return unrecognized
	}
	if dos[0] != 'M' || dos[1] != 'Z' {
		return unrecognized
	}

	peOffset := binary.LittleEndian.Uint32(dos[peOffsetField:])
	if peOffset == 0 {
		return unrecognized
	}

	// "PE\0\0" followed by the 16-bit machine field
	pe := make([]byte, 6)
	if _, err := f.ReadAt(pe, int64(peOffset)); err != nil {
		return unrecognized
	}
	if pe[0] != 'P' || pe[1] != 'E' || pe[2] != 0 || pe[3] != 0 {
		return unrecognized
	}

	switch binary.LittleEndian.Uint16(pe[4:]) {
	case peMachineI386:
		return Result{Class: Bit32, Recognized: true}
	case peMachineAMD64:
		return Result{Class: Bit64, Recognized: true}
	default:
		return Result{Class: Unknown, Recognized: true}
	}
}

// ProbeFor selects the probe matching the executable format of target.
func ProbeFor(target platform.OS, path string) Result {
	switch target {
	case platform.Windows:
		return ProbePE(path)
	case platform.Linux:
		return ProbeELF(path)
	default:
		return unrecognized
	}
}

func openRegular(path string) (*os.File, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	return f, true
}
