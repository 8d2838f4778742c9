// Package loader reads a raw memory image from disk into RAM before
// the hart starts running. It performs no relocation, checksum, or
// symbolic interpretation of the image: the bytes on disk are the
// bytes in RAM (spec.md §6.1), grounded on the original C reference's
// rv_LoadProgram, which fopen's a flat binary (default "program.txt")
// and memcpy's it straight into the memory array.
package loader

import (
	"fmt"
	"os"

	"github.com/rv32emu/baserv1e/vm"
)

// DefaultImagePath is used when the caller does not specify a path,
// matching rv_LoadProgram's fallback when fn is NULL.
const DefaultImagePath = "program.txt"

// Load reads the file at path (DefaultImagePath if path is empty) and
// writes it into bus's RAM starting at offset 0. It is an error for
// the image to exceed RAM's capacity; nothing else about the image is
// validated.
func Load(bus *vm.Bus, path string) error {
	if path == "" {
		path = DefaultImagePath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if len(data) > vm.RAMSize {
		return fmt.Errorf("loader: image %q is %d bytes, exceeds RAM capacity of %d bytes", path, len(data), vm.RAMSize)
	}
	bus.LoadImage(data)
	return nil
}
