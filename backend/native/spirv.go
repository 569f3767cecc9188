package native

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// spirvWords converts SPIR-V bytes to little-endian 32-bit words and checks
// the module header.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) < 20 || len(code)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic %#08x", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(label string, src []byte, opts naga.CompileOptions) ([]uint32, error) {
	code, err := naga.CompileWithOptions(string(src), opts)
	if err != nil {
		return nil, &CompileError{Label: label, Err: err}
	}
	return spirvWords(code)
}
