package microcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedInput covers every fatal input problem: unparsable lines and
// a ROM whose size is not a power of two. Nothing is decoded past it.
var ErrMalformedInput = errors.New("malformed input")

// readHexLines parses one base-16 value per line, skipping blank lines.
func readHexLines(r io.Reader, bitSize int) ([]uint64, error) {
	var values []uint64
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, bitSize)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q is not a base-16 word", ErrMalformedInput, lineNo, line)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// ReadROM parses a ROM image: one 64-bit microword per line in base 16.
// The word count defines the address space and must be a non-zero power of
// two, or the switch masking and exhaustive-scan arithmetic would not
// cover it consistently.
func ReadROM(r io.Reader) ([]uint64, error) {
	rom, err := readHexLines(r, WordBits)
	if err != nil {
		return nil, err
	}
	n := len(rom)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: ROM holds %d words, want a non-zero power of two", ErrMalformedInput, n)
	}
	return rom, nil
}

// ReadOpcodeMap parses the opcode map: one sub-address per line in base
// 16, indexed by opcode value. The entries are later combined with
// OpcodeBase to form dispatch addresses.
func ReadOpcodeMap(r io.Reader) ([]uint16, error) {
	lines, err := readHexLines(r, 16)
	if err != nil {
		return nil, err
	}
	opmap := make([]uint16, len(lines))
	for i, v := range lines {
		opmap[i] = uint16(v)
	}
	return opmap, nil
}
