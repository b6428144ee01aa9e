package eq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	stateMagic   = "SIMPLEEQ"
	stateVersion = uint32(1)
)

// MarshalBinary encodes p as a versioned blob:
//
//	magic "SIMPLEEQ" | version u32 | count u32 | count * (idLen u16 | id | value f64)
//
// All integers are little-endian. Values are stored as IEEE-754 bits, so a
// restored snapshot designs bit-identical coefficients.
func (p Parameters) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(stateMagic)

	le := binary.LittleEndian
	buf.Write(le.AppendUint32(nil, stateVersion))
	buf.Write(le.AppendUint32(nil, uint32(len(layout))))

	for _, spec := range layout {
		v, _ := p.Value(spec.ID)
		buf.Write(le.AppendUint16(nil, uint16(len(spec.ID))))
		buf.WriteString(spec.ID)
		buf.Write(le.AppendUint64(nil, math.Float64bits(v)))
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a blob written by MarshalBinary. Unknown IDs are
// skipped and missing ones keep their defaults, so older and newer layouts
// load; the result is sanitized.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	le := binary.LittleEndian

	magic := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != stateMagic {
		return fmt.Errorf("%w: bad header", ErrInvalidState)
	}

	var version, count uint32
	if err := binary.Read(r, le, &version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if version == 0 || version > stateVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedStateVersion, version)
	}
	if err := binary.Read(r, le, &count); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	values := make(map[string]float64, count)
	for i := uint32(0); i < count; i++ {
		var n uint16
		if err := binary.Read(r, le, &n); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}

		id := make([]byte, n)
		if _, err := io.ReadFull(r, id); err != nil {
			return fmt.Errorf("%w: entry %d: truncated id", ErrInvalidState, i)
		}

		var bits uint64
		if err := binary.Read(r, le, &bits); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}
		values[string(id)] = math.Float64frombits(bits)
	}

	*p = ParametersFromValues(values).Sanitize()
	return nil
}
