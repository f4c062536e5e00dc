package ga

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/kestrelga/distga/parameter"
)

// Params holds the four GA control scalars (spec.md §3 "GA parameters").
type Params struct {
	Beta              float64
	CrossoverRate     float64
	Elitism           bool
	AlwaysIncludeBest bool
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		Beta:              parameter.DefaultBeta,
		CrossoverRate:     parameter.DefaultCrossoverRate,
		Elitism:           parameter.DefaultElitism,
		AlwaysIncludeBest: parameter.DefaultAlwaysIncludeBest,
	}
}

// Write serializes Params as two float64 and two bool bytes, little-endian.
func (p Params) Write(w io.Writer) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Beta))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.CrossoverRate))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if err := writeBool(w, p.Elitism); err != nil {
		return err
	}
	return writeBool(w, p.AlwaysIncludeBest)
}

// ReadParams decodes Params written by Write.
func ReadParams(r io.Reader) (Params, error) {
	var p Params
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return p, err
	}
	p.Beta = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return p, err
	}
	p.CrossoverRate = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
	var err error
	if p.Elitism, err = readBool(r); err != nil {
		return p, err
	}
	if p.AlwaysIncludeBest, err = readBool(r); err != nil {
		return p, err
	}
	return p, nil
}

func writeBool(w io.Writer, b bool) error {
	v := byte(0)
	if b {
		v = 1
	}
	_, err := w.Write([]byte{v})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// FactoryParams is the opaque per-problem parameter blob (spec.md §3).
// Implementations are copied by value into the engine at init time, so
// Write/Read must fully capture the instance's state.
type FactoryParams interface {
	Write(w io.Writer) error
	Read(r io.Reader) error
}
