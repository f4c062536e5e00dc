package wire

import (
	"bytes"
)

// FactoryMsg is the FACTORY payload (spec.md §6, table row 6):
// int32 factoryId, string moduleName, int32 popSize, factoryParams,
// gaParams. factoryParams and gaParams are opaque, length-prefixed
// blobs produced by the plug-in's own Write methods.
type FactoryMsg struct {
	FactoryID     int32
	ModuleName    string
	PopSize       int32
	FactoryParams []byte
	GAParams      []byte
}

func (m FactoryMsg) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, m.FactoryID); err != nil {
		return nil, err
	}
	if err := WriteString(&buf, m.ModuleName); err != nil {
		return nil, err
	}
	if err := WriteInt32(&buf, m.PopSize); err != nil {
		return nil, err
	}
	if err := WriteBytes(&buf, m.FactoryParams); err != nil {
		return nil, err
	}
	if err := WriteBytes(&buf, m.GAParams); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeFactoryMsg(payload []byte) (FactoryMsg, error) {
	r := bytes.NewReader(payload)
	var m FactoryMsg
	var err error
	if m.FactoryID, err = ReadInt32(r); err != nil {
		return m, err
	}
	if m.ModuleName, err = ReadString(r); err != nil {
		return m, err
	}
	if m.PopSize, err = ReadInt32(r); err != nil {
		return m, err
	}
	if m.FactoryParams, err = ReadBytes(r); err != nil {
		return m, err
	}
	if m.GAParams, err = ReadBytes(r); err != nil {
		return m, err
	}
	return m, nil
}

// GenomeFitness is one {genome, fitness} pair as carried by RESULT and
// CURRENT_BEST (spec.md §6 rows 7, 12). Both fields are opaque blobs
// produced by the plug-in's WriteGenome/WriteFitness.
type GenomeFitness struct {
	Genome  []byte
	Fitness []byte
}

// BestSetMsg is the shared RESULT/CURRENT_BEST payload: int32 count,
// {genome, fitness}·count.
type BestSetMsg struct {
	Entries []GenomeFitness
}

func (m BestSetMsg) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, int32(len(m.Entries))); err != nil {
		return nil, err
	}
	for _, e := range m.Entries {
		if err := WriteBytes(&buf, e.Genome); err != nil {
			return nil, err
		}
		if err := WriteBytes(&buf, e.Fitness); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func DecodeBestSetMsg(payload []byte) (BestSetMsg, error) {
	r := bytes.NewReader(payload)
	count, err := ReadInt32(r)
	if err != nil {
		return BestSetMsg{}, err
	}
	if count < 0 {
		return BestSetMsg{}, errTruncated
	}
	entries := make([]GenomeFitness, count)
	for i := range entries {
		g, err := ReadBytes(r)
		if err != nil {
			return BestSetMsg{}, err
		}
		f, err := ReadBytes(r)
		if err != nil {
			return BestSetMsg{}, err
		}
		entries[i] = GenomeFitness{Genome: g, Fitness: f}
	}
	return BestSetMsg{Entries: entries}, nil
}

// CalculateMsg is the CALCULATE payload (spec.md §6 row 9): int32
// factoryId, int32 count, genome·count.
type CalculateMsg struct {
	FactoryID int32
	Genomes   [][]byte
}

func (m CalculateMsg) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, m.FactoryID); err != nil {
		return nil, err
	}
	if err := WriteInt32(&buf, int32(len(m.Genomes))); err != nil {
		return nil, err
	}
	for _, g := range m.Genomes {
		if err := WriteBytes(&buf, g); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func DecodeCalculateMsg(payload []byte) (CalculateMsg, error) {
	r := bytes.NewReader(payload)
	var m CalculateMsg
	var err error
	if m.FactoryID, err = ReadInt32(r); err != nil {
		return m, err
	}
	count, err := ReadInt32(r)
	if err != nil {
		return m, err
	}
	if count < 0 {
		return m, errTruncated
	}
	m.Genomes = make([][]byte, count)
	for i := range m.Genomes {
		if m.Genomes[i], err = ReadBytes(r); err != nil {
			return m, err
		}
	}
	return m, nil
}

// FitnessMsg is the FITNESS payload (spec.md §6 row 10): int32
// factoryId, int32 count, fitness·count.
type FitnessMsg struct {
	FactoryID int32
	Fitness   [][]byte
}

func (m FitnessMsg) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, m.FactoryID); err != nil {
		return nil, err
	}
	if err := WriteInt32(&buf, int32(len(m.Fitness))); err != nil {
		return nil, err
	}
	for _, f := range m.Fitness {
		if err := WriteBytes(&buf, f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func DecodeFitnessMsg(payload []byte) (FitnessMsg, error) {
	r := bytes.NewReader(payload)
	var m FitnessMsg
	var err error
	if m.FactoryID, err = ReadInt32(r); err != nil {
		return m, err
	}
	count, err := ReadInt32(r)
	if err != nil {
		return m, err
	}
	if count < 0 {
		return m, errTruncated
	}
	m.Fitness = make([][]byte, count)
	for i := range m.Fitness {
		if m.Fitness[i], err = ReadBytes(r); err != nil {
			return m, err
		}
	}
	return m, nil
}

// FactoryResultMsg is the FACTORY_RESULT payload (spec.md §6 row 11):
// int32 factoryId, int32 available(0/1).
type FactoryResultMsg struct {
	FactoryID int32
	Available bool
}

func (m FactoryResultMsg) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteInt32(&buf, m.FactoryID); err != nil {
		return nil, err
	}
	avail := int32(0)
	if m.Available {
		avail = 1
	}
	if err := WriteInt32(&buf, avail); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeFactoryResultMsg(payload []byte) (FactoryResultMsg, error) {
	r := bytes.NewReader(payload)
	var m FactoryResultMsg
	var err error
	if m.FactoryID, err = ReadInt32(r); err != nil {
		return m, err
	}
	avail, err := ReadInt32(r)
	if err != nil {
		return m, err
	}
	m.Available = avail != 0
	return m, nil
}

// GenerationInfoMsg carries the GENERATION_INFO payload (spec.md §6 row
// 13): an opaque blob produced by the plug-in's
// WriteCommonGenerationInfo, passed through unparsed by the coordinator.
type GenerationInfoMsg struct {
	Data []byte
}

func (m GenerationInfoMsg) Encode() ([]byte, error) {
	return m.Data, nil
}

func DecodeGenerationInfoMsg(payload []byte) (GenerationInfoMsg, error) {
	return GenerationInfoMsg{Data: payload}, nil
}
