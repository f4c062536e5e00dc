package wire

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		command CommandID
		payload []byte
	}{
		{"empty payload", Keepalive, nil},
		{"small payload", Fitness, []byte{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFrame(&buf, Frame{Command: tt.command, Payload: tt.payload}); err != nil {
				t.Fatalf("WriteFrame: %v", err)
			}
			got, err := ReadFrame(&buf)
			if err != nil {
				t.Fatalf("ReadFrame: %v", err)
			}
			if got.Command != tt.command {
				t.Errorf("command = %v, want %v", got.Command, tt.command)
			}
			if !bytes.Equal(got.Payload, tt.payload) {
				t.Errorf("payload = %v, want %v", got.Payload, tt.payload)
			}
		})
	}
}

func TestReadFrameBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 4})
	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

// TestFactoryMsgRoundTrip matches spec.md §8 scenario 4: encode FACTORY
// with moduleName="demo", S=64, empty factoryParams, default gaParams;
// decode; the decoded fields must equal the original.
func TestFactoryMsgRoundTrip(t *testing.T) {
	original := FactoryMsg{
		FactoryID:     7,
		ModuleName:    "demo",
		PopSize:       64,
		FactoryParams: nil,
		// ga.DefaultParams() as written by Params.Write: beta 2.5,
		// crossover 0.9 (little-endian float64s), elitism, best-pin.
		GAParams: []byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40,
			0xcd, 0xcc, 0xcc, 0xcc, 0xcc, 0xcc, 0xec, 0x3f,
			1, 1,
		},
	}
	payload, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeFactoryMsg(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.FactoryID != original.FactoryID || decoded.ModuleName != original.ModuleName || decoded.PopSize != original.PopSize {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
	if !bytes.Equal(decoded.GAParams, original.GAParams) {
		t.Errorf("GAParams mismatch")
	}
	if len(decoded.FactoryParams) != 0 {
		t.Errorf("expected empty FactoryParams, got %d bytes", len(decoded.FactoryParams))
	}
}

func TestBestSetMsgRoundTrip(t *testing.T) {
	original := BestSetMsg{Entries: []GenomeFitness{
		{Genome: []byte{1, 2}, Fitness: []byte{3, 4, 5}},
		{Genome: []byte{}, Fitness: []byte{6}},
	}}
	payload, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeBestSetMsg(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Entries) != len(original.Entries) {
		t.Fatalf("entries = %d, want %d", len(decoded.Entries), len(original.Entries))
	}
	for i := range original.Entries {
		if !bytes.Equal(decoded.Entries[i].Genome, original.Entries[i].Genome) {
			t.Errorf("entry %d genome mismatch", i)
		}
		if !bytes.Equal(decoded.Entries[i].Fitness, original.Entries[i].Fitness) {
			t.Errorf("entry %d fitness mismatch", i)
		}
	}
}
