// Package wire implements the coordinator/helper/client network protocol
// (spec.md §6): length-prefixed framing, the fixed command-ID table, and
// little-endian primitive codecs for the payloads that follow a command
// ID. Grounded on network/protocol.go's Encode/Decode, adapted to this
// spec's magic+length+command-id framing (binding here because
// interoperability is explicitly in scope, spec.md §1).
package wire

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/kestrelga/distga/gaerr"
	"github.com/kestrelga/distga/parameter"
)

// Magic identifies the start of every frame (spec.md §6).
const Magic uint32 = 0x5041434B

// Frame is one length-prefixed protocol message: a command ID plus its
// payload bytes, already encoded.
type Frame struct {
	Command CommandID
	Payload []byte
}

// WriteFrame encodes f to w as: 4-byte big-endian magic, 4-byte
// big-endian length (bytes that follow: 4-byte command id + payload),
// 4-byte little-endian command id, then payload.
func WriteFrame(w io.Writer, f Frame) error {
	if len(f.Payload)+4 > parameter.MaxFrameBytes {
		return gaerr.New(gaerr.Protocol, "frame exceeds maximum size")
	}

	header := make([]byte, 12)
	binary.BigEndian.PutUint32(header[0:4], Magic)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(f.Payload)+4))
	binary.LittleEndian.PutUint32(header[8:12], uint32(f.Command))

	if _, err := w.Write(header); err != nil {
		return gaerr.Wrap(gaerr.Transport, "write frame header", err)
	}
	if len(f.Payload) > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return gaerr.Wrap(gaerr.Transport, "write frame payload", err)
		}
	}
	return nil
}

// ReadFrame decodes one frame from r, validating the magic and the
// length ceiling before allocating the payload buffer.
func ReadFrame(r io.Reader) (Frame, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return Frame{}, gaerr.Wrap(gaerr.Transport, "read frame header", err)
	}

	magic := binary.BigEndian.Uint32(header[0:4])
	if magic != Magic {
		return Frame{}, gaerr.New(gaerr.Protocol, "bad magic")
	}

	length := binary.BigEndian.Uint32(header[4:8])
	if length < 4 {
		return Frame{}, gaerr.New(gaerr.Protocol, "frame shorter than a command id")
	}
	if length > parameter.MaxFrameBytes {
		return Frame{}, gaerr.New(gaerr.Protocol, "frame exceeds maximum size")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, gaerr.Wrap(gaerr.Transport, "read frame body", err)
	}

	return Frame{
		Command: CommandID(binary.LittleEndian.Uint32(body[0:4])),
		Payload: body[4:],
	}, nil
}

// errTruncated is returned by payload decoders that hit EOF mid-field;
// kept distinct from a bare io.ErrUnexpectedEOF so callers can classify
// it as a Protocol error rather than a Transport one.
var errTruncated = errors.New("truncated payload")
