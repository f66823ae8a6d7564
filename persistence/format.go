package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/support"
)

const (
	// MagicNumber identifies saved support sets (ASCII: "PSA1").
	MagicNumber = 0x50534131
	// Version is the current format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 32

	// Ext is the name suffix Manager appends to saved support sets.
	Ext = ".psa"

	// MaxPayloadSize bounds the uncompressed payload. A full default support
	// set (5 slots of 16 frames of 30 joints) is well under 100 KiB.
	MaxPayloadSize = 64 << 20
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrUnknownCodec   = errors.New("unknown codec")
	ErrTruncated      = errors.New("truncated support set")

	// ErrPayloadTooLarge is returned for payloads above MaxPayloadSize and
	// for headers claiming more data than the body can hold.
	ErrPayloadTooLarge = errors.New("support set payload too large")
)

// FileHeader is the 32-byte header at the start of every saved support set.
type FileHeader struct {
	Magic       uint32 // 0x50534131 ("PSA1")
	Version     uint32
	Compression Compression
	Padding1    [3]byte
	Codec       [8]byte // codec name, zero padded
	PayloadSize uint32  // uncompressed payload size
	Checksum    uint32  // CRC32 of the uncompressed payload
	Reserved    [4]byte
}

// CodecName returns the codec name stored in the header.
func (h FileHeader) CodecName() string {
	return string(bytes.TrimRight(h.Codec[:], "\x00"))
}

// Snapshot is the persisted form of a support set.
type Snapshot struct {
	CreatedAt time.Time          `json:"created_at" msgpack:"created_at"`
	Exemplars []support.Exemplar `json:"exemplars" msgpack:"exemplars"`
}

// Labels returns the labels in the snapshot in registration order.
func (s *Snapshot) Labels() []string {
	out := make([]string, len(s.Exemplars))
	for i, ex := range s.Exemplars {
		out[i] = ex.Label
	}
	return out
}

// Encode serializes snap with c and compresses the payload.
func Encode(snap *Snapshot, c codec.Codec, comp Compression) ([]byte, error) {
	name := c.Name()
	if len(name) > 8 {
		return nil, fmt.Errorf("%w: name %q longer than 8 bytes", ErrUnknownCodec, name)
	}

	payload, err := c.Marshal(snap)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	body, err := compress(payload, comp)
	if err != nil {
		return nil, err
	}

	hdr := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: comp,
		PayloadSize: uint32(len(payload)),
		Checksum:    CalculateChecksum(payload),
	}
	copy(hdr.Codec[:], name)

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(body)))
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode parses a blob written by Encode.
func Decode(data []byte) (*Snapshot, FileHeader, error) {
	var hdr FileHeader
	if len(data) < HeaderSize {
		return nil, hdr, ErrTruncated
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, hdr, err
	}
	if hdr.Magic != MagicNumber {
		return nil, hdr, ErrInvalidMagic
	}
	if hdr.Version != Version {
		return nil, hdr, fmt.Errorf("%w: %d", ErrInvalidVersion, hdr.Version)
	}

	c, ok := codec.ByName(hdr.CodecName())
	if !ok {
		return nil, hdr, fmt.Errorf("%w: %q", ErrUnknownCodec, hdr.CodecName())
	}

	if hdr.PayloadSize > MaxPayloadSize {
		return nil, hdr, fmt.Errorf("%w: header claims %d bytes", ErrPayloadTooLarge, hdr.PayloadSize)
	}

	payload, err := decompress(data[HeaderSize:], hdr.Compression, int(hdr.PayloadSize))
	if err != nil {
		return nil, hdr, err
	}
	if sum := CalculateChecksum(payload); sum != hdr.Checksum {
		return nil, hdr, &ChecksumMismatchError{Expected: hdr.Checksum, Actual: sum}
	}

	var snap Snapshot
	if err := c.Unmarshal(payload, &snap); err != nil {
		return nil, hdr, err
	}
	return &snap, hdr, nil
}
