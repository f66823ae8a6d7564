package persistence

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/poseact/blobstore"
	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/support"
	"github.com/hupe1980/poseact/testutil"
)

type fakeRecognizer struct {
	exs      []support.Exemplar
	restored []support.Exemplar
	err      error
}

func (f *fakeRecognizer) Exemplars() []support.Exemplar { return f.exs }

func (f *fakeRecognizer) Restore(_ context.Context, exs []support.Exemplar) error {
	if f.err != nil {
		return f.err
	}
	f.restored = exs
	return nil
}

func testExemplars() []support.Exemplar {
	rng := testutil.NewRNG(99)
	return []support.Exemplar{
		{Label: "clap", Slot: 1, Frames: rng.Sequence(4, 6)},
		{Label: "wave", Slot: 0, Frames: testutil.ConstantSequence(4, 6, 0.5)},
	}
}

func TestEncodeDecode(t *testing.T) {
	snap := &Snapshot{
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Exemplars: testExemplars(),
	}

	for _, c := range []codec.Codec{codec.JSON{}, codec.MsgPack{}} {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				data, err := Encode(snap, c, comp)
				require.NoError(t, err)

				got, hdr, err := Decode(data)
				require.NoError(t, err)
				assert.Equal(t, c.Name(), hdr.CodecName())
				assert.Equal(t, comp, hdr.Compression)
				assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))
				assert.Equal(t, snap.Exemplars, got.Exemplars)
				assert.Equal(t, []string{"clap", "wave"}, got.Labels())
			})
		}
	}
}

func TestDecode_Corruption(t *testing.T) {
	data, err := Encode(&Snapshot{Exemplars: testExemplars()}, codec.JSON{}, CompressionNone)
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		_, _, err := Decode(data[:10])
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] ^= 0xff
		_, _, err := Decode(bad)
		require.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-3] ^= 0x01
		_, _, err := Decode(bad)
		assert.True(t, IsChecksumMismatch(err))
	})

	t.Run("codec", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		copy(bad[12:20], "nope\x00\x00\x00\x00")
		_, _, err := Decode(bad)
		require.ErrorIs(t, err, ErrUnknownCodec)
	})

	t.Run("oversized payload", func(t *testing.T) {
		tests := []struct {
			name string
			comp Compression
			size uint32
		}{
			{"none above cap", CompressionNone, 0xFFFFFFF0},
			{"lz4 above cap", CompressionLZ4, 0xFFFFFFF0},
			{"zstd above cap", CompressionZSTD, 0xFFFFFFF0},
			{"lz4 beyond block ratio", CompressionLZ4, 32 << 20},
			{"zstd garbage body", CompressionZSTD, 32 << 20},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				blob := rawBlob(t, tt.comp, tt.size, []byte{1, 2, 3, 4})
				_, _, _ = Decode(blob) // warm the decoder pool

				var before, after runtime.MemStats
				runtime.ReadMemStats(&before)
				_, _, err := Decode(blob)
				runtime.ReadMemStats(&after)

				require.Error(t, err)
				if tt.size > MaxPayloadSize || tt.comp == CompressionLZ4 {
					require.ErrorIs(t, err, ErrPayloadTooLarge)
				}
				assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(8<<20))
			})
		}
	})
}

// rawBlob builds a blob with a hand-made header in front of body.
func rawBlob(t *testing.T, comp Compression, payloadSize uint32, body []byte) []byte {
	t.Helper()
	hdr := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: comp,
		PayloadSize: payloadSize,
	}
	copy(hdr.Codec[:], "json")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &hdr))
	buf.Write(body)
	return buf.Bytes()
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	require.ErrorIs(t, err, ErrUnknownCompression)
}

func TestManager_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewManager(store, func(o *ManagerOptions) {
		o.Codec = codec.MsgPack{}
		o.Compression = CompressionZSTD
		o.Now = func() time.Time { return now }
	})

	src := &fakeRecognizer{exs: testExemplars()}
	require.NoError(t, m.Save(ctx, "kitchen", src))
	require.NoError(t, m.Save(ctx, "gym", src))

	names, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gym", "kitchen"}, names)

	// A manager with different defaults still reads the blob.
	reader := NewManager(store)
	dst := &fakeRecognizer{}
	snap, err := reader.Load(ctx, "kitchen", dst)
	require.NoError(t, err)
	assert.True(t, now.Equal(snap.CreatedAt))
	assert.Equal(t, src.exs, dst.restored)

	require.NoError(t, m.Delete(ctx, "gym"))
	names, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, names)
}

func TestManager_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewManager(blobstore.NewMemoryStore())

	_, err := m.Load(ctx, "missing", &fakeRecognizer{})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, m.Save(ctx, "", &fakeRecognizer{}), ErrInvalidName)
	require.ErrorIs(t, m.Save(ctx, "../etc", &fakeRecognizer{}), ErrInvalidName)

	restoreErr := errors.New("slot conflict")
	require.NoError(t, m.Save(ctx, "x", &fakeRecognizer{exs: testExemplars()}))
	_, err = m.Load(ctx, "x", &fakeRecognizer{err: restoreErr})
	require.ErrorIs(t, err, restoreErr)
}
