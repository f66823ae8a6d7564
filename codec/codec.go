// Package codec centralizes the encoding of persisted support sets and pose recordings.
//
// Persisted support-set snapshots record the codec name in their header, so a
// snapshot written with one codec is always decoded with the same codec.
package codec

// Codec encodes and decodes values. Implementations must be safe for
// concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns the built-in codec stored under name in a snapshot header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "msgpack":
		return MsgPack{}, true
	default:
		return nil, false
	}
}
