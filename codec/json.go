package codec

import "encoding/json"

// JSON is the standard-library JSON codec.
//
// Pose recordings produced by the pose-estimation front end are JSON arrays
// of shape [frames][joints][3], so JSON is also the codec used to read them.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is used for recordings and new snapshots when no codec is given.
var Default Codec = JSON{}
