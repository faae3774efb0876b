package httputil

import "encoding/json"

// OptionalString distinguishes an absent PATCH field from an explicit null.
// Screen labels use null to clear; an absent field is left unchanged.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs for keys present in the body
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}
