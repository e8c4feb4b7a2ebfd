package inventory

import "github.com/tidwall/gjson"

// listKeys are the object keys probed, in priority order, when a payload
// wraps its record list in an envelope instead of being a bare array. New
// envelope shapes can be supported by appending a key.
var listKeys = []string{"objects", "data"}

// ToList extracts a uniform record list from an API payload. The same
// conceptual endpoint is known to answer with either a bare array or an
// object carrying the array under one of several keys. An unrecognized shape
// degrades to an empty list rather than failing the run.
func ToList(payload gjson.Result) []gjson.Result {
	if payload.IsArray() {
		return payload.Array()
	}
	if payload.IsObject() {
		for _, key := range listKeys {
			if v := payload.Get(key); v.IsArray() {
				return v.Array()
			}
		}
	}
	return nil
}
