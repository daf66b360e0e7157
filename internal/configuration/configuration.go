// Package configuration implements Configuration, the flat name/value
// result of a solver enumeration: a JSON object with string values,
// matching the wire shape of the external configuration format exactly.
package configuration

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cast"

	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// ValueKind tags the Go type a Configuration entry's string representation
// actually came from, so a Value returned by Get disambiguates "true" (bool) from "1"
// (int) from an ordinary string without guessing.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindString
)

// Value is an internally-tagged scalar: the Kind plus the one field that's
// meaningful for it.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
}

// String renders v the way it's stored in a Configuration's wire form.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return cast.ToString(v.Int)
	default:
		return v.Str
	}
}

func boolValue(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func intValue(i int64) Value   { return Value{Kind: KindInt, Int: i} }
func strValue(s string) Value  { return Value{Kind: KindString, Str: s} }

// Configuration is a flat, insertion-ordered set of feature assignments. It
// marshals to and from the plain string-valued JSON object the external
// configuration format specifies.
type Configuration struct {
	names  []string
	values map[string]Value
}

// New returns an empty Configuration.
func New() *Configuration {
	return &Configuration{values: make(map[string]Value)}
}

// SetBool / SetInt / SetString assign a feature's value, recording insertion
// order the first time a name is seen.
func (c *Configuration) SetBool(name string, v bool)      { c.set(name, boolValue(v)) }
func (c *Configuration) SetInt(name string, v int64)      { c.set(name, intValue(v)) }
func (c *Configuration) SetString(name string, v string)  { c.set(name, strValue(v)) }

func (c *Configuration) set(name string, v Value) {
	if _, exists := c.values[name]; !exists {
		c.names = append(c.names, name)
	}
	c.values[name] = v
}

// Get returns the tagged value assigned to name.
func (c *Configuration) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns every assigned feature name in insertion order.
func (c *Configuration) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len reports how many features are assigned.
func (c *Configuration) Len() int { return len(c.names) }

// AsBool / AsInt / AsString decode a feature's value through spf13/cast,
// for callers that want a typed value regardless of how it was stored
// (e.g. an integer stored as "1" read back as a bool).
func (c *Configuration) AsBool(name string) (bool, error) {
	v, ok := c.values[name]
	if !ok {
		return false, fmerr.Newf(fmerr.MissingFeature, "configuration has no value for %q", name)
	}
	return cast.ToBoolE(v.String())
}

func (c *Configuration) AsInt(name string) (int64, error) {
	v, ok := c.values[name]
	if !ok {
		return 0, fmerr.Newf(fmerr.MissingFeature, "configuration has no value for %q", name)
	}
	return cast.ToInt64E(v.String())
}

func (c *Configuration) AsString(name string) (string, error) {
	v, ok := c.values[name]
	if !ok {
		return "", fmerr.Newf(fmerr.MissingFeature, "configuration has no value for %q", name)
	}
	return v.String(), nil
}

// MarshalJSON renders the flat, string-valued object the external format
// specifies, with keys sorted for a deterministic byte-for-byte output.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(c.names))
	for _, n := range c.names {
		flat[n] = c.values[n].String()
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf []byte
	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(flat[k])
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Parse decodes a flat string-valued JSON object into a Configuration.
// Parse failures (non-object top level, non-string values, syntax errors)
// return an empty Configuration plus a diagnostic, per the external format's
// contract: a malformed configuration is reported, not fatal.
func Parse(data []byte) (*Configuration, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return New(), fmerr.Wrap(fmerr.Generic, err, "configuration is not a JSON object")
	}

	var keys []string
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := New()
	for _, k := range keys {
		var s string
		if err := json.Unmarshal(raw[k], &s); err != nil {
			return New(), fmerr.Newf(fmerr.Generic, "configuration value for %q is not a string", k)
		}
		c.SetString(k, s)
	}
	return c, nil
}
