package configuration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfiguration_JSONRoundTrip(t *testing.T) {
	c := New()
	c.SetBool("Logging", true)
	c.SetInt("BufferSize", 64)
	c.SetString("Mode", "release")

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var flat map[string]string
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Equal(t, map[string]string{
		"Logging":    "true",
		"BufferSize": "64",
		"Mode":       "release",
	}, flat)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 3, parsed.Len())

	v, ok := parsed.Get("BufferSize")
	require.True(t, ok)
	require.Equal(t, "64", v.String())
}

func TestConfiguration_AsTypedDecode(t *testing.T) {
	c := New()
	c.SetBool("Enabled", true)
	c.SetInt("Count", 7)
	c.SetString("Name", "core")

	b, err := c.AsBool("Enabled")
	require.NoError(t, err)
	require.True(t, b)

	i, err := c.AsInt("Count")
	require.NoError(t, err)
	require.EqualValues(t, 7, i)

	s, err := c.AsString("Name")
	require.NoError(t, err)
	require.Equal(t, "core", s)

	// A value stored as an int string still decodes as a bool via cast,
	// since the wire format carries only strings.
	c.SetInt("Flag", 1)
	flag, err := c.AsBool("Flag")
	require.NoError(t, err)
	require.True(t, flag)
}

func TestParse_MalformedInputReturnsEmptyConfigurationAndError(t *testing.T) {
	c, err := Parse([]byte(`not json`))
	require.Error(t, err)
	require.Equal(t, 0, c.Len())

	c, err = Parse([]byte(`[1, 2, 3]`))
	require.Error(t, err)
	require.Equal(t, 0, c.Len())

	c, err = Parse([]byte(`{"Depth": 3}`))
	require.Error(t, err)
	require.Equal(t, 0, c.Len())
}

func TestParse_MissingFeatureError(t *testing.T) {
	c := New()
	_, err := c.AsBool("Ghost")
	require.Error(t, err)
}
