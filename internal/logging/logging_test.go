package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "storefront-api", "warn")

	log.Info().Msg("dropped")
	log.Warn().Str("order_id", "abc").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "storefront-api", line["service"])
	assert.Equal(t, "abc", line["order_id"])
}

func TestUnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "svc", "loud")
	log.Debug().Msg("no")
	assert.Zero(t, buf.Len())
	log.Info().Msg("yes")
	assert.NotZero(t, buf.Len())
}
