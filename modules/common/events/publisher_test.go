package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_FillsDefaults(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	payload, err := Encode(BatchEvent{SessionID: "s1", Credits: 5, Cost: 5, At: at})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, TypeBatchGenerated, decoded["type"])
	assert.Equal(t, "s1", decoded["sessionId"])
	assert.Equal(t, []any{}, decoded["creativeIds"])
	assert.Equal(t, float64(5), decoded["credits"])
	assert.Equal(t, "2026-03-01T12:00:00Z", decoded["at"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishBatch(context.Background(), BatchEvent{SessionID: "s1"}))
}
