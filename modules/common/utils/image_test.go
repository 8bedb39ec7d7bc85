package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	payload := []byte("fake-png-bytes")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mimeType, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, payload, data)
}

func TestParseDataURI_Errors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{name: "remote url", uri: "https://picsum.photos/800/600"},
		{name: "missing comma", uri: "data:image/png;base64"},
		{name: "not base64", uri: "data:image/png,raw"},
		{name: "bad payload", uri: "data:image/png;base64,!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURI(tt.uri)
			assert.Error(t, err)
		})
	}

	_, _, err := ParseDataURI("https://example.com/a.png")
	assert.ErrorIs(t, err, ErrNotDataURI)
}

func TestConvertImageToWebP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 79, G: 70, B: 229, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := ConvertImageToWebP(buf.Bytes(), 80)
	require.NoError(t, err)
	require.Greater(t, len(out), 12)
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestConvertImageToWebP_RejectsGarbage(t *testing.T) {
	_, err := ConvertImageToWebP([]byte("not an image"), 80)
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "png", ExtensionFor("image/png"))
	assert.Equal(t, "jpg", ExtensionFor("image/jpeg"))
	assert.Equal(t, "webp", ExtensionFor("image/webp"))
	assert.Equal(t, "png", ExtensionFor(""))
}
