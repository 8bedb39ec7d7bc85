package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{in: "Instagram", want: PlatformInstagram},
		{in: "instagram", want: PlatformInstagram},
		{in: " LinkedIn ", want: PlatformLinkedIn},
		{in: "TikTok", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAdSize(t *testing.T) {
	tests := []struct {
		in      string
		want    AdSize
		wantErr bool
	}{
		{in: "1:1", want: SizeSquare},
		{in: "SQUARE", want: SizeSquare},
		{in: "story", want: SizeStory},
		{in: "16:9", want: SizeLandscape},
		{in: "4:5", want: SizePortrait},
		{in: "PORTRAIT", want: SizePortrait},
		{in: "3:4", wantErr: true},
		{in: "banner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAdSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeDisplay_CoversEverySize(t *testing.T) {
	for _, s := range Sizes {
		d := SizeDisplay(s)
		assert.Equal(t, string(s), d.Label)
		assert.NotEmpty(t, d.IconClass)
		assert.Positive(t, d.Width)
		assert.Positive(t, d.Height)
	}
	assert.Equal(t, SizeDisplay(SizeSquare), SizeDisplay(AdSize("7:3")))
}

func TestPlatformDisplay(t *testing.T) {
	for _, p := range Platforms {
		assert.Equal(t, string(p), PlatformDisplay(p).Label)
	}
	assert.Equal(t, "badge-default", PlatformDisplay(Platform("MySpace")).BadgeClass)
}

func TestUserStateClone_DoesNotShare(t *testing.T) {
	logo := "https://example.com/logo.png"
	s := UserState{
		Credits:   10,
		BrandKit:  BrandKit{Name: "Acme", Logo: &logo},
		Creatives: []AdCreative{{ID: "a"}},
	}

	c := s.Clone()
	c.Creatives[0].ID = "b"
	*c.BrandKit.Logo = "changed"

	assert.Equal(t, "a", s.Creatives[0].ID)
	assert.Equal(t, "https://example.com/logo.png", *s.BrandKit.Logo)
}
