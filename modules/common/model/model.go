package model

import (
	"fmt"
	"strings"
	"time"
)

// Platform - ad network the creative is produced for
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformGoogle    Platform = "Google"
	PlatformLinkedIn  Platform = "LinkedIn"
)

// Platforms lists every platform in display order.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformGoogle, PlatformLinkedIn}

// ParsePlatform matches a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// AdSize - nominal aspect ratio of a creative
type AdSize string

const (
	SizeSquare    AdSize = "1:1"
	SizeStory     AdSize = "9:16"
	SizeLandscape AdSize = "16:9"
	SizePortrait  AdSize = "4:5"
)

// Sizes lists every ad size in display order.
var Sizes = []AdSize{SizeSquare, SizeStory, SizeLandscape, SizePortrait}

// ParseAdSize accepts either the ratio ("4:5") or the variant name ("PORTRAIT").
func ParseAdSize(s string) (AdSize, error) {
	s = strings.TrimSpace(s)
	for _, size := range Sizes {
		if s == string(size) || strings.EqualFold(s, size.Name()) {
			return size, nil
		}
	}
	return "", fmt.Errorf("unknown ad size %q", s)
}

// Name returns the variant name of the size.
func (s AdSize) Name() string {
	switch s {
	case SizeSquare:
		return "SQUARE"
	case SizeStory:
		return "STORY"
	case SizeLandscape:
		return "LANDSCAPE"
	case SizePortrait:
		return "PORTRAIT"
	}
	return ""
}

// BrandKit - reusable brand identity applied to every rendered creative
type BrandKit struct {
	Name           string  `json:"name"`
	Logo           *string `json:"logo"`
	PrimaryColor   string  `json:"primaryColor"`
	SecondaryColor string  `json:"secondaryColor"`
	FontFamily     string  `json:"fontFamily"`
}

// AdCreative - one generated ad. Never mutated after creation.
type AdCreative struct {
	ID               string    `json:"id"`
	Platform         Platform  `json:"platform"`
	Size             AdSize    `json:"size"`
	Headline         string    `json:"headline"`    // intended <= 40 chars
	PrimaryText      string    `json:"primaryText"` // intended <= 125 chars
	CTA              string    `json:"cta"`
	ImageURL         string    `json:"imageUrl"`
	PerformanceScore int       `json:"performanceScore"` // 0-100, synthetic
	Timestamp        time.Time `json:"timestamp"`
}

// UserState - credits, brand kit and creatives (newest first)
type UserState struct {
	Credits     int          `json:"credits"`
	CreditsUsed int          `json:"creditsUsed"`
	BrandKit    BrandKit     `json:"brandKit"`
	Creatives   []AdCreative `json:"creatives"`
}

// GenerationForm - working draft of the next generation request
type GenerationForm struct {
	ProjectName    string   `json:"projectName"`
	ProductDesc    string   `json:"productDesc"`
	TargetAudience string   `json:"targetAudience"`
	Platform       Platform `json:"platform"`
	Size           AdSize   `json:"size"`
}

// Clone returns a deep copy of the state.
func (s UserState) Clone() UserState {
	out := s
	out.BrandKit = s.BrandKit.Clone()
	out.Creatives = make([]AdCreative, len(s.Creatives))
	copy(out.Creatives, s.Creatives)
	return out
}

// Clone returns a copy that does not share the logo pointer.
func (b BrandKit) Clone() BrandKit {
	out := b
	if b.Logo != nil {
		logo := *b.Logo
		out.Logo = &logo
	}
	return out
}
