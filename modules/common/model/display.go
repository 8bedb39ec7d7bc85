package model

// SizeDisplayParams - how a size is drawn in the size picker and card previews
type SizeDisplayParams struct {
	Label     string
	Width     int
	Height    int
	IconClass string
}

// PlatformDisplayParams - badge styling for a platform
type PlatformDisplayParams struct {
	Label      string
	BadgeClass string
}

var sizeDisplays = map[AdSize]SizeDisplayParams{
	SizeSquare:    {Label: "1:1", Width: 1080, Height: 1080, IconClass: "w-8 h-8"},
	SizeStory:     {Label: "9:16", Width: 1080, Height: 1920, IconClass: "w-6 h-10"},
	SizeLandscape: {Label: "16:9", Width: 1920, Height: 1080, IconClass: "w-12 h-7"},
	SizePortrait:  {Label: "4:5", Width: 1080, Height: 1350, IconClass: "w-8 h-10"},
}

var platformDisplays = map[Platform]PlatformDisplayParams{
	PlatformFacebook:  {Label: "Facebook", BadgeClass: "badge-facebook"},
	PlatformInstagram: {Label: "Instagram", BadgeClass: "badge-instagram"},
	PlatformGoogle:    {Label: "Google", BadgeClass: "badge-google"},
	PlatformLinkedIn:  {Label: "LinkedIn", BadgeClass: "badge-linkedin"},
}

// SizeDisplay looks up the display parameters of a size. Unknown sizes fall
// back to the square layout.
func SizeDisplay(s AdSize) SizeDisplayParams {
	if d, ok := sizeDisplays[s]; ok {
		return d
	}
	return sizeDisplays[SizeSquare]
}

// PlatformDisplay looks up the badge of a platform.
func PlatformDisplay(p Platform) PlatformDisplayParams {
	if d, ok := platformDisplays[p]; ok {
		return d
	}
	return PlatformDisplayParams{Label: string(p), BadgeClass: "badge-default"}
}
