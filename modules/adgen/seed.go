package adgen

import (
	"time"

	"adgenius-server/modules/common/model"
)

// DefaultBrandKit is the brand identity every new workspace starts with.
func DefaultBrandKit() model.BrandKit {
	logo := "https://picsum.photos/200/200?random=1"
	return model.BrandKit{
		Name:           "EcoStyle Wear",
		Logo:           &logo,
		PrimaryColor:   "#4f46e5",
		SecondaryColor: "#10b981",
		FontFamily:     "Inter",
	}
}

// DefaultForm is the initial generation draft.
func DefaultForm() model.GenerationForm {
	return model.GenerationForm{
		ProductDesc:    "Sustainable bamboo fiber t-shirts for conscious urban dwellers.",
		TargetAudience: "Eco-conscious millennials, 25-40, urban residents",
		Platform:       model.PlatformInstagram,
		Size:           model.SizeSquare,
	}
}

// MockCreatives returns the sample gallery shown before the first generation.
func MockCreatives(now time.Time) []model.AdCreative {
	return []model.AdCreative{
		{
			ID:               "1",
			Platform:         model.PlatformFacebook,
			Size:             model.SizeLandscape,
			Headline:         "Sustainable Style for Your Life",
			PrimaryText:      "Ditch the plastic. Wear the future. Our 100% bamboo tees are breathable, antibacterial and better for the planet.",
			CTA:              "Shop Now",
			ImageURL:         "https://picsum.photos/800/600?nature=1",
			PerformanceScore: 94,
			Timestamp:        now.Add(-1000 * time.Second),
		},
		{
			ID:               "2",
			Platform:         model.PlatformInstagram,
			Size:             model.SizeStory,
			Headline:         "Softest Tee on Earth",
			PrimaryText:      "Once you try bamboo, you never go back. Experience the ultimate comfort today.",
			CTA:              "Learn More",
			ImageURL:         "https://picsum.photos/1080/1920?fashion=1",
			PerformanceScore: 88,
			Timestamp:        now.Add(-2000 * time.Second),
		},
	}
}

// NewSeededStore builds a workspace store with the default brand and form.
func NewSeededStore(credits int, withMocks bool) *Store {
	state := model.UserState{
		Credits:   credits,
		BrandKit:  DefaultBrandKit(),
		Creatives: []model.AdCreative{},
	}
	if withMocks {
		state.Creatives = MockCreatives(time.Now())
	}
	return NewStore(state, DefaultForm())
}
