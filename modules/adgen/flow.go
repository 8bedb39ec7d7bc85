package adgen

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"adgenius-server/modules/common/gemini"
	"adgenius-server/modules/common/model"
)

const (
	minPerformanceScore = 85
	maxPerformanceScore = 99
)

// Generator is the provider side of the flow.
type Generator interface {
	GenerateAdCopy(ctx context.Context, brandName, productDescription, targetAudience string, platform model.Platform) ([]gemini.AdCopy, error)
	GenerateAdImage(ctx context.Context, prompt string, size model.AdSize) (string, error)
}

// Batch - creatives produced by one flow run and the credits it costs
type Batch struct {
	Creatives []model.AdCreative
	Cost      int
}

// Flow runs the copy-then-image sequence and builds a batch. It never
// touches state.
type Flow struct {
	gen         Generator
	cost        int
	chargeEmpty bool

	newID func() string
	score func() int
	now   func() time.Time
}

// NewFlow creates a flow charging cost per batch. With chargeEmpty false a
// batch without creatives costs nothing.
func NewFlow(gen Generator, cost int, chargeEmpty bool) *Flow {
	return &Flow{
		gen:         gen,
		cost:        cost,
		chargeEmpty: chargeEmpty,
		newID:       uuid.NewString,
		score: func() int {
			return minPerformanceScore + rand.IntN(maxPerformanceScore-minPerformanceScore+1)
		},
		now: time.Now,
	}
}

// Cost returns the credits required to start a run.
func (f *Flow) Cost() int {
	return f.cost
}

// Run requests copy variations, then one shared background image, and builds
// one creative per variation. Any provider failure aborts the whole run.
func (f *Flow) Run(ctx context.Context, brandName string, form model.GenerationForm) (*Batch, error) {
	copies, err := f.gen.GenerateAdCopy(ctx, brandName, form.ProductDesc, form.TargetAudience, form.Platform)
	if err != nil {
		return nil, err
	}

	imageURL, err := f.gen.GenerateAdImage(ctx, form.ProductDesc, form.Size)
	if err != nil {
		return nil, err
	}

	now := f.now()
	creatives := make([]model.AdCreative, 0, len(copies))
	for _, c := range copies {
		creatives = append(creatives, model.AdCreative{
			ID:               f.newID(),
			Platform:         form.Platform,
			Size:             form.Size,
			Headline:         c.Headline,
			PrimaryText:      c.PrimaryText,
			CTA:              c.CTA,
			ImageURL:         imageURL,
			PerformanceScore: f.score(),
			Timestamp:        now,
		})
	}

	cost := f.cost
	if len(creatives) == 0 {
		if f.chargeEmpty {
			log.Printf("⚠️  [AdGen] Copy generation returned no variations, batch is still charged %d credits", cost)
		} else {
			cost = 0
		}
	}

	return &Batch{Creatives: creatives, Cost: cost}, nil
}
