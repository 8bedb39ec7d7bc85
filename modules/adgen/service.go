package adgen

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"adgenius-server/modules/common/events"
	"adgenius-server/modules/common/model"
)

// Result - outcome of a successful generation
type Result struct {
	Creatives []model.AdCreative `json:"creatives"`
	Credits   int                `json:"credits"`
	Cost      int                `json:"cost"`
}

// Stats - process-wide generation counters
type Stats struct {
	Generations int64 `json:"generations"`
	Failures    int64 `json:"failures"`
	Rejections  int64 `json:"rejections"`
}

// Service folds flow results into a workspace store.
type Service struct {
	flow      *Flow
	publisher events.Publisher

	generations atomic.Int64
	failures    atomic.Int64
	rejections  atomic.Int64
}

func NewService(flow *Flow, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{flow: flow, publisher: publisher}
}

// Generate runs one flow for the workspace. State changes exactly once, after
// both provider calls succeeded; on any error the store is left as it was.
func (s *Service) Generate(ctx context.Context, sessionID string, store *Store) (*Result, error) {
	snap, err := store.BeginGeneration(s.flow.Cost())
	if err != nil {
		s.rejections.Add(1)
		log.Printf("⚠️  [AdGen] Session %s: generation rejected: %v (credits: %d)", sessionID, err, snap.Credits)
		return nil, err
	}
	defer store.EndGeneration()

	log.Printf("🚀 [AdGen] Session %s: generating for %s on %s (%s)", sessionID, snap.BrandKit.Name, snap.Form.Platform, snap.Form.Size)

	batch, err := s.flow.Run(ctx, snap.BrandKit.Name, snap.Form)
	if err != nil {
		s.failures.Add(1)
		log.Printf("❌ [AdGen] Session %s: generation failed: %v", sessionID, err)
		return nil, err
	}

	after := store.ApplyBatch(*batch)
	s.generations.Add(1)

	log.Printf("✅ [AdGen] Session %s: added %d creatives, credits %d → %d", sessionID, len(batch.Creatives), snap.Credits, after.Credits)

	ids := make([]string, 0, len(batch.Creatives))
	for _, c := range batch.Creatives {
		ids = append(ids, c.ID)
	}
	event := events.BatchEvent{
		SessionID:   sessionID,
		CreativeIDs: ids,
		Credits:     after.Credits,
		Cost:        batch.Cost,
		At:          time.Now(),
	}
	if err := s.publisher.PublishBatch(ctx, event); err != nil {
		log.Printf("⚠️  [AdGen] Failed to publish batch event: %v", err)
	}

	return &Result{Creatives: batch.Creatives, Credits: after.Credits, Cost: batch.Cost}, nil
}

// Cost returns the credits charged per batch.
func (s *Service) Cost() int {
	return s.flow.Cost()
}

// Stats returns a copy of the counters.
func (s *Service) Stats() Stats {
	return Stats{
		Generations: s.generations.Load(),
		Failures:    s.failures.Load(),
		Rejections:  s.rejections.Load(),
	}
}
