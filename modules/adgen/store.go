package adgen

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"adgenius-server/modules/common/model"
)

// Tab - dashboard surface currently shown in a workspace
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabGenerate  Tab = "generate"
	TabProjects  Tab = "projects"
	TabBrandKit  Tab = "brandkit"
	TabBilling   Tab = "billing"
)

var tabs = []Tab{TabDashboard, TabGenerate, TabProjects, TabBrandKit, TabBilling}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	for _, t := range tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, s)
}

// Snapshot - read-only copy of a workspace handed to views
type Snapshot struct {
	model.UserState
	Form       model.GenerationForm `json:"form"`
	ActiveTab  Tab                  `json:"activeTab"`
	Generating bool                 `json:"generating"`
}

// FormUpdate - partial edit of the generation form; nil fields are kept
type FormUpdate struct {
	ProjectName    *string `json:"projectName,omitempty"`
	ProductDesc    *string `json:"productDesc,omitempty"`
	TargetAudience *string `json:"targetAudience,omitempty"`
	Platform       *string `json:"platform,omitempty"`
	Size           *string `json:"size,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u FormUpdate) IsEmpty() bool {
	return u.ProjectName == nil && u.ProductDesc == nil && u.TargetAudience == nil && u.Platform == nil && u.Size == nil
}

// BrandKitUpdate - partial edit of the brand kit; nil fields are kept
type BrandKitUpdate struct {
	Name           *string `json:"name,omitempty"`
	Logo           *string `json:"logo,omitempty"`
	PrimaryColor   *string `json:"primaryColor,omitempty"`
	SecondaryColor *string `json:"secondaryColor,omitempty"`
	FontFamily     *string `json:"fontFamily,omitempty"`
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Store is the single-writer state container of one workspace. All writes go
// through the named transitions below; reads go through Snapshot.
type Store struct {
	mu         sync.Mutex
	state      model.UserState
	form       model.GenerationForm
	tab        Tab
	generating bool
	onChange   func(Snapshot)
}

// NewStore creates a store from initial state and form.
func NewStore(state model.UserState, form model.GenerationForm) *Store {
	return &Store{
		state: state.Clone(),
		form:  form,
		tab:   TabDashboard,
	}
}

// OnChange registers a callback invoked after every transition, outside the lock.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		UserState:  s.state.Clone(),
		Form:       s.form,
		ActiveTab:  s.tab,
		Generating: s.generating,
	}
}

// commit releases the lock and notifies the subscriber.
func (s *Store) commit() Snapshot {
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
	return snap
}

// BeginGeneration checks the balance and takes the in-flight guard. The
// returned snapshot carries the brand and form the flow must use.
func (s *Store) BeginGeneration(cost int) (Snapshot, error) {
	s.mu.Lock()
	if s.state.Credits < cost {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrInsufficientCredits
	}
	if s.generating {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrGenerationInProgress
	}
	s.generating = true
	return s.commit(), nil
}

// EndGeneration releases the in-flight guard.
func (s *Store) EndGeneration() {
	s.mu.Lock()
	if !s.generating {
		s.mu.Unlock()
		return
	}
	s.generating = false
	s.commit()
}

// ApplyBatch prepends the batch (keeping its order) and debits its cost.
// Credits are not clamped; callers check the balance beforehand.
func (s *Store) ApplyBatch(b Batch) Snapshot {
	s.mu.Lock()
	creatives := make([]model.AdCreative, 0, len(b.Creatives)+len(s.state.Creatives))
	creatives = append(creatives, b.Creatives...)
	creatives = append(creatives, s.state.Creatives...)
	s.state.Creatives = creatives
	s.state.Credits -= b.Cost
	s.state.CreditsUsed += b.Cost
	s.tab = TabProjects
	return s.commit()
}

// UpdateForm applies an edit-form transition.
func (s *Store) UpdateForm(u FormUpdate) (Snapshot, error) {
	s.mu.Lock()
	form := s.form

	if u.ProjectName != nil {
		form.ProjectName = strings.TrimSpace(*u.ProjectName)
	}
	if u.ProductDesc != nil {
		form.ProductDesc = strings.TrimSpace(*u.ProductDesc)
	}
	if u.TargetAudience != nil {
		form.TargetAudience = strings.TrimSpace(*u.TargetAudience)
	}
	if u.Platform != nil {
		p, err := model.ParsePlatform(*u.Platform)
		if err != nil {
			s.mu.Unlock()
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		form.Platform = p
	}
	if u.Size != nil {
		size, err := model.ParseAdSize(*u.Size)
		if err != nil {
			s.mu.Unlock()
			return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		form.Size = size
	}

	s.form = form
	return s.commit(), nil
}

// SwitchTab applies a switch-tab transition.
func (s *Store) SwitchTab(t Tab) Snapshot {
	s.mu.Lock()
	s.tab = t
	return s.commit()
}

// UpdateBrandKit applies an edit-brand transition.
func (s *Store) UpdateBrandKit(u BrandKitUpdate) (Snapshot, error) {
	s.mu.Lock()
	kit := s.state.BrandKit.Clone()

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			s.mu.Unlock()
			return Snapshot{}, fmt.Errorf("%w: brand name is required", ErrInvalidInput)
		}
		kit.Name = name
	}
	if u.PrimaryColor != nil {
		if !hexColor.MatchString(*u.PrimaryColor) {
			s.mu.Unlock()
			return Snapshot{}, fmt.Errorf("%w: primary color %q is not a hex color", ErrInvalidInput, *u.PrimaryColor)
		}
		kit.PrimaryColor = *u.PrimaryColor
	}
	if u.SecondaryColor != nil {
		if !hexColor.MatchString(*u.SecondaryColor) {
			s.mu.Unlock()
			return Snapshot{}, fmt.Errorf("%w: secondary color %q is not a hex color", ErrInvalidInput, *u.SecondaryColor)
		}
		kit.SecondaryColor = *u.SecondaryColor
	}
	if u.FontFamily != nil {
		kit.FontFamily = strings.TrimSpace(*u.FontFamily)
	}
	if u.Logo != nil {
		logo := strings.TrimSpace(*u.Logo)
		if logo == "" {
			kit.Logo = nil
		} else {
			kit.Logo = &logo
		}
	}

	s.state.BrandKit = kit
	return s.commit(), nil
}
