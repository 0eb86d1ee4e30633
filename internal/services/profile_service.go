package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
)

type MemoryProfileService struct {
	store *MemoryStore
}

func NewMemoryProfileService(store *MemoryStore) *MemoryProfileService {
	return &MemoryProfileService{store: store}
}

func (s *MemoryProfileService) Upsert(ctx context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error) {
	if errs := fields.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	prev, exists := st.profiles[oid]
	var prof *models.Profile
	if exists {
		prof = prev.Clone()
	} else {
		if errs := fields.ValidateCreate(); len(errs) > 0 {
			return nil, ValidationErrors(errs)
		}
		prof = &models.Profile{
			ID:     primitive.NewObjectID(),
			UserID: oid,
			Skills: []string{},
			Date:   st.now(),
		}
	}
	fields.Merge(prof)

	st.profiles[oid] = prof
	if err := st.persistLocked(); err != nil {
		if exists {
			st.profiles[oid] = prev
		} else {
			delete(st.profiles, oid)
		}
		return nil, err
	}
	return s.viewLocked(prof), nil
}

func (s *MemoryProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := parseID(userID, ErrProfileNotFound)
	if err != nil {
		return nil, err
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	prof, exists := s.store.profiles[oid]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return s.viewLocked(prof), nil
}

func (s *MemoryProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.store.profiles))
	for _, prof := range s.store.profiles {
		out = append(out, s.viewLocked(prof))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// viewLocked copies a stored profile and embeds its owner's current name and avatar.
func (s *MemoryProfileService) viewLocked(prof *models.Profile) *models.Profile {
	p := prof.Clone()
	if u, ok := s.store.users[p.UserID]; ok {
		p.User = u.Summary()
	} else {
		p.User = &models.UserSummary{ID: p.UserID}
	}
	return p
}
