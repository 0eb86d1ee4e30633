package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/storage"
)

// MemoryStore keeps users, profiles and posts in process. When a data dir is
// given, every mutation is snapshotted to disk and reloaded on start.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	byEmail  map[string]primitive.ObjectID
	profiles map[primitive.ObjectID]*models.Profile // keyed by owner
	posts    []*models.Post                         // insertion order
	snapshot *storage.JSONStore[memorySnapshot]
	now      func() time.Time
}

type memorySnapshot struct {
	Users    []userRecord    `json:"users"`
	Profiles []profileRecord `json:"profiles"`
	Posts    []*models.Post  `json:"posts"`
}

// The model types hide these fields from JSON, so the snapshot carries them
// alongside.
type userRecord struct {
	User         *models.User `json:"user"`
	PasswordHash string       `json:"password_hash"`
}

type profileRecord struct {
	UserID  primitive.ObjectID `json:"user_id"`
	Profile *models.Profile    `json:"profile"`
}

func NewMemoryStore(dataDir string) (*MemoryStore, error) {
	s := &MemoryStore{
		users:    make(map[primitive.ObjectID]*models.User),
		byEmail:  make(map[string]primitive.ObjectID),
		profiles: make(map[primitive.ObjectID]*models.Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if dataDir == "" {
		return s, nil
	}

	snap, err := storage.NewJSONStore[memorySnapshot](dataDir, "devconnect.json")
	if err != nil {
		return nil, err
	}
	s.snapshot = snap

	var data memorySnapshot
	ok, err := snap.Load(&data)
	if err != nil {
		return nil, fmt.Errorf("memory: load %s: %w", snap.Path(), err)
	}
	if ok {
		s.restore(&data)
		log.Printf("Memory store loaded: users=%d profiles=%d posts=%d", len(s.users), len(s.profiles), len(s.posts))
	}
	return s, nil
}

func (s *MemoryStore) restore(data *memorySnapshot) {
	for _, rec := range data.Users {
		u := rec.User
		u.PasswordHash = rec.PasswordHash
		s.users[u.ID] = u
		s.byEmail[u.Email] = u.ID
	}
	for _, rec := range data.Profiles {
		p := rec.Profile
		p.UserID = rec.UserID
		p.User = nil
		s.profiles[p.UserID] = p
	}
	for _, p := range data.Posts {
		s.posts = append(s.posts, normalizePost(p))
	}
}

// persistLocked writes the snapshot. Callers hold the write lock.
func (s *MemoryStore) persistLocked() error {
	if s.snapshot == nil {
		return nil
	}

	data := memorySnapshot{
		Users:    make([]userRecord, 0, len(s.users)),
		Profiles: make([]profileRecord, 0, len(s.profiles)),
		Posts:    s.posts,
	}
	for _, u := range s.users {
		data.Users = append(data.Users, userRecord{User: u, PasswordHash: u.PasswordHash})
	}
	for owner, p := range s.profiles {
		data.Profiles = append(data.Profiles, profileRecord{UserID: owner, Profile: p})
	}

	if err := s.snapshot.Save(&data); err != nil {
		return fmt.Errorf("memory: persist: %w", err)
	}
	return nil
}

func (s *MemoryStore) postIndexLocked(id primitive.ObjectID) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

type MemoryAccountService struct {
	store *MemoryStore
}

func NewMemoryAccountService(store *MemoryStore) *MemoryAccountService {
	return &MemoryAccountService{store: store}
}

func (s *MemoryAccountService) DeleteAccount(ctx context.Context, userID string) error {
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	prevPosts := st.posts
	kept := make([]*models.Post, 0, len(prevPosts))
	for _, p := range prevPosts {
		if p.User != oid {
			kept = append(kept, p)
		}
	}
	prevProfile, hadProfile := st.profiles[oid]
	user, hadUser := st.users[oid]

	st.posts = kept
	delete(st.profiles, oid)
	if hadUser {
		delete(st.byEmail, user.Email)
		delete(st.users, oid)
	}
	if err := st.persistLocked(); err != nil {
		st.posts = prevPosts
		if hadProfile {
			st.profiles[oid] = prevProfile
		}
		if hadUser {
			st.users[oid] = user
			st.byEmail[user.Email] = oid
		}
		return err
	}
	return nil
}
