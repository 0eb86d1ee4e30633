package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/devconnect/backend/internal/models"
)

type MemoryUserService struct {
	store *MemoryStore
}

func NewMemoryUserService(store *MemoryStore) *MemoryUserService {
	return &MemoryUserService{store: store}
}

func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := newUser(req, s.store.now())
	if err != nil {
		return nil, err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.byEmail[user.Email]; exists {
		return nil, ErrEmailExists
	}
	st.users[user.ID] = user
	st.byEmail[user.Email] = user.ID

	if err := st.persistLocked(); err != nil {
		delete(st.users, user.ID)
		delete(st.byEmail, user.Email)
		return nil, err
	}
	u := *user
	return &u, nil
}

func (s *MemoryUserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *MemoryUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	user, exists := s.store.users[oid]
	if !exists {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	id, exists := s.store.byEmail[normalizeEmail(email)]
	if !exists {
		return nil, ErrUserNotFound
	}
	u := *s.store.users[id]
	return &u, nil
}
