package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
)

// MemoryPostService serializes every mutation under the store lock, which
// makes each check-then-mutate step atomic.
type MemoryPostService struct {
	store *MemoryStore
	users UserService
}

func NewMemoryPostService(store *MemoryStore, users UserService) *MemoryPostService {
	return &MemoryPostService{store: store, users: users}
}

func (s *MemoryPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	text, err := postText(text)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	post := newPost(author, text, st.now())
	st.posts = append(st.posts, post)
	if err := st.persistLocked(); err != nil {
		st.posts = st.posts[:len(st.posts)-1]
		return nil, err
	}
	return clonePost(post), nil
}

func (s *MemoryPostService) List(ctx context.Context) ([]*models.Post, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	// Newest insertion first so equal timestamps still come out newest first.
	out := make([]*models.Post, 0, len(s.store.posts))
	for i := len(s.store.posts) - 1; i >= 0; i-- {
		out = append(out, clonePost(s.store.posts[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryPostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var out *models.Post
	err := s.read(postID, func(p *models.Post) error {
		out = clonePost(p)
		return nil
	})
	return out, err
}

func (s *MemoryPostService) Delete(ctx context.Context, userID, postID string) error {
	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return err
	}
	uid, err := parseID(userID, ErrNotAuthorized)
	if err != nil {
		return err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := st.postIndexLocked(pid)
	if i < 0 {
		return ErrPostNotFound
	}
	if err := checkDeletePost(st.posts[i], uid); err != nil {
		return err
	}
	prev := st.posts
	st.posts = make([]*models.Post, 0, len(prev)-1)
	st.posts = append(st.posts, prev[:i]...)
	st.posts = append(st.posts, prev[i+1:]...)
	if err := st.persistLocked(); err != nil {
		st.posts = prev
		return err
	}
	return nil
}

func (s *MemoryPostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	var likes []models.Like
	err := s.mutate(postID, userID, func(p *models.Post, uid primitive.ObjectID) error {
		if err := checkLike(p, uid); err != nil {
			return err
		}
		p.Likes = append(p.Likes, models.Like{User: uid})
		likes = append([]models.Like{}, p.Likes...)
		return nil
	})
	return likes, err
}

func (s *MemoryPostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	var likes []models.Like
	err := s.mutate(postID, userID, func(p *models.Post, uid primitive.ObjectID) error {
		if err := checkUnlike(p, uid); err != nil {
			return err
		}
		i := likeIndex(p, uid)
		p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
		likes = append([]models.Like{}, p.Likes...)
		return nil
	})
	return likes, err
}

func (s *MemoryPostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	text, err := postText(text)
	if err != nil {
		return nil, err
	}
	if _, err := parseID(postID, ErrPostNotFound); err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = s.mutate(postID, userID, func(p *models.Post, _ primitive.ObjectID) error {
		c := newComment(author, text, s.store.now())
		p.Comments = append([]models.Comment{c}, p.Comments...)
		comments = append([]models.Comment{}, p.Comments...)
		return nil
	})
	return comments, err
}

func (s *MemoryPostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.mutate(postID, userID, func(p *models.Post, uid primitive.ObjectID) error {
		cid, err := primitive.ObjectIDFromHex(commentID)
		if err != nil {
			return ErrCommentNotFound
		}
		if err := checkDeleteComment(p, uid, cid); err != nil {
			return err
		}
		i := commentIndex(p, cid)
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		comments = append([]models.Comment{}, p.Comments...)
		return nil
	})
	return comments, err
}

func (s *MemoryPostService) read(postID string, fn func(*models.Post) error) error {
	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return err
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	i := s.store.postIndexLocked(pid)
	if i < 0 {
		return ErrPostNotFound
	}
	return fn(s.store.posts[i])
}

// mutate runs fn against the stored post under the write lock and persists
// the store when fn succeeds.
func (s *MemoryPostService) mutate(postID, userID string, fn func(*models.Post, primitive.ObjectID) error) error {
	pid, uid, err := parseIDs(postID, userID)
	if err != nil {
		return err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()

	i := st.postIndexLocked(pid)
	if i < 0 {
		return ErrPostNotFound
	}
	// fn works on a copy that replaces the stored post only once it is saved.
	orig := st.posts[i]
	work := clonePost(orig)
	if err := fn(work, uid); err != nil {
		return err
	}
	st.posts[i] = work
	if err := st.persistLocked(); err != nil {
		st.posts[i] = orig
		return err
	}
	return nil
}
