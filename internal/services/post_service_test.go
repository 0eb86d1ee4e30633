package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/models"
)

type memoryFixture struct {
	store    *MemoryStore
	users    *MemoryUserService
	profiles *MemoryProfileService
	posts    *MemoryPostService
	accounts *MemoryAccountService
}

func newMemoryFixture(t *testing.T) *memoryFixture {
	t.Helper()
	store, err := NewMemoryStore("")
	require.NoError(t, err)
	users := NewMemoryUserService(store)
	return &memoryFixture{
		store:    store,
		users:    users,
		profiles: NewMemoryProfileService(store),
		posts:    NewMemoryPostService(store, users),
		accounts: NewMemoryAccountService(store),
	}
}

func (f *memoryFixture) register(t *testing.T, name, email string) string {
	t.Helper()
	u, err := f.users.Register(context.Background(), &models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return u.ID.Hex()
}

func (f *memoryFixture) post(t *testing.T, userID, text string) string {
	t.Helper()
	p, err := f.posts.Create(context.Background(), userID, text)
	require.NoError(t, err)
	return p.ID.Hex()
}

func TestCreatePostCopiesAuthorFields(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	p, err := f.posts.Create(ctx, alice, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Text)
	assert.Equal(t, "Alice", p.Name)
	assert.Contains(t, p.Avatar, "gravatar.com/avatar/")
	assert.Equal(t, alice, p.User.Hex())
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	f := newMemoryFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.posts.Create(context.Background(), alice, "   ")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "text")
}

func TestListPostsNewestFirst(t *testing.T) {
	f := newMemoryFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	first := f.post(t, alice, "first")
	second := f.post(t, alice, "second")

	posts, err := f.posts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second, posts[0].ID.Hex())
	assert.Equal(t, first, posts[1].ID.Hex())
}

func TestGetPostMalformedIDIsNotFound(t *testing.T) {
	f := newMemoryFixture(t)

	_, err := f.posts.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.posts.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikeTwiceFails(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	likes, err := f.posts.Like(ctx, bob, postID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, bob, likes[0].User.Hex())

	_, err = f.posts.Like(ctx, bob, postID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Len(t, p.Likes, 1)
}

func TestLikeMissingPost(t *testing.T) {
	f := newMemoryFixture(t)
	bob := f.register(t, "Bob", "bob@example.com")

	_, err := f.posts.Like(context.Background(), bob, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUnlikeNeverLiked(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.Like(ctx, alice, postID)
	require.NoError(t, err)

	_, err = f.posts.Unlike(ctx, bob, postID)
	assert.ErrorIs(t, err, ErrNotLiked)

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	require.Len(t, p.Likes, 1)
	assert.Equal(t, alice, p.Likes[0].User.Hex())
}

func TestUnlikeRemovesOnlyCaller(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.Like(ctx, alice, postID)
	require.NoError(t, err)
	_, err = f.posts.Like(ctx, bob, postID)
	require.NoError(t, err)

	likes, err := f.posts.Unlike(ctx, alice, postID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, bob, likes[0].User.Hex())
}

func TestAddCommentEmptyTextLeavesListUnchanged(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.AddComment(ctx, alice, postID, "")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
}

func TestCommentsAreNewestFirst(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.AddComment(ctx, alice, postID, "A")
	require.NoError(t, err)
	comments, err := f.posts.AddComment(ctx, alice, postID, "B")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "B", comments[0].Text)
	assert.Equal(t, "A", comments[1].Text)
	assert.NotEqual(t, comments[0].ID, comments[1].ID)
}

func TestCommentUsesCurrentAuthorName(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	comments, err := f.posts.AddComment(ctx, bob, postID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Bob", comments[0].Name)
	assert.Equal(t, bob, comments[0].User.Hex())
}

func TestDeleteCommentRemovesTargetedComment(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	postID := f.post(t, alice, "hello")

	_, err := f.posts.AddComment(ctx, alice, postID, "older")
	require.NoError(t, err)
	comments, err := f.posts.AddComment(ctx, alice, postID, "newer")
	require.NoError(t, err)

	// Delete the older comment; the caller's newer one must survive.
	older := comments[1].ID.Hex()
	comments, err = f.posts.DeleteComment(ctx, alice, postID, older)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "newer", comments[0].Text)
}

func TestDeleteCommentErrors(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	comments, err := f.posts.AddComment(ctx, alice, postID, "mine")
	require.NoError(t, err)
	commentID := comments[0].ID.Hex()

	_, err = f.posts.DeleteComment(ctx, bob, postID, commentID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.posts.DeleteComment(ctx, alice, postID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = f.posts.DeleteComment(ctx, alice, postID, "garbage")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = f.posts.DeleteComment(ctx, alice, primitive.NewObjectID().Hex(), commentID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Len(t, p.Comments, 1)
}

func TestDeletePostByNonAuthor(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	postID := f.post(t, alice, "hello")

	err := f.posts.Delete(ctx, bob, postID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.posts.GetByID(ctx, postID)
	assert.NoError(t, err)

	require.NoError(t, f.posts.Delete(ctx, alice, postID))
	_, err = f.posts.GetByID(ctx, postID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, f.posts.Delete(ctx, alice, postID), ErrPostNotFound)
}

func TestReturnedPostsAreCopies(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	postID := f.post(t, alice, "hello")

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	p.Likes = append(p.Likes, models.Like{User: primitive.NewObjectID()})
	p.Text = "changed"

	again, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, again.Likes)
	assert.Equal(t, "hello", again.Text)
}

func TestConcurrentLikesKeepOneEntryPerUser(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	postID := f.post(t, alice, "hello")

	const workers = 16
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := f.posts.Like(ctx, alice, postID)
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyLiked)
		}
	}
	assert.Equal(t, 1, succeeded)

	p, err := f.posts.GetByID(ctx, postID)
	require.NoError(t, err)
	assert.Len(t, p.Likes, 1)
}
