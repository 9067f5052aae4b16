package repository

import (
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommunityTest(t *testing.T) (*gorm.DB, CommunityRepository, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	user := createTestUser(t, testDB, "poster")
	return testDB, NewCommunityRepository(testDB), user
}

func TestCommunityRepository_CreateAndGetPost(t *testing.T) {
	testDB, repo, user := setupCommunityTest(t)
	defer db.CleanupTestDB(testDB)

	post := &model.CommunityPost{
		UserID:      user.ID,
		Title:       "My beluga keyring",
		Description: "Printed it yesterday",
		ImageURLs:   pq.StringArray{"https://example.com/a.jpg"},
	}
	require.NoError(t, repo.CreatePost(post))

	found, err := repo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "My beluga keyring", found.Title)
	require.NotNil(t, found.User)
	assert.Equal(t, "poster", found.User.Username)

	_, err = repo.GetPostByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommunityRepository_GetPosts(t *testing.T) {
	testDB, repo, user := setupCommunityTest(t)
	defer db.CleanupTestDB(testDB)

	for _, title := range []string{"Sticker haul", "Mug review", "Sticker layout tips"} {
		require.NoError(t, repo.CreatePost(&model.CommunityPost{UserID: user.ID, Title: title}))
	}

	posts, total, err := repo.GetPosts(PostListQuery{Search: "Sticker", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Sticker layout tips", posts[0].Title)
}

func TestCommunityRepository_TogglePostLike(t *testing.T) {
	testDB, repo, user := setupCommunityTest(t)
	defer db.CleanupTestDB(testDB)

	post := &model.CommunityPost{UserID: user.ID, Title: "Like me"}
	require.NoError(t, repo.CreatePost(post))

	liked, likes, err := repo.TogglePostLike(post.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	liked, likes, err = repo.TogglePostLike(post.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)

	_, _, err = repo.TogglePostLike(999, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommunityRepository_Comments(t *testing.T) {
	testDB, repo, user := setupCommunityTest(t)
	defer db.CleanupTestDB(testDB)

	post := &model.CommunityPost{UserID: user.ID, Title: "Comment here"}
	require.NoError(t, repo.CreatePost(post))

	require.NoError(t, repo.CreateComment(&model.CommunityComment{PostID: post.ID, UserID: user.ID, Content: "first"}))
	require.NoError(t, repo.CreateComment(&model.CommunityComment{PostID: post.ID, UserID: user.ID, Content: "second"}))

	comments, err := repo.GetComments(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	found, err := repo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.CommentCount)

	err = repo.CreateComment(&model.CommunityComment{PostID: 999, UserID: user.ID, Content: "orphan"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
