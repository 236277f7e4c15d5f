package implementation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/model"
	"techno-ai-be/internal/repository/specification"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserProvider{}, &model.Message{}))
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	hash := "hashed"
	user := &entity.User{
		FullName:      "Ana Cruz",
		Email:         "  Ana@Example.COM ",
		PasswordHash:  &hash,
		Method:        entity.AuthMethodEmail,
		AgreedToTerms: true,
		Preferences:   entity.UserPreferences{Theme: "dark"},
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.Id)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, entity.UserRoleUser, user.Role)

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByEmail{Email: "ANA@example.com"})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.Id, found.Id)
		assert.Equal(t, "dark", found.Preferences.Theme)
	})

	t.Run("missing user is nil without error", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByEmail{Email: "nobody@example.com"})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := repo.Create(ctx, &entity.User{FullName: "Other", Email: "ana@example.com", Method: entity.AuthMethodGoogle})
		assert.Error(t, err)
	})

	t.Run("update preferences", func(t *testing.T) {
		require.NoError(t, repo.UpdatePreferences(ctx, user.Id, entity.UserPreferences{Theme: "light", SidebarCollapsed: true}))
		found, err := repo.FindOne(ctx, specification.ByID{ID: user.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.UserPreferences{Theme: "light", SidebarCollapsed: true}, found.Preferences)
	})

	t.Run("save provider upserts avatar", func(t *testing.T) {
		p := &entity.UserProvider{UserId: user.Id, ProviderName: "google", ProviderUserId: "sub-1", AvatarURL: "a.png"}
		require.NoError(t, repo.SaveUserProvider(ctx, p))
		p2 := &entity.UserProvider{UserId: user.Id, ProviderName: "google", ProviderUserId: "sub-1", AvatarURL: "b.png"}
		require.NoError(t, repo.SaveUserProvider(ctx, p2))
	})
}

func seedConversation(t *testing.T, repo *MessageRepositoryImpl, owner uuid.UUID, convTitle string, at time.Time, n int) {
	t.Helper()
	batch := make([]*entity.Message, 0, n)
	for i := 1; i <= n; i++ {
		sender := owner.String()
		if i%2 == 0 {
			sender = "bot"
		}
		batch = append(batch, &entity.Message{
			UserId:            owner,
			ConversationTitle: convTitle,
			Sender:            sender,
			Content:           fmt.Sprintf("message %d", i),
			Sequence:          i,
			Timestamp:         at.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, repo.CreateBatch(context.Background(), batch))
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t)).(*MessageRepositoryImpl)

	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	seedConversation(t, repo, alice, "Bubble Sort", base, 4)
	seedConversation(t, repo, alice, "Linked Lists", base.Add(time.Hour), 2)
	seedConversation(t, repo, bob, "Bubble Sort", base.Add(2*time.Hour), 2)

	t.Run("summaries are per owner and newest first", func(t *testing.T) {
		summaries, err := repo.Summaries(ctx, alice)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Linked Lists", summaries[0].Title)
		assert.Equal(t, "Bubble Sort", summaries[1].Title)
		assert.True(t, summaries[1].LastMessageAt.Equal(base.Add(4*time.Second)))
	})

	t.Run("messages ordered by sequence and not leaked across owners", func(t *testing.T) {
		msgs, err := repo.FindAll(ctx,
			specification.UserOwnedBy{UserID: alice},
			specification.ByConversationTitle{Title: "Bubble Sort"},
			specification.InSequenceOrder{},
		)
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		for i, m := range msgs {
			assert.Equal(t, i+1, m.Sequence)
			assert.Equal(t, alice, m.UserId)
		}
	})

	t.Run("rename touches only the owner's rows", func(t *testing.T) {
		n, err := repo.RenameConversation(ctx, alice, "Bubble Sort", "Sorting")
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		count, err := repo.Count(ctx, specification.UserOwnedBy{UserID: bob}, specification.ByConversationTitle{Title: "Bubble Sort"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delete returns rows removed", func(t *testing.T) {
		n, err := repo.DeleteConversation(ctx, alice, "Sorting")
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		n, err = repo.DeleteConversation(ctx, alice, "Sorting")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})
}
