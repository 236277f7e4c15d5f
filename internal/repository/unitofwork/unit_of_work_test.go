package unitofwork

import (
	"context"
	"errors"
	"testing"
	"time"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFactory(t *testing.T) RepositoryFactory {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Message{}))
	return NewRepositoryFactory(db)
}

func batch(owner uuid.UUID) []*entity.Message {
	now := time.Now()
	return []*entity.Message{
		{UserId: owner, ConversationTitle: "Loops", Sender: owner.String(), Content: "q", Sequence: 1, Timestamp: now},
		{UserId: owner, ConversationTitle: "Loops", Sender: "bot", Content: "a", Sequence: 2, Timestamp: now},
	}
}

func TestUnitOfWorkCommit(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	owner := uuid.New()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.MessageRepository().CreateBatch(ctx, batch(owner)))
	require.NoError(t, uow.Commit())

	count, err := factory.NewUnitOfWork(ctx).MessageRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.MessageRepository().CreateBatch(ctx, batch(uuid.New())))
	require.NoError(t, uow.Rollback())

	count, err := factory.NewUnitOfWork(ctx).MessageRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnitOfWorkStateErrors(t *testing.T) {
	ctx := context.Background()
	uow := newFactory(t).NewUnitOfWork(ctx)

	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())

	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())

	err := uow.Rollback()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}
