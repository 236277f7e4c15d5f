package implementation

import (
	"context"
	"sort"
	"time"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/mapper"
	"techno-ai-be/internal/model"
	"techno-ai-be/internal/repository/contract"
	"techno-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) CreateBatch(ctx context.Context, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	models := r.mapper.ToModels(messages)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summaries groups in Go so the timestamp keeps its column type on every driver.
func (r *MessageRepositoryImpl) Summaries(ctx context.Context, userId uuid.UUID) ([]*entity.ConversationSummary, error) {
	var rows []struct {
		ConversationTitle string
		Timestamp         time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("conversation_title", "timestamp").
		Where("user_id = ?", userId).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := map[string]time.Time{}
	for _, row := range rows {
		if ts, ok := latest[row.ConversationTitle]; !ok || row.Timestamp.After(ts) {
			latest[row.ConversationTitle] = row.Timestamp
		}
	}

	summaries := make([]*entity.ConversationSummary, 0, len(latest))
	for t, ts := range latest {
		summaries = append(summaries, &entity.ConversationSummary{Title: t, LastMessageAt: ts})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].Title < summaries[j].Title
		}
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

func (r *MessageRepositoryImpl) RenameConversation(ctx context.Context, userId uuid.UUID, oldTitle, newTitle string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("user_id = ? AND conversation_title = ?", userId, oldTitle).
		Update("conversation_title", newTitle)
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) DeleteConversation(ctx context.Context, userId uuid.UUID, title string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_title = ?", userId, title).
		Delete(&model.Message{})
	return result.RowsAffected, result.Error
}
