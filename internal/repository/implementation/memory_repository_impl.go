package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/mapper"
	"ai-coach-be/internal/model"
	"ai-coach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewMemoryRepository(db *gorm.DB) contract.MemoryRepository {
	return &MemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *MemoryRepositoryImpl) FindDossier(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error) {
	var m model.MemoryDossier
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DossierToEntity(&m), nil
}

func (r *MemoryRepositoryImpl) UpsertDossier(ctx context.Context, userId uuid.UUID, data json.RawMessage) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO memory_dossier (user_id, data, updated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, userId, string(data)).Error
}

func (r *MemoryRepositoryImpl) FindDigest(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error) {
	var m model.MemoryDigest
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DigestToEntity(&m), nil
}

func (r *MemoryRepositoryImpl) UpsertDigest(ctx context.Context, userId uuid.UUID, data json.RawMessage) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO memory_digest (user_id, data, generated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, generated_at = NOW()
	`, userId, string(data)).Error
}

func (r *MemoryRepositoryImpl) FindConversation(ctx context.Context, userId uuid.UUID) (*entity.ConversationMemory, error) {
	var m model.MemoryConversation
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationToEntity(&m), nil
}

func (r *MemoryRepositoryImpl) UpsertConversation(ctx context.Context, userId uuid.UUID, bullets []string) error {
	if bullets == nil {
		bullets = []string{}
	}
	payload, err := json.Marshal(bullets)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO memory_conversation (user_id, bullets, updated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id) DO UPDATE SET bullets = EXCLUDED.bullets, updated_at = NOW()
	`, userId, string(payload)).Error
}
