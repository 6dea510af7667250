package contract

import (
	"context"
	"encoding/json"

	"ai-coach-be/internal/entity"

	"github.com/google/uuid"
)

type MemoryRepository interface {
	FindDossier(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error)
	UpsertDossier(ctx context.Context, userId uuid.UUID, data json.RawMessage) error
	FindDigest(ctx context.Context, userId uuid.UUID) (*entity.MemoryRecord, error)
	UpsertDigest(ctx context.Context, userId uuid.UUID, data json.RawMessage) error
	FindConversation(ctx context.Context, userId uuid.UUID) (*entity.ConversationMemory, error)
	UpsertConversation(ctx context.Context, userId uuid.UUID, bullets []string) error
}
