package mapper

import (
	"encoding/json"

	"ai-coach-be/internal/entity"
	"ai-coach-be/internal/model"
)

type MemoryMapper struct{}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{}
}

func (m *MemoryMapper) DossierToEntity(d *model.MemoryDossier) *entity.MemoryRecord {
	if d == nil {
		return nil
	}
	return &entity.MemoryRecord{UserId: d.UserId, Data: json.RawMessage(d.Data), UpdatedAt: d.UpdatedAt}
}

func (m *MemoryMapper) DigestToEntity(d *model.MemoryDigest) *entity.MemoryRecord {
	if d == nil {
		return nil
	}
	return &entity.MemoryRecord{UserId: d.UserId, Data: json.RawMessage(d.Data), UpdatedAt: d.GeneratedAt}
}

func (m *MemoryMapper) ConversationToEntity(c *model.MemoryConversation) *entity.ConversationMemory {
	if c == nil {
		return nil
	}
	bullets := []string(c.Bullets)
	if bullets == nil {
		bullets = []string{}
	}
	return &entity.ConversationMemory{UserId: c.UserId, Bullets: bullets, UpdatedAt: c.UpdatedAt}
}

func (m *MemoryMapper) DecisionLogToEntity(d *model.DecisionLog) *entity.DecisionLog {
	if d == nil {
		return nil
	}
	return &entity.DecisionLog{
		Id:       d.Id,
		UserId:   d.UserId,
		At:       d.At,
		Actions:  json.RawMessage(d.Actions),
		Messages: json.RawMessage(d.Messages),
		Range:    json.RawMessage(d.Range),
	}
}

func (m *MemoryMapper) DecisionLogToModel(d *entity.DecisionLog) *model.DecisionLog {
	if d == nil {
		return nil
	}
	return &model.DecisionLog{
		Id:       d.Id,
		UserId:   d.UserId,
		At:       d.At,
		Actions:  nullableJSON(d.Actions),
		Messages: nullableJSON(d.Messages),
		Range:    nullableJSON(d.Range),
	}
}

func (m *MemoryMapper) DecisionLogsToEntities(logs []*model.DecisionLog) []*entity.DecisionLog {
	entities := make([]*entity.DecisionLog, len(logs))
	for i, l := range logs {
		entities[i] = m.DecisionLogToEntity(l)
	}
	return entities
}

func nullableJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
