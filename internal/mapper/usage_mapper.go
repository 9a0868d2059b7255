package mapper

import (
	"encoding/json"

	"career-compass-be/internal/entity"
	"career-compass-be/internal/model"

	"gorm.io/datatypes"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) DailyUsageToEntity(u *model.DailyUsage) *entity.DailyUsage {
	if u == nil {
		return nil
	}
	return &entity.DailyUsage{
		Id:             u.Id,
		UserId:         u.UserId,
		UsageDate:      u.UsageDate,
		TokensUsed:     u.TokensUsed,
		CooldownEndsAt: u.CooldownEndsAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *UsageMapper) DailyUsageToModel(u *entity.DailyUsage) *model.DailyUsage {
	if u == nil {
		return nil
	}
	return &model.DailyUsage{
		Id:             u.Id,
		UserId:         u.UserId,
		UsageDate:      u.UsageDate,
		TokensUsed:     u.TokensUsed,
		CooldownEndsAt: u.CooldownEndsAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Upload Mappers

func (m *UsageMapper) UploadToEntity(u *model.UploadRecord) *entity.UploadRecord {
	if u == nil {
		return nil
	}

	var meta map[string]interface{}
	if len(u.Metadata) > 0 {
		_ = json.Unmarshal(u.Metadata, &meta)
	}

	e := &entity.UploadRecord{
		Id:            u.Id,
		UserId:        u.UserId,
		ChatSessionId: u.ChatSessionId,
		Kind:          u.Kind,
		FileName:      u.FileName,
		StoredPath:    u.StoredPath,
		PublicURL:     u.PublicURL,
		SizeBytes:     u.SizeBytes,
		Metadata:      meta,
		CreatedAt:     u.CreatedAt,
		IsDeleted:     u.DeletedAt.Valid,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		e.DeletedAt = &t
	}
	return e
}

func (m *UsageMapper) UploadToModel(u *entity.UploadRecord) *model.UploadRecord {
	if u == nil {
		return nil
	}

	var meta datatypes.JSON
	if u.Metadata != nil {
		if raw, err := json.Marshal(u.Metadata); err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	return &model.UploadRecord{
		Id:            u.Id,
		UserId:        u.UserId,
		ChatSessionId: u.ChatSessionId,
		Kind:          u.Kind,
		FileName:      u.FileName,
		StoredPath:    u.StoredPath,
		PublicURL:     u.PublicURL,
		SizeBytes:     u.SizeBytes,
		Metadata:      meta,
		CreatedAt:     u.CreatedAt,
	}
}

func (m *UsageMapper) UploadsToEntities(models []*model.UploadRecord) []*entity.UploadRecord {
	entities := make([]*entity.UploadRecord, len(models))
	for i, u := range models {
		entities[i] = m.UploadToEntity(u)
	}
	return entities
}
