package mapper

import (
	"fmt"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type PersonalInfoMapper struct{}

func NewPersonalInfoMapper() *PersonalInfoMapper {
	return &PersonalInfoMapper{}
}

func (m *PersonalInfoMapper) ToEntity(p *model.PersonalInfo) *entity.PersonalInfo {
	if p == nil {
		return nil
	}

	data := make(map[string]string, len(p.PersonalInfoData))
	for k, v := range p.PersonalInfoData {
		switch val := v.(type) {
		case string:
			data[k] = val
		case nil:
			data[k] = ""
		default:
			data[k] = fmt.Sprint(val)
		}
	}

	return &entity.PersonalInfo{
		Id:        p.Id,
		UserId:    p.UserId,
		Data:      data,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *PersonalInfoMapper) ToModel(p *entity.PersonalInfo) *model.PersonalInfo {
	if p == nil {
		return nil
	}

	data := make(datatypes.JSONMap, len(p.Data))
	for k, v := range p.Data {
		data[k] = v
	}

	return &model.PersonalInfo{
		Id:               p.Id,
		UserId:           p.UserId,
		PersonalInfoData: data,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
