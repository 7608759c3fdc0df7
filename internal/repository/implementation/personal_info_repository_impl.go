package implementation

import (
	"context"
	"errors"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/mapper"
	"chatbot-be/internal/model"
	"chatbot-be/internal/repository/contract"
	"chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PersonalInfoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonalInfoMapper
}

func NewPersonalInfoRepository(db *gorm.DB) contract.PersonalInfoRepository {
	return &PersonalInfoRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonalInfoMapper(),
	}
}

func (r *PersonalInfoRepositoryImpl) Create(ctx context.Context, info *entity.PersonalInfo) error {
	m := r.mapper.ToModel(info)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*info = *r.mapper.ToEntity(m)
	return nil
}

func (r *PersonalInfoRepositoryImpl) Update(ctx context.Context, info *entity.PersonalInfo) error {
	m := r.mapper.ToModel(info)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*info = *r.mapper.ToEntity(m)
	return nil
}

func (r *PersonalInfoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PersonalInfo, error) {
	var m model.PersonalInfo
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
