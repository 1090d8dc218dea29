package repository

import (
	"context"

	"gorm.io/gorm"

	"docchat-be/internal/model"
	"docchat-be/pkg/engine/records"
)

// StudentRecordRepository persists student records in Postgres and satisfies
// the records engine's Store contract.
type StudentRecordRepository struct {
	db *gorm.DB
}

func NewStudentRecordRepository(db *gorm.DB) (*StudentRecordRepository, error) {
	if err := db.AutoMigrate(&model.StudentRecord{}); err != nil {
		return nil, err
	}
	return &StudentRecordRepository{db: db}, nil
}

func (r *StudentRecordRepository) List(ctx context.Context) ([]records.Record, error) {
	var rows []model.StudentRecord
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (r *StudentRecordRepository) FindByName(ctx context.Context, name string) ([]records.Record, error) {
	var rows []model.StudentRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (r *StudentRecordRepository) Create(ctx context.Context, record records.Record) (records.Record, error) {
	row := model.StudentRecord{
		Name:  record.Name,
		Age:   record.Age,
		Grade: record.Grade,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return records.Record{}, err
	}
	record.ID = row.Id
	return record, nil
}

func (r *StudentRecordRepository) Update(ctx context.Context, record records.Record) error {
	result := r.db.WithContext(ctx).
		Model(&model.StudentRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"name":  record.Name,
			"age":   record.Age,
			"grade": record.Grade,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StudentRecordRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.StudentRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toRecords(rows []model.StudentRecord) []records.Record {
	out := make([]records.Record, len(rows))
	for i, row := range rows {
		out[i] = records.Record{
			ID:    row.Id,
			Name:  row.Name,
			Age:   row.Age,
			Grade: row.Grade,
		}
	}
	return out
}
