package model

import "time"

type StudentRecord struct {
	Id        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;index"`
	Age       int       `gorm:"column:age;not null"`
	Grade     string    `gorm:"column:grade;type:varchar(2);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StudentRecord) TableName() string {
	return "student_records"
}
