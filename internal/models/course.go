package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AvailabilityType string

const (
	AvailabilityAlways    AvailabilityType = "always"
	AvailabilityTimebound AvailabilityType = "timebound"
)

type ContentType string

const (
	ContentPDF   ContentType = "pdf"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
)

// ContentItem describes an optional piece of course content. Stored as a
// JSON column; the service never interprets the URL bytes.
type ContentItem struct {
	Type ContentType `json:"type" validate:"omitempty,oneof=pdf image video"`
	URL  string      `json:"url"`
}

type Course struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	CourseName    string  `json:"course_name" gorm:"not null;size:200;index"`
	TrainerID     uint    `json:"trainer_id" gorm:"not null;index"`
	TotalPrice    float64 `json:"total_price" gorm:"not null;type:decimal(10,2)"`
	DiscountPrice *float64 `json:"discount_price" gorm:"type:decimal(10,2)"`

	// Cover asset reference, already encoded/stored by the upload layer.
	CourseCover *string `json:"course_cover" gorm:"type:text"`

	AvailabilityType AvailabilityType `json:"availability_type" gorm:"not null;size:20;default:always"`
	AvailableFrom    *time.Time       `json:"available_from"`
	AvailableTo      *time.Time       `json:"available_to"`

	ContentItem datatypes.JSON `json:"content_item,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Trainer          *User            `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Batches          []Batch          `json:"batches,omitempty" gorm:"foreignKey:CourseID"`
	EnrolledStudents []StudentProfile `json:"enrolled_students,omitempty" gorm:"foreignKey:CourseID"`
	Chapters         []Chapter        `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}
