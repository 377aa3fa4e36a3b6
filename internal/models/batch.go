package models

import (
	"time"

	"gorm.io/gorm"
)

type Batch struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	TrainerID uint `json:"trainer_id" gorm:"not null;index"`
	CourseID  uint `json:"course_id" gorm:"not null;index"`

	// Asset references, already encoded/stored by the upload layer.
	ProfileImage  *string `json:"profile_image" gorm:"type:text"`
	StudyMaterial *string `json:"study_material" gorm:"size:500"`

	BatchStartDate time.Time `json:"batch_start_date" gorm:"not null"`
	BatchEndDate   time.Time `json:"batch_end_date" gorm:"not null"`
	BatchTimings   *string   `json:"batch_timings" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Trainer          *User   `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Course           *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	EnrolledStudents []User  `json:"enrolled_students,omitempty" gorm:"many2many:batch_students;joinForeignKey:BatchID;joinReferences:StudentID"`
}

// BatchStudent is the Batch<->Student bridge row. Membership is always
// replaced as a whole set, never patched row by row.
type BatchStudent struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	BatchID   uint `json:"batch_id" gorm:"not null;uniqueIndex:idx_batch_student"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_batch_student"`

	CreatedAt time.Time `json:"created_at"`
}

func (Batch) TableName() string {
	return "batches"
}

func (BatchStudent) TableName() string {
	return "batch_students"
}
