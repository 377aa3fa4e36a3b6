package models

import (
	"time"

	"gorm.io/gorm"
)

type UserCategory string

const (
	CategoryAdmin   UserCategory = "Admin"
	CategoryTrainer UserCategory = "Trainer"
	CategoryStudent UserCategory = "Student"
)

func (c UserCategory) Valid() bool {
	switch c {
	case CategoryAdmin, CategoryTrainer, CategoryStudent:
		return true
	}
	return false
}

type AdminRole string

const (
	AdminSuper AdminRole = "SuperAdmin"
	AdminSub   AdminRole = "SubAdmin"
)

type TrainerRole string

const (
	TrainerSenior TrainerRole = "SrTrainer"
	TrainerJunior TrainerRole = "JrTrainer"
)

type LearningMode string

const (
	LearningOnline  LearningMode = "Online"
	LearningOffline LearningMode = "Offline"
	LearningHybrid  LearningMode = "Hybrid"
)

// User is the base identity row. Exactly one profile row exists per user,
// selected by Category at creation time; Category never changes afterwards.
type User struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	Name     string       `json:"name" gorm:"not null;size:100"`
	Email    string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string       `json:"-" gorm:"not null;size:255"`
	Mobile   string       `json:"mobile" gorm:"not null;size:20"`
	Category UserCategory `json:"category" gorm:"not null;size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	AdminProfile   *AdminProfile   `json:"admin_profile,omitempty" gorm:"foreignKey:UserID"`
	TrainerProfile *TrainerProfile `json:"trainer_profile,omitempty" gorm:"foreignKey:UserID"`
	StudentProfile *StudentProfile `json:"student_profile,omitempty" gorm:"foreignKey:UserID"`
	Batches        []Batch         `json:"batches,omitempty" gorm:"many2many:batch_students;joinForeignKey:StudentID;joinReferences:BatchID"`
	TrainerBatches []Batch         `json:"trainer_batches,omitempty" gorm:"foreignKey:TrainerID"`
	Courses        []Course        `json:"courses,omitempty" gorm:"foreignKey:TrainerID"`
}

type AdminProfile struct {
	ID     uint      `json:"id" gorm:"primaryKey"`
	UserID uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Role   AdminRole `json:"role" gorm:"not null;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrainerProfile struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	UserID uint        `json:"user_id" gorm:"uniqueIndex;not null"`
	Role   TrainerRole `json:"role" gorm:"not null;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StudentProfile struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	UserID       uint         `json:"user_id" gorm:"uniqueIndex;not null"`
	CourseID     uint         `json:"course_id" gorm:"not null;index"`
	LearningMode LearningMode `json:"learning_mode" gorm:"not null;size:20"`
	FeeDetail    string       `json:"fee_detail" gorm:"not null;size:255"`
	PaymentMode  string       `json:"payment_mode" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (AdminProfile) TableName() string {
	return "admin_profiles"
}

func (TrainerProfile) TableName() string {
	return "trainer_profiles"
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
