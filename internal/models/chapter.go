package models

import "time"

type Chapter struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ChapterName  string `json:"chapter_name" gorm:"not null;size:200"`
	NoOfSessions int    `json:"no_of_sessions" gorm:"default:0"`
	CourseID     uint   `json:"course_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sessions []Session `json:"sessions,omitempty" gorm:"foreignKey:ChapterID"`
}

type Session struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SessionName string `json:"session_name" gorm:"not null;size:200"`
	SessionLink string `json:"session_link" gorm:"not null;size:500"`
	ChapterID   uint   `json:"chapter_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

func (Session) TableName() string {
	return "sessions"
}
