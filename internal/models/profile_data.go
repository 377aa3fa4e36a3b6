package models

// ProfileData is the tagged variant describing the category-specific
// profile attached to a user. Exactly one concrete type exists per
// category; the provisioning service switches over it exhaustively
// instead of branching on raw strings.
type ProfileData interface {
	// Category returns the user category the variant belongs to.
	Category() UserCategory
}

type AdminProfileData struct {
	Role AdminRole
}

func (AdminProfileData) Category() UserCategory { return CategoryAdmin }

type TrainerProfileData struct {
	Role TrainerRole
}

func (TrainerProfileData) Category() UserCategory { return CategoryTrainer }

type StudentProfileData struct {
	CourseID     uint
	LearningMode LearningMode
	FeeDetail    string
	PaymentMode  string
}

func (StudentProfileData) Category() UserCategory { return CategoryStudent }
