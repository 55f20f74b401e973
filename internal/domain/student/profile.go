package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-tutor/internal/persona"
)

// Profile is the persisted learner record the tutor reads a persona.StudentProfile from.
// Metadata holds free-form app data (display name, last subject, ...) that selection ignores.
type Profile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	GradeLevel         int            `gorm:"column:grade_level;not null" json:"grade_level"`
	PerformanceScore   float64        `gorm:"column:performance_score;not null;default:0" json:"performance_score"`
	LanguagePreference string         `gorm:"column:language_preference" json:"language_preference"`
	Metadata           datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Profile) TableName() string { return "student_profile" }

func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// StudentProfile is the selection view of the record.
func (p *Profile) StudentProfile() persona.StudentProfile {
	if p == nil {
		return persona.StudentProfile{}
	}
	return persona.StudentProfile{
		GradeLevel:         p.GradeLevel,
		PerformanceScore:   p.PerformanceScore,
		LanguagePreference: p.LanguagePreference,
	}
}
