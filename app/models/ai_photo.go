package models

import "time"

const (
	AiPhotoStatusPending    = "pending"
	AiPhotoStatusProcessing = "processing"
	AiPhotoStatusCompleted  = "completed"
	AiPhotoStatusFailed     = "failed"
)

// AiPhoto tracks one AI photo generation job. One credit is deducted when
// the row is created; a permanent failure refunds it.
type AiPhoto struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        string     `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Style       string     `gorm:"type:varchar(50);not null" json:"style"`
	SourcePath  string     `gorm:"type:varchar(300);not null" json:"-"`
	ResultKey   string     `gorm:"type:varchar(300);default:''" json:"result_key"`
	ResultURL   string     `gorm:"type:varchar(500);default:''" json:"result_url"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ErrorMsg    string     `gorm:"type:text" json:"-"`
	Refunded    bool       `gorm:"default:false" json:"refunded"`
	CompletedAt *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsFinished reports whether the job reached a terminal state.
func (p *AiPhoto) IsFinished() bool {
	return p.Status == AiPhotoStatusCompleted || p.Status == AiPhotoStatusFailed
}
