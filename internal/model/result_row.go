package model

import (
	"time"

	"gorm.io/gorm"
)

// ResultRow ローカルミラーDBの1行。列はResultsワークシートと同じ10列。
type ResultRow struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ParticipantName string `gorm:"type:varchar(200);index" json:"participant_name"`
	HasSummary      string `gorm:"type:varchar(10)" json:"has_summary"`
	PaperID         string `gorm:"type:varchar(50);index" json:"paper_id"`
	StartTime       string `gorm:"type:varchar(30)" json:"start_time"`
	EndTime         string `gorm:"type:varchar(30)" json:"end_time"`
	AnswerTime      string `gorm:"type:varchar(20)" json:"answer_time"`
	Action          string `gorm:"type:text" json:"action"`
	Evaluation      string `gorm:"type:text" json:"evaluation"`
	Summary         string `gorm:"type:text" json:"summary"`
	Timestamp       string `gorm:"type:varchar(30)" json:"timestamp"`
}

// Fields ResultsHeaders順のスライス表現
func (r *ResultRow) Fields() []string {
	return []string{
		r.ParticipantName, r.HasSummary, r.PaperID,
		r.StartTime, r.EndTime, r.AnswerTime,
		r.Action, r.Evaluation, r.Summary, r.Timestamp,
	}
}
