package store

import (
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// RecordStore 評価レコードの永続化。読み書きは常にコレクション全体で行う。
type RecordStore interface {
	Load() ([]model.EvaluationRecord, error)
	Save(records []model.EvaluationRecord) error
}
