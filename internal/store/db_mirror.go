package store

import (
	"context"
	"fmt"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"gorm.io/gorm"
)

// DBMirror ResultsワークシートのローカルミラーDB実装。
// 列構成はconfig.ResultsHeadersと同一。
type DBMirror struct {
	db *gorm.DB
}

func NewDBMirror(db *gorm.DB) *DBMirror {
	return &DBMirror{db: db}
}

// AppendRow ResultsHeaders順の10列を1行追加する
func (m *DBMirror) AppendRow(ctx context.Context, row []string) error {
	if len(row) != 10 {
		return fmt.Errorf("ミラー行は10列必要です（実際: %d列）", len(row))
	}
	rec := model.ResultRow{
		ParticipantName: row[0],
		HasSummary:      row[1],
		PaperID:         row[2],
		StartTime:       row[3],
		EndTime:         row[4],
		AnswerTime:      row[5],
		Action:          row[6],
		Evaluation:      row[7],
		Summary:         row[8],
		Timestamp:       row[9],
	}
	if err := m.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("ミラー行の保存に失敗: %w", err)
	}
	return nil
}

// Rows 全ミラー行をResultsHeaders順で返す（進捗復元・分析用）
func (m *DBMirror) Rows(ctx context.Context) ([][]string, error) {
	var recs []model.ResultRow
	if err := m.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("ミラー行の取得に失敗: %w", err)
	}
	rows := make([][]string, 0, len(recs))
	for i := range recs {
		rows = append(rows, recs[i].Fields())
	}
	return rows, nil
}
