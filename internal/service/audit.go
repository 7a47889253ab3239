package service

import (
	"context"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// AuditMirror 監査ミラー（Google SheetsのResultsワークシート、またはローカルDB）。
// 行はconfig.ResultsHeadersの10列順。
type AuditMirror interface {
	AppendRow(ctx context.Context, row []string) error
}

// AuditReader 進捗復元のためにミラー行を読み戻せるミラー
type AuditReader interface {
	Rows(ctx context.Context) ([][]string, error)
}

func formatEpoch(ts float64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(int64(ts), 0).Format(timeLayout)
}

func boolCell(b bool) string {
	// gspread互換の表記（シート上はTRUE/FALSEで返る）
	if b {
		return "TRUE"
	}
	return "FALSE"
}
