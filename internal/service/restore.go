package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// RestoreProgress ローカルの評価レコードが完了情報を失っている場合に、
// ミラー（Resultsワークシート等）の完了行から進捗を復元する。
// dyno再起動でファイルが巻き戻るHeroku運用への対策。
// ローカル側に完了済みレコードが1件でもあれば何もしない。
func (s *EvaluationService) RestoreProgress(ctx context.Context, reader AuditReader) (int, error) {
	records, err := s.store.Load()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	for i := range records {
		if records[i].Processed {
			return 0, nil
		}
	}

	rows, err := reader.Rows(ctx)
	if err != nil {
		return 0, fmt.Errorf("ミラー行の読み込みに失敗: %w", err)
	}

	restored := 0
	for _, row := range rows {
		if len(row) < 10 {
			continue
		}
		name := row[0]
		if name == "" || strings.HasPrefix(row[6], "INTERRUPTED") {
			continue // 中断行は完了ではない
		}

		// 該当参加者の最小slotの未処理レコードに復元する
		// （完了行はslot順に追記されるため、追記順の走査でslot順が再現される）
		target := -1
		for i := range records {
			if records[i].Processed {
				continue
			}
			if records[i].ParticipantID != name && records[i].ParticipantName != name {
				continue
			}
			if target < 0 || records[i].Slot < records[target].Slot {
				target = i
			}
		}
		if target < 0 {
			continue
		}

		records[target].Status = model.StatusCompleted
		records[target].Processed = true
		if row[2] != "" {
			records[target].PaperID = row[2]
		}
		if st := parseSheetTime(row[3]); st != 0 {
			records[target].StartTimestamp = &st
		}
		if et := parseSheetTime(row[4]); et != 0 {
			records[target].SubmitTimestamp = et
		}
		if d, err := strconv.Atoi(row[5]); err == nil {
			records[target].WorkDuration = d
		}
		records[target].Action = row[6]
		records[target].Evaluation = row[7]
		records[target].Summary = row[8]
		restored++
	}

	if restored == 0 {
		return 0, nil
	}
	if err := s.store.Save(records); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.log.Info("ミラーから進捗を復元", "restored_rows", restored)
	return restored, nil
}

func parseSheetTime(s string) float64 {
	if s == "" {
		return 0
	}
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return 0
	}
	return float64(t.Unix())
}
