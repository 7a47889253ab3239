package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// Complete 評価完了処理。(参加者, slot)の未処理レコードを完了状態にし、
// 作業時間を計算して3つの入力フィールドを書き込む。
// 必須フィールドが空ならErrValidationを返し、一切の変更を行わない。
// 中断で論文が差し替わっていることがあるためpaper_idは照合しない。
func (s *EvaluationService) Complete(participantID string, slot int, data model.EvaluationData) error {
	data.Evaluation = strings.TrimSpace(data.Evaluation)
	data.Action = strings.TrimSpace(data.Action)
	data.Summary = strings.TrimSpace(data.Summary)
	if data.Evaluation == "" || data.Action == "" || data.Summary == "" {
		return fmt.Errorf("%w: evaluation/action/summary", ErrValidation)
	}

	mu := s.locks.Lock(participantID)
	defer mu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	target := -1
	for i := range records {
		if records[i].ParticipantID == participantID &&
			records[i].Slot == slot &&
			!records[i].Processed {
			target = i
			break
		}
	}
	if target < 0 {
		return fmt.Errorf("%w: 参加者%s slot%d", ErrNotFound, participantID, slot)
	}

	submitTime := float64(s.now().Unix())
	// start_timestampがない退化ケースは作業時間0秒として扱う（仕様上の許容）
	workDuration := 0
	if st := records[target].StartTimestamp; st != nil {
		workDuration = int(submitTime - *st)
		if workDuration < 0 {
			workDuration = 0
		}
	}

	records[target].Status = model.StatusCompleted
	records[target].Processed = true
	records[target].SubmitTimestamp = submitTime
	records[target].WorkDuration = workDuration
	records[target].Evaluation = data.Evaluation
	records[target].Action = data.Action
	records[target].Summary = data.Summary

	if err := s.store.Save(records); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.appendCompletionRow(&records[target])

	s.log.Info("slot完了", "participant_id", participantID, "slot", slot,
		"paper_id", records[target].PaperID, "work_duration", workDuration)
	return nil
}

// appendCompletionRow 完了記録をミラーに追記（ベストエフォート）
func (s *EvaluationService) appendCompletionRow(rec *model.EvaluationRecord) {
	if s.mirror == nil {
		return
	}
	start := ""
	if rec.StartTimestamp != nil {
		start = formatEpoch(*rec.StartTimestamp)
	}
	row := []string{
		rec.DisplayName(),               // participant_name
		boolCell(rec.HasSummary),        // has_summary
		rec.PaperID,                     // paper_id
		start,                           // start_time
		formatEpoch(rec.SubmitTimestamp), // end_time
		strconv.Itoa(rec.WorkDuration),  // answer_time
		rec.Action,                      // action
		rec.Evaluation,                  // evaluation
		rec.Summary,                     // summary
		formatEpoch(float64(s.now().Unix())), // timestamp
	}
	if err := s.mirror.AppendRow(context.Background(), row); err != nil {
		s.log.Warn("完了記録のミラー保存エラー", "error", err)
	}
}
