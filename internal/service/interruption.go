package service

import (
	"context"
	"fmt"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// Interrupt 評価中断処理。中断論文を除外セットに加え、残りから代替論文を
// 一様ランダムに選んで同じslotへ割り当て直す。slotとhas_summaryは変えない。
// カタログを除外し尽くしている場合はErrExhaustedを返し、何も永続化しない。
func (s *EvaluationService) Interrupt(participantID string, slot int, paperID string) error {
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
			records[i].PaperID == paperID {
			target = i
			break
		}
	}
	if target < 0 {
		return fmt.Errorf("%w: 参加者%s slot%d 論文%s", ErrNotFound, participantID, slot, paperID)
	}

	records[target].AddExcluded(paperID)

	replacement := s.selectReplacement(&records[target])
	if replacement == "" {
		// 保存前に抜けるので、除外セットへの追加もコミットされない
		return fmt.Errorf("%w: slot%d", ErrExhausted, slot)
	}

	records[target].PaperID = replacement
	records[target].Status = model.StatusAssigned
	records[target].StartTimestamp = nil // 再開時にGetCurrentSlotが打ち直す

	if err := s.store.Save(records); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.appendInterruptionRow(&records[target], paperID, replacement)

	s.log.Warn("評価を中断", "participant_id", participantID, "slot", slot,
		"interrupted_paper", paperID, "replacement_paper", replacement)
	return nil
}

// selectReplacement カタログから除外済みを引いた残りの一様ランダム選択。
// 条件バランス等は考慮しない。
func (s *EvaluationService) selectReplacement(rec *model.EvaluationRecord) string {
	var available []string
	for _, p := range s.catalog {
		if !rec.IsExcluded(p) {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return ""
	}
	return available[s.intn(len(available))]
}

// appendInterruptionRow 中断記録をミラーに追記する。ミラーは監査用バックアップで
// あり、失敗してもローカル保存済みの結果は有効（警告ログのみ）。
func (s *EvaluationService) appendInterruptionRow(rec *model.EvaluationRecord, interrupted, replacement string) {
	if s.mirror == nil {
		return
	}
	now := formatEpoch(float64(s.now().Unix()))
	row := []string{
		rec.DisplayName(), // participant_name
		"",                // has_summary（中断時は空欄）
		interrupted,       // paper_id
		now,               // start_time
		"",                // end_time
		"",                // answer_time
		fmt.Sprintf("INTERRUPTED (replaced with %s)", replacement), // action
		"",  // evaluation
		"",  // summary
		now, // timestamp
	}
	if err := s.mirror.AppendRow(context.Background(), row); err != nil {
		s.log.Warn("中断記録のミラー保存エラー", "error", err)
	}
}
