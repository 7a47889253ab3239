package model

// TotalSlots 参加者1人あたりのslot数（クロスオーバー計画で固定）
const TotalSlots = 4

const (
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

// EvaluationRecord 評価レコード（参加者×slotごとに1件）
// evaluation_records.json の1要素。フィールド名は既存データとの互換のため変更不可。
type EvaluationRecord struct {
	ParticipantID   string   `json:"participant_id"`
	ParticipantName string   `json:"participant_name,omitempty"`
	Slot            int      `json:"slot"`
	PaperID         string   `json:"paper_id"`
	HasSummary      bool     `json:"has_summary"`
	Status          string   `json:"status"`
	Processed       bool     `json:"processed"`
	// 作業開始時刻（epoch秒）。未開始はnull
	StartTimestamp  *float64 `json:"start_timestamp"`
	SubmitTimestamp float64  `json:"submit_timestamp,omitempty"`
	// 作業時間（秒）= submit - start
	WorkDuration   int      `json:"work_duration,omitempty"`
	// 中断により除外された論文ID（単調増加、重複なし）
	ExcludedPapers []string `json:"excluded_papers,omitempty"`
	Evaluation     string   `json:"evaluation,omitempty"`
	Action         string   `json:"action,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	// Papersシート由来のメタデータ（起動時に更新）
	PaperInfo *PaperInfo `json:"_csv_info,omitempty"`
}

// DisplayName ミラー行に書く参加者名（実名がなければIDをそのまま使う）
func (r *EvaluationRecord) DisplayName() string {
	if r.ParticipantName != "" {
		return r.ParticipantName
	}
	return r.ParticipantID
}

// IsExcluded 指定論文がこのslotで除外済みかどうか
func (r *EvaluationRecord) IsExcluded(paperID string) bool {
	for _, p := range r.ExcludedPapers {
		if p == paperID {
			return true
		}
	}
	return false
}

// AddExcluded 除外セットへの冪等な追加
func (r *EvaluationRecord) AddExcluded(paperID string) {
	if !r.IsExcluded(paperID) {
		r.ExcludedPapers = append(r.ExcludedPapers, paperID)
	}
}

// IsPending 現在提示すべき未完了レコードかどうか
func (r *EvaluationRecord) IsPending() bool {
	return r.Status == StatusAssigned && !r.Processed
}

// Progress 参加者の進捗
type Progress struct {
	CompletedSlots int `json:"completed_slots"`
	// 次に評価すべきslot番号。全完了なら5（総数4の番兵値）
	CurrentSlot int `json:"current_slot"`
	TotalSlots  int `json:"total_slots"`
}

// AllDone 4slotすべて完了か
func (p Progress) AllDone() bool {
	return p.CurrentSlot > p.TotalSlots
}

// EvaluationData 評価完了時に参加者が入力する3フィールド
type EvaluationData struct {
	Evaluation string `json:"evaluation"`
	Action     string `json:"action"`
	Summary    string `json:"summary"`
}
