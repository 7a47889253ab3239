package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore テスト用のインメモリストア
type memStore struct {
	records []model.EvaluationRecord
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() ([]model.EvaluationRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.EvaluationRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) Save(records []model.EvaluationRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = make([]model.EvaluationRecord, len(records))
	copy(m.records, records)
	return nil
}

// memMirror 追記された監査行を記録するスタブ
type memMirror struct {
	rows [][]string
	err  error
}

func (m *memMirror) AppendRow(_ context.Context, row []string) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *memMirror) Rows(_ context.Context) ([][]string, error) {
	return m.rows, m.err
}

// stubPaperSource 論文ID → 構造化メタデータのスタブカタログ
type stubPaperSource map[string]model.PaperInfo

func (s stubPaperSource) Get(paperID string) (model.Paper, error) {
	info, ok := s[paperID]
	if !ok {
		return model.Paper{}, errors.New("カタログにない論文ID")
	}
	return model.Paper{ID: paperID, Info: info}, nil
}

var fullCatalog = []string{"1", "2", "3", "4", "5", "6"}

// mirrorはインターフェース型で受ける。*memMirrorのnilをそのまま渡すと
// 型付きnilになりappendCompletionRowのnilガードを素通りしてしまう。
func newTestService(st *memStore, mirror AuditMirror) *EvaluationService {
	svc := NewEvaluationService(st, mirror, fullCatalog, logger.NewNop())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	svc.intn = func(n int) int { return 0 } // 先頭を選ぶ決定的乱数
	return svc
}

func assignedRecord(pid string, slot int, paperID string, hasSummary bool) model.EvaluationRecord {
	return model.EvaluationRecord{
		ParticipantID: pid,
		Slot:          slot,
		PaperID:       paperID,
		HasSummary:    hasSummary,
		Status:        model.StatusAssigned,
	}
}

func TestGetCurrentSlotReturnsLowestPending(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 3, "4", false),
		assignedRecord("alice", 1, "2", true),
		assignedRecord("alice", 2, "5", false),
	}}
	svc := newTestService(st, nil)

	rec, err := svc.GetCurrentSlot("alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Slot)
	assert.Equal(t, "2", rec.PaperID)
	require.NotNil(t, rec.StartTimestamp)
	assert.Equal(t, float64(1700000000), *rec.StartTimestamp)

	// 刻印した開始時刻は永続化される
	for _, r := range st.records {
		if r.Slot == 1 {
			require.NotNil(t, r.StartTimestamp)
			assert.Equal(t, float64(1700000000), *r.StartTimestamp)
		}
	}
	assert.Equal(t, 1, st.saves)
}

func TestGetCurrentSlotSkipsCompleted(t *testing.T) {
	done := assignedRecord("alice", 1, "2", true)
	done.Status = model.StatusCompleted
	done.Processed = true
	st := &memStore{records: []model.EvaluationRecord{
		done,
		assignedRecord("alice", 2, "5", false),
	}}
	svc := newTestService(st, nil)

	rec, err := svc.GetCurrentSlot("alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Slot)
}

func TestGetCurrentSlotAllComplete(t *testing.T) {
	var records []model.EvaluationRecord
	for slot := 1; slot <= model.TotalSlots; slot++ {
		r := assignedRecord("alice", slot, "1", false)
		r.Status = model.StatusCompleted
		r.Processed = true
		records = append(records, r)
	}
	st := &memStore{records: records}
	svc := newTestService(st, nil)

	rec, err := svc.GetCurrentSlot("alice")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, st.saves) // 全完了時は何も書かない
}

func TestGetCurrentSlotUnknownParticipant(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "1", true),
	}}
	svc := newTestService(st, nil)

	_, err := svc.GetCurrentSlot("bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCurrentSlotLoadFailure(t *testing.T) {
	st := &memStore{loadErr: errors.New("disk gone")}
	svc := newTestService(st, nil)

	_, err := svc.GetCurrentSlot("alice")
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestGetProgress(t *testing.T) {
	done := assignedRecord("alice", 1, "1", true)
	done.Status = model.StatusCompleted
	done.Processed = true
	st := &memStore{records: []model.EvaluationRecord{
		done,
		assignedRecord("alice", 2, "2", false),
		assignedRecord("alice", 3, "3", true),
		assignedRecord("alice", 4, "4", false),
	}}
	svc := newTestService(st, nil)

	p, err := svc.GetProgress("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedSlots)
	assert.Equal(t, 2, p.CurrentSlot)
	assert.Equal(t, model.TotalSlots, p.TotalSlots)
	assert.False(t, p.AllDone())
}

func TestGetProgressUnknownParticipantIsFresh(t *testing.T) {
	st := &memStore{}
	svc := newTestService(st, nil)

	p, err := svc.GetProgress("nobody")
	require.NoError(t, err)
	assert.Equal(t, model.Progress{CompletedSlots: 0, CurrentSlot: 1, TotalSlots: model.TotalSlots}, p)
}

func TestGetProgressAllCompleteSentinel(t *testing.T) {
	var records []model.EvaluationRecord
	for slot := 1; slot <= model.TotalSlots; slot++ {
		r := assignedRecord("alice", slot, "1", false)
		r.Status = model.StatusCompleted
		r.Processed = true
		records = append(records, r)
	}
	st := &memStore{records: records}
	svc := newTestService(st, nil)

	p, err := svc.GetProgress("alice")
	require.NoError(t, err)
	assert.Equal(t, model.TotalSlots, p.CompletedSlots)
	assert.Equal(t, model.TotalSlots+1, p.CurrentSlot)
	assert.True(t, p.AllDone())
}

func TestCompleteHappyPath(t *testing.T) {
	start := float64(1700000000 - 300)
	rec := assignedRecord("alice", 1, "2", true)
	rec.ParticipantName = "山田太郎"
	rec.StartTimestamp = &start
	st := &memStore{records: []model.EvaluationRecord{rec}}
	mirror := &memMirror{}
	svc := newTestService(st, mirror)

	err := svc.Complete("alice", 1, model.EvaluationData{
		Evaluation: "妥当", Action: "共有する", Summary: "要点A",
	})
	require.NoError(t, err)

	got := st.records[0]
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.True(t, got.Processed)
	assert.Equal(t, float64(1700000000), got.SubmitTimestamp)
	assert.Equal(t, 300, got.WorkDuration)
	assert.Equal(t, "妥当", got.Evaluation)
	assert.Equal(t, "共有する", got.Action)
	assert.Equal(t, "要点A", got.Summary)

	require.Len(t, mirror.rows, 1)
	row := mirror.rows[0]
	require.Len(t, row, 10)
	assert.Equal(t, "山田太郎", row[0])
	assert.Equal(t, "TRUE", row[1])
	assert.Equal(t, "2", row[2])
	assert.Equal(t, "300", row[5])
	assert.Equal(t, "共有する", row[6]) // action列
	assert.Equal(t, "妥当", row[7])     // evaluation列
	assert.Equal(t, "要点A", row[8])

	// 完了済みslotは二度と提示されない
	next, err := svc.GetCurrentSlot("alice")
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestCompleteWithoutStartTimestamp(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", false),
	}}
	svc := newTestService(st, nil)

	err := svc.Complete("alice", 1, model.EvaluationData{
		Evaluation: "e", Action: "a", Summary: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, st.records[0].WorkDuration)
}

func TestCompleteValidation(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", false),
	}}
	svc := newTestService(st, nil)

	for _, data := range []model.EvaluationData{
		{Evaluation: "", Action: "a", Summary: "s"},
		{Evaluation: "e", Action: "  ", Summary: "s"},
		{Evaluation: "e", Action: "a", Summary: ""},
	} {
		err := svc.Complete("alice", 1, data)
		assert.ErrorIs(t, err, ErrValidation)
	}
	// 検証失敗では何も変更されない
	assert.Zero(t, st.saves)
	assert.False(t, st.records[0].Processed)
}

func TestCompleteIgnoresPaperIDButMatchesSlot(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "6", false), // 中断で差し替わった論文
	}}
	svc := newTestService(st, nil)

	err := svc.Complete("alice", 1, model.EvaluationData{Evaluation: "e", Action: "a", Summary: "s"})
	assert.NoError(t, err)

	err = svc.Complete("alice", 2, model.EvaluationData{Evaluation: "e", Action: "a", Summary: "s"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteSaveFailure(t *testing.T) {
	st := &memStore{
		records: []model.EvaluationRecord{assignedRecord("alice", 1, "2", false)},
		saveErr: errors.New("disk full"),
	}
	svc := newTestService(st, nil)

	err := svc.Complete("alice", 1, model.EvaluationData{Evaluation: "e", Action: "a", Summary: "s"})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestCompleteAndInterruptWithoutMirror(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", false),
		assignedRecord("alice", 2, "4", true),
	}}
	svc := newTestService(st, nil)

	// ミラー未設定（Sheetsなし・DBなし）でも完了・中断はローカル保存だけで成立する
	require.NoError(t, svc.Complete("alice", 1, model.EvaluationData{
		Evaluation: "e", Action: "a", Summary: "s",
	}))
	assert.True(t, st.records[0].Processed)

	require.NoError(t, svc.Interrupt("alice", 2, "4"))
	assert.Contains(t, st.records[1].ExcludedPapers, "4")
}

func TestCompleteMirrorFailureIsNonFatal(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", false),
	}}
	mirror := &memMirror{err: errors.New("sheets unavailable")}
	svc := newTestService(st, mirror)

	err := svc.Complete("alice", 1, model.EvaluationData{Evaluation: "e", Action: "a", Summary: "s"})
	assert.NoError(t, err)
	assert.True(t, st.records[0].Processed)
}

func TestInterruptReplacesPaper(t *testing.T) {
	start := float64(1699999000)
	rec := assignedRecord("alice", 2, "3", true)
	rec.StartTimestamp = &start
	rec.ExcludedPapers = []string{"5"}
	st := &memStore{records: []model.EvaluationRecord{rec}}
	mirror := &memMirror{}
	svc := newTestService(st, mirror)

	err := svc.Interrupt("alice", 2, "3")
	require.NoError(t, err)

	got := st.records[0]
	// 残り{1,2,4,6}の先頭（intnスタブ）
	assert.Equal(t, "1", got.PaperID)
	assert.ElementsMatch(t, []string{"5", "3"}, got.ExcludedPapers)
	assert.Equal(t, 2, got.Slot)                     // slotは不変
	assert.True(t, got.HasSummary)                   // 条件も不変
	assert.Equal(t, model.StatusAssigned, got.Status)
	assert.Nil(t, got.StartTimestamp) // 再開時に打ち直す

	require.Len(t, mirror.rows, 1)
	row := mirror.rows[0]
	require.Len(t, row, 10)
	assert.Equal(t, "3", row[2]) // 中断された論文
	assert.Equal(t, "INTERRUPTED (replaced with 1)", row[6])
}

func TestInterruptExcludedNeverReassigned(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "1", false),
	}}
	svc := newTestService(st, &memMirror{})

	// 5回中断すると除外が5件になり、残り1本が必ず選ばれる
	current := "1"
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Interrupt("alice", 1, current))
		next := st.records[0].PaperID
		assert.NotContains(t, st.records[0].ExcludedPapers, next)
		assert.NotEqual(t, current, next)
		current = next
	}
	assert.Len(t, st.records[0].ExcludedPapers, 5)
}

func TestInterruptExhaustedLeavesRecordUntouched(t *testing.T) {
	rec := assignedRecord("alice", 1, "6", false)
	rec.ExcludedPapers = []string{"1", "2", "3", "4", "5"}
	st := &memStore{records: []model.EvaluationRecord{rec}}
	svc := newTestService(st, &memMirror{})

	err := svc.Interrupt("alice", 1, "6")
	assert.ErrorIs(t, err, ErrExhausted)

	// 永続化される変更は一切ない（除外追加もコミットされない）
	assert.Zero(t, st.saves)
	assert.Equal(t, "6", st.records[0].PaperID)
	assert.Len(t, st.records[0].ExcludedPapers, 5)
}

func TestInterruptRequiresExactMatch(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", false),
	}}
	svc := newTestService(st, nil)

	assert.ErrorIs(t, svc.Interrupt("alice", 1, "9"), ErrNotFound) // 論文不一致
	assert.ErrorIs(t, svc.Interrupt("alice", 2, "2"), ErrNotFound) // slot不一致
	assert.ErrorIs(t, svc.Interrupt("bob", 1, "2"), ErrNotFound)   // 参加者不一致
}

func TestSyncPaperInfoWritesBackToRecords(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", true),
		assignedRecord("alice", 2, "9", false), // カタログにないID
	}}
	svc := newTestService(st, nil)

	src := stubPaperSource{
		"2": {Thema: "新興病原体のサーベイランス", Summary: "要点"},
	}
	updated, err := svc.SyncPaperInfo(src)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	require.NotNil(t, st.records[0].PaperInfo)
	assert.Equal(t, "新興病原体のサーベイランス", st.records[0].PaperInfo.Thema)
	assert.Nil(t, st.records[1].PaperInfo)

	// 同じメタデータの再同期は書き込まない
	saves := st.saves
	updated, err = svc.SyncPaperInfo(src)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, saves, st.saves)
}

func TestRestoreProgressFromMirror(t *testing.T) {
	st := &memStore{records: []model.EvaluationRecord{
		assignedRecord("alice", 1, "2", true),
		assignedRecord("alice", 2, "4", false),
	}}
	mirror := &memMirror{rows: [][]string{
		{"alice", "", "3", "2023-11-14 00:00:00", "", "", "INTERRUPTED (replaced with 2)", "", "", "2023-11-14 00:00:00"},
		{"alice", "TRUE", "2", "2023-11-14 00:10:00", "2023-11-14 00:15:00", "300", "共有する", "妥当", "要点A", "2023-11-14 00:15:00"},
	}}
	svc := newTestService(st, mirror)

	restored, err := svc.RestoreProgress(context.Background(), mirror)
	require.NoError(t, err)
	assert.Equal(t, 1, restored) // 中断行は復元対象外

	got := st.records[0]
	assert.True(t, got.Processed)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "2", got.PaperID)
	assert.Equal(t, 300, got.WorkDuration)
	assert.Equal(t, "妥当", got.Evaluation)
	assert.False(t, st.records[1].Processed) // slot2は未完了のまま
}

func TestRestoreProgressSkipsWhenLocalHasCompletions(t *testing.T) {
	done := assignedRecord("alice", 1, "2", true)
	done.Processed = true
	done.Status = model.StatusCompleted
	st := &memStore{records: []model.EvaluationRecord{
		done,
		assignedRecord("alice", 2, "4", false),
	}}
	mirror := &memMirror{rows: [][]string{
		{"alice", "FALSE", "4", "", "", "100", "a", "e", "s", ""},
	}}
	svc := newTestService(st, mirror)

	restored, err := svc.RestoreProgress(context.Background(), mirror)
	require.NoError(t, err)
	assert.Zero(t, restored)
	assert.False(t, st.records[1].Processed)
}
