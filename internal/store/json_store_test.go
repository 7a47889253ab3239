package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStoreMissingFileIsEmpty(t *testing.T) {
	st := NewJSONFileStore(filepath.Join(t.TempDir(), "none.json"))
	records, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluation_records.json")
	st := NewJSONFileStore(path)

	start := 1700000000.5
	in := []model.EvaluationRecord{
		{
			ParticipantID:   "alice",
			ParticipantName: "山田太郎",
			Slot:            2,
			PaperID:         "3",
			HasSummary:      true,
			Status:          model.StatusCompleted,
			Processed:       true,
			StartTimestamp:  &start,
			SubmitTimestamp: 1700000300,
			WorkDuration:    299,
			ExcludedPapers:  []string{"5", "1"},
			Evaluation:      "妥当",
			Action:          "共有する",
			Summary:         "要点A",
		},
		{
			ParticipantID: "alice",
			Slot:          3,
			PaperID:       "4",
			Status:        model.StatusAssigned,
		},
	}
	require.NoError(t, st.Save(in))

	out, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// 未開始のstart_timestampはnullで書かれる（互換フォーマット）
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_timestamp": null`)
}

func TestJSONFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluation_records.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))

	_, err := NewJSONFileStore(path).Load()
	assert.Error(t, err)
}

func TestJSONFileStoreSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evaluation_records.json")
	st := NewJSONFileStore(path)

	require.NoError(t, st.Save([]model.EvaluationRecord{{ParticipantID: "a", Slot: 1}}))
	require.NoError(t, st.Save([]model.EvaluationRecord{{ParticipantID: "b", Slot: 1}}))

	out, err := st.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ParticipantID)

	// 一時ファイルを残さない
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
