package seed

import (
	"math/rand"
	"testing"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []string{"1", "2", "3", "4", "5", "6"}

func TestGenerateRecordsBalancedCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records, err := GenerateRecords([]string{"alice", "bob", "carol"}, catalog, rng)
	require.NoError(t, err)
	require.Len(t, records, 3*model.TotalSlots)

	byParticipant := make(map[string][]model.EvaluationRecord)
	for _, r := range records {
		byParticipant[r.ParticipantID] = append(byParticipant[r.ParticipantID], r)
	}

	for pid, recs := range byParticipant {
		require.Len(t, recs, model.TotalSlots, pid)

		withSummary := 0
		papers := make(map[string]bool)
		for i, r := range recs {
			assert.Equal(t, i+1, r.Slot)
			assert.Equal(t, model.StatusAssigned, r.Status)
			assert.False(t, r.Processed)
			assert.Nil(t, r.StartTimestamp)
			papers[r.PaperID] = true
			if r.HasSummary {
				withSummary++
			}
		}
		// サマリーあり2・なし2、論文は重複なし
		assert.Equal(t, 2, withSummary, pid)
		assert.Len(t, papers, model.TotalSlots, pid)
	}
}

func TestGenerateRecordsDeterministicWithSeed(t *testing.T) {
	a, err := GenerateRecords([]string{"alice"}, catalog, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := GenerateRecords([]string{"alice"}, catalog, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateRecordsCatalogTooSmall(t *testing.T) {
	_, err := GenerateRecords([]string{"alice"}, []string{"1", "2", "3"}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
