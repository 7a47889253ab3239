package seed

import (
	"fmt"
	"math/rand"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// GenerateRecords クロスオーバーRCTの初期割り付けを生成する。
// 参加者ごとに4slot：サマリーあり2・なし2を無作為順に並べ、
// 論文はカタログから重複なしで引く。
func GenerateRecords(participants []string, catalog []string, rng *rand.Rand) ([]model.EvaluationRecord, error) {
	if len(catalog) < model.TotalSlots {
		return nil, fmt.Errorf("カタログの論文数が不足しています: %d < %d", len(catalog), model.TotalSlots)
	}

	var records []model.EvaluationRecord
	for _, pid := range participants {
		// 条件系列：あり2・なし2をシャッフル
		conditions := []bool{true, true, false, false}
		rng.Shuffle(len(conditions), func(i, j int) {
			conditions[i], conditions[j] = conditions[j], conditions[i]
		})

		// 論文を重複なしで4本引く
		papers := make([]string, len(catalog))
		copy(papers, catalog)
		rng.Shuffle(len(papers), func(i, j int) {
			papers[i], papers[j] = papers[j], papers[i]
		})

		for slot := 1; slot <= model.TotalSlots; slot++ {
			records = append(records, model.EvaluationRecord{
				ParticipantID: pid,
				Slot:          slot,
				PaperID:       papers[slot-1],
				HasSummary:    conditions[slot-1],
				Status:        model.StatusAssigned,
				Processed:     false,
			})
		}
	}
	return records, nil
}
