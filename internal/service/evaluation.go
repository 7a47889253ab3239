package service

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/store"
)

// EvaluationService slot割り当て・中断・完了のステートマシン本体。
// すべての操作はコレクション全体のread-modify-writeで、参加者ロック下で実行する。
type EvaluationService struct {
	store   store.RecordStore
	mirror  AuditMirror
	catalog []string
	locks   *store.ParticipantLocks
	log     *logger.Logger

	// テストから差し替える
	now  func() time.Time
	intn func(n int) int
}

func NewEvaluationService(st store.RecordStore, mirror AuditMirror, catalog []string, log *logger.Logger) *EvaluationService {
	return &EvaluationService{
		store:   st,
		mirror:  mirror,
		catalog: catalog,
		locks:   store.NewParticipantLocks(),
		log:     log,
		now:     time.Now,
		intn:    rand.Intn,
	}
}

// GetCurrentSlot 参加者が現在評価すべきslotレコードを返す。
// slot昇順で最初の「assignedかつ未処理」のレコードにstart_timestampを刻印して返す。
// 全slot完了なら (nil, nil)。レコードが1件もなければErrNotFound。
// 再呼び出しのたびに開始時刻が打ち直されるため、セッション側でレコードを保持して
// slot入場ごとに1回だけ呼ぶこと。
func (s *EvaluationService) GetCurrentSlot(participantID string) (*model.EvaluationRecord, error) {
	mu := s.locks.Lock(participantID)
	defer mu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	idxs := participantIndexes(records, participantID)
	if len(idxs) == 0 {
		return nil, fmt.Errorf("%w: 参加者 %s", ErrNotFound, participantID)
	}

	sortBySlot(records, idxs)

	for _, i := range idxs {
		if !records[i].IsPending() {
			continue
		}
		ts := float64(s.now().Unix())
		records[i].StartTimestamp = &ts
		if err := s.store.Save(records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		rec := records[i]
		s.log.Info("slot開始", "participant_id", participantID, "slot", rec.Slot, "paper_id", rec.PaperID, "has_summary", rec.HasSummary)
		return &rec, nil
	}

	// すべてのslotが完了している
	return nil, nil
}

// GetProgress 参加者の進捗を返す。レコードがない参加者は未開始扱い {0, 1, 4}。
func (s *EvaluationService) GetProgress(participantID string) (model.Progress, error) {
	progress := model.Progress{CompletedSlots: 0, CurrentSlot: 1, TotalSlots: model.TotalSlots}

	records, err := s.store.Load()
	if err != nil {
		return progress, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	idxs := participantIndexes(records, participantID)
	if len(idxs) == 0 {
		return progress, nil
	}

	sortBySlot(records, idxs)

	for _, i := range idxs {
		if records[i].Status == model.StatusCompleted {
			progress.CompletedSlots++
		}
	}

	progress.CurrentSlot = model.TotalSlots + 1 // 全完了の番兵値
	for _, i := range idxs {
		if records[i].Status != model.StatusCompleted {
			progress.CurrentSlot = records[i].Slot
			break
		}
	}
	return progress, nil
}

// Catalog 割り当て対象の論文IDリスト
func (s *EvaluationService) Catalog() []string {
	return s.catalog
}

// PaperInfoSource 論文の構造化メタデータの参照元（カタログ）
type PaperInfoSource interface {
	Get(paperID string) (model.Paper, error)
}

// SyncPaperInfo カタログの構造化メタデータを各レコードの_csv_infoへ書き戻す。
// 全参加者のレコードを横断して更新するため、サーバーがリクエストを受ける前の
// 起動時にのみ呼ぶこと。
func (s *EvaluationService) SyncPaperInfo(src PaperInfoSource) (int, error) {
	records, err := s.store.Load()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	updated := 0
	for i := range records {
		p, err := src.Get(records[i].PaperID)
		if err != nil || p.Info == (model.PaperInfo{}) {
			continue
		}
		if records[i].PaperInfo != nil && *records[i].PaperInfo == p.Info {
			continue
		}
		info := p.Info
		records[i].PaperInfo = &info
		updated++
	}
	if updated == 0 {
		return 0, nil
	}

	if err := s.store.Save(records); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.log.Info("論文メタデータをレコードへ反映", "records", updated)
	return updated, nil
}

func participantIndexes(records []model.EvaluationRecord, participantID string) []int {
	var idxs []int
	for i := range records {
		if records[i].ParticipantID == participantID {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// sortBySlot 参加者のレコード位置をslot昇順に並べ替える（走査順を決定的にする）
func sortBySlot(records []model.EvaluationRecord, idxs []int) {
	sort.SliceStable(idxs, func(a, b int) bool {
		return records[idxs[a]].Slot < records[idxs[b]].Slot
	})
}
