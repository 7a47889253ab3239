package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/google/uuid"
)

// Page 画面遷移の状態。共有グローバルではなく明示的なステートマシンとして持つ。
type Page string

const (
	PageConsent      Page = "consent"
	PageForm         Page = "form"
	PageContinuation Page = "continuation"
	PageThanks       Page = "thanks"
	PageAllComplete  Page = "all_complete"
)

var ErrInvalidTransition = errors.New("この画面からは実行できない操作です")

// Session 1参加者の編集セッション。アクティブなslotレコードをここに保持し、
// GetCurrentSlotの再呼び出しによる開始時刻の打ち直しを防ぐ。
type Session struct {
	mu sync.Mutex

	Token         string
	ParticipantID string
	Page          Page
	// フォーム表示中のレコード（slot入場時にメモ化）
	Record        *model.EvaluationRecord
	CompletedSlot int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StartSlot 同意画面または継続選択画面からフォームへ。
// recがnil（全slot完了）なら完了画面へ遷移する。
func (s *Session) StartSlot(rec *model.EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Page != PageConsent && s.Page != PageContinuation {
		return fmt.Errorf("%w: %s から form", ErrInvalidTransition, s.Page)
	}
	if rec == nil {
		s.Page = PageAllComplete
		s.Record = nil
	} else {
		s.Page = PageForm
		s.Record = rec
	}
	s.UpdatedAt = time.Now()
	return nil
}

// ActiveRecord フォーム表示中のレコード（formページ以外はnil）
func (s *Session) ActiveRecord() *model.EvaluationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Page != PageForm {
		return nil
	}
	return s.Record
}

// FinishSlot 完了または中断の成功後、継続選択画面へ
func (s *Session) FinishSlot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Page != PageForm || s.Record == nil {
		return fmt.Errorf("%w: %s から continuation", ErrInvalidTransition, s.Page)
	}
	s.CompletedSlot = s.Record.Slot
	s.Record = nil
	s.Page = PageContinuation
	s.UpdatedAt = time.Now()
	return nil
}

// Quit 継続選択画面から「今日はここまで」
func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Page != PageContinuation {
		return fmt.Errorf("%w: %s から thanks", ErrInvalidTransition, s.Page)
	}
	s.Page = PageThanks
	s.UpdatedAt = time.Now()
	return nil
}

// CurrentPage 現在の画面
func (s *Session) CurrentPage() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Page
}

// Registry トークン → セッション。プロセス内のみで保持する。
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Create(participantID string) *Session {
	s := &Session{
		Token:         uuid.NewString(),
		ParticipantID: participantID,
		Page:          PageConsent,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.mu.Lock()
	r.sessions[s.Token] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	return s, ok
}

func (r *Registry) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}
