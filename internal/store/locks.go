package store

import "sync"

// ParticipantLocks 参加者IDごとの排他ロック。
// 同一参加者の二重タブ操作でread-modify-writeが競合しないようにするための拡張。
// ロックは解放しても捨てない（参加者数は高々数十人）。
type ParticipantLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewParticipantLocks() *ParticipantLocks {
	return &ParticipantLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock 指定参加者のロックを取得して返す。呼び出し側がUnlockする。
func (p *ParticipantLocks) Lock(participantID string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[participantID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[participantID] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m
}
