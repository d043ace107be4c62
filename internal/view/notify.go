package view

import (
	"sync"
	"time"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

const DefaultNoticeTTL = 3 * time.Second

// Notice is a transient message. It never carries task state.
type Notice struct {
	ID        int        `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func (n Notice) Alive(now time.Time) bool {
	return now.Before(n.ExpiresAt)
}

// Notifier queues notices that expire after a fixed TTL.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	nextID  int
	notices []Notice
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notifier{ttl: ttl, nextID: 1}
}

func (n *Notifier) TTL() time.Duration { return n.ttl }

func (n *Notifier) Push(kind NoticeKind, msg string, now time.Time) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	notice := Notice{
		ID:        n.nextID,
		Kind:      kind,
		Message:   msg,
		ExpiresAt: now.Add(n.ttl),
	}
	n.nextID++
	n.notices = append(n.notices, notice)
	return notice
}

// Active returns the notices still alive at now, oldest first. Dead
// notices are dropped from the queue on the way.
func (n *Notifier) Active(now time.Time) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.expireLocked(now)
	return append([]Notice(nil), n.notices...)
}

// Len counts queued notices, including ones not yet pruned.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.notices)
}

// Dismiss drops a notice. Dismissing one that is already gone is harmless.
func (n *Notifier) Dismiss(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, notice := range n.notices {
		if notice.ID == id {
			n.notices = append(n.notices[:i], n.notices[i+1:]...)
			return
		}
	}
}

// Expire drops every notice that is no longer alive at now.
func (n *Notifier) Expire(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.expireLocked(now)
}

func (n *Notifier) expireLocked(now time.Time) {
	kept := n.notices[:0]
	for _, notice := range n.notices {
		if notice.Alive(now) {
			kept = append(kept, notice)
		}
	}
	clear(n.notices[len(kept):])
	n.notices = kept
}
