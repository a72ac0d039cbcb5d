package bot

import (
	"sync"
	"time"
)

// IntentKind says what the user's next free-text message should be read as,
// after they pressed one of the "send me a value" buttons.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentAddTask
	IntentAddItem
	IntentAddSavings
	IntentSetGoal
)

type pendingIntent struct {
	kind IntentKind
	at   time.Time
}

// PendingIntents tracks one pending intent per user with an expiry, so
// concurrent users cannot cross-contaminate each other's prompts.
type PendingIntents struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	byUser map[int64]pendingIntent
}

func NewPendingIntents(ttl time.Duration) *PendingIntents {
	return &PendingIntents{
		ttl:    ttl,
		now:    time.Now,
		byUser: make(map[int64]pendingIntent),
	}
}

// Set records what the user's next message means, replacing any previous
// pending intent for that user.
func (p *PendingIntents) Set(userID int64, kind IntentKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = pendingIntent{kind: kind, at: p.now()}
}

// Claim returns the user's pending intent and clears it. Expired or absent
// intents yield IntentNone.
func (p *PendingIntents) Claim(userID int64) IntentKind {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.byUser[userID]
	if !ok {
		return IntentNone
	}
	delete(p.byUser, userID)
	if p.now().Sub(intent.at) > p.ttl {
		return IntentNone
	}
	return intent.kind
}
