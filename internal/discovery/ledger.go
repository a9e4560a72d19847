package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Ledger records swipe actions and detects mutual positive interest.
// Atomic match creation is left to the InteractionStore.
type Ledger struct {
	store InteractionStore
	now   func() time.Time
}

func NewLedger(store InteractionStore, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// Record stores actor's action on target, replacing any earlier one, and
// reports whether this call created the pair's match. A store failure
// wraps ErrStoreUnavailable and means the action was not accepted.
func (l *Ledger) Record(ctx context.Context, actorID, targetID int64, action Action) (*RecordResult, error) {
	if actorID == targetID {
		return nil, ErrSelfInteraction
	}
	if _, err := ParseAction(string(action)); err != nil {
		return nil, err
	}

	now := l.now()
	in := &Interaction{ActorID: actorID, TargetID: targetID, Action: action, CreatedAt: now}
	if err := l.store.UpsertInteraction(ctx, in); err != nil {
		return nil, storeError("upsert interaction", err)
	}

	if !action.IsPositive() {
		return &RecordResult{Matched: false}, nil
	}

	reverse, err := l.store.GetInteraction(ctx, targetID, actorID)
	if errors.Is(err, ErrInteractionNotFound) {
		return &RecordResult{Matched: false}, nil
	}
	if err != nil {
		return nil, storeError("get reverse interaction", err)
	}
	if !reverse.Action.IsPositive() {
		return &RecordResult{Matched: false}, nil
	}

	_, err = l.store.FindMatch(ctx, actorID, targetID)
	if err == nil {
		return &RecordResult{Matched: false}, nil
	}
	if !errors.Is(err, ErrMatchNotFound) {
		return nil, storeError("find match", err)
	}

	match := NewMatch(actorID, targetID, now)
	created, err := l.store.CreateMatch(ctx, match)
	if err != nil {
		return nil, storeError("create match", err)
	}
	// lost the race to the other participant
	if !created {
		return &RecordResult{Matched: false}, nil
	}
	return &RecordResult{Matched: true, Match: match}, nil
}

func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
