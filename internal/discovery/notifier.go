package discovery

import (
	"context"
	"errors"
)

// MatchNotifier is told about every newly created match.
type MatchNotifier interface {
	NotifyMatch(ctx context.Context, m *Match) error
}

// Notifiers fans a match out to every member and joins their errors.
type Notifiers []MatchNotifier

func (ns Notifiers) NotifyMatch(ctx context.Context, m *Match) error {
	var errs []error
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := n.NotifyMatch(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
