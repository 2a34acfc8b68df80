package collaborators

import (
	"context"
	"sync"
)

// Accounts is an in-memory account standing lookup. Unknown users are active.
type Accounts struct {
	mu       sync.RWMutex
	inactive map[string]bool
	Err      error
}

func NewAccounts() *Accounts {
	return &Accounts{inactive: make(map[string]bool)}
}

// Deactivate marks the user's account as not active.
func (a *Accounts) Deactivate(userID string) *Accounts {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inactive[userID] = true

	return a
}

func (a *Accounts) IsActive(_ context.Context, userID string) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	return !a.inactive[userID], nil
}

// Reputation is an in-memory trust score lookup. Unknown users have DefaultScore.
type Reputation struct {
	mu           sync.RWMutex
	scores       map[string]float64
	DefaultScore float64
	Err          error
}

func NewReputation() *Reputation {
	return &Reputation{scores: make(map[string]float64), DefaultScore: 4.5}
}

// SetScore sets the trust score of the user.
func (r *Reputation) SetScore(userID string, score float64) *Reputation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scores[userID] = score

	return r
}

func (r *Reputation) TrustScore(_ context.Context, userID string) (float64, error) {
	if r.Err != nil {
		return 0, r.Err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if score, ok := r.scores[userID]; ok {
		return score, nil
	}

	return r.DefaultScore, nil
}
