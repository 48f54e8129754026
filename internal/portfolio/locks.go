package portfolio

import "sync"

// accountLocks hands out one mutex per account id, making each account a
// single logical writer: a trade's read-validate-mutate sequence never
// interleaves with another trade against the same account. Cross-account
// operations take no lock at all.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for an account id, creating it on first use.
// Locks are never released from the map; the account set is small and
// accounts are never deleted.
func (l *accountLocks) get(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountID] = lock
	}
	return lock
}
