package ledger

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// MemorySource keeps transactions in process memory.
type MemorySource struct {
	mu  sync.RWMutex
	txs map[string][]Transaction
}

func NewMemorySource() *MemorySource {
	return &MemorySource{txs: map[string][]Transaction{}}
}

func (m *MemorySource) Add(txs ...Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range txs {
		m.txs[tx.AccountID] = append(m.txs[tx.AccountID], tx)
	}
}

// Load reads a JSON array of transactions.
func (m *MemorySource) Load(r io.Reader) error {
	var txs []Transaction
	if err := json.NewDecoder(r).Decode(&txs); err != nil {
		return err
	}
	m.Add(txs...)
	return nil
}

// Forget drops every transaction of an account.
func (m *MemorySource) Forget(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.txs, accountID)
}

func (m *MemorySource) Transactions(ctx context.Context, accountID string, from, to time.Time) ([]Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Transaction
	for _, tx := range m.txs[accountID] {
		if !tx.Date.Before(from) && tx.Date.Before(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}
