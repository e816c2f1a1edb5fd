/*
 *  Consent permit ledger issues time-bounded permits and keeps a
 *  tamper-evident chain of action receipts
 *  Copyright (C) 2026 Consentdesk community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package ledger

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consentdesk/consent-permit-service/domain"
)

// TimeNow is the ledger clock, overridable in tests.
var TimeNow = time.Now

const minBumpReasonLength = 10

// Options configures a Ledger instance.
type Options struct {
	// Secret keys the HMAC signer.
	Secret []byte
	// PermitTTL is the validity window stamped on issued permits.
	PermitTTL time.Duration
	// AllowUnknownPermits restores the lenient demo behavior of minting
	// receipts against permit ids that are not in the registry.
	AllowUnknownPermits bool
}

// Ledger owns the append-only receipt chain, the permit registry and the
// epoch counter. Mint and bump are single-writer operations: the
// tail-read-then-append and the counter-read-then-increment sequences
// run under the write lock so appends are linearized. Reads take
// snapshots under the read lock; entries are never mutated after append.
type Ledger struct {
	mu       sync.RWMutex
	permits  []*Permit
	byPermit map[string]*Permit
	receipts []*Receipt
	byID     map[string]int
	epoch    Epoch
	signer   Signer
	opts     Options
}

// New constructs an empty ledger starting at epoch 1.
func New(opts Options) *Ledger {
	if opts.PermitTTL <= 0 {
		opts.PermitTTL = time.Hour
	}
	return &Ledger{
		byPermit: map[string]*Permit{},
		byID:     map[string]int{},
		epoch:    Epoch{Current: 1},
		signer:   NewSigner(opts.Secret),
		opts:     opts,
	}
}

// Signer exposes the ledger's signer for components that attest
// receipts outside the chain itself.
func (l *Ledger) Signer() Signer {
	return l.signer
}

// NewID builds a prefixed opaque identifier from a dashless UUID.
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + raw[:16]
}

// IssuePermit registers a fresh ACTIVE permit under the current epoch
// with a fixed validity window.
func (l *Ledger) IssuePermit(meta PermitMetadata) *Permit {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := TimeNow().UTC()
	permit := &Permit{
		PermitID:     NewID("permit_"),
		TenantID:     orDefault(meta.TenantID, "default"),
		RequesterID:  orDefault(meta.RequesterID, "system"),
		ModelID:      orDefault(meta.ModelID, "model:default@1"),
		Jurisdiction: orDefault(meta.Jurisdiction, "US-CA"),
		Epoch:        l.epoch.Current,
		PolicySnapshot: PolicySnapshot{
			Epoch: l.epoch.Current,
			Terms: "policy-v" + strconv.FormatInt(l.epoch.Current, 10),
		},
		IssuedAt:  now,
		ExpiresAt: now.Add(l.opts.PermitTTL),
		Status:    StatusActive,
	}
	l.permits = append(l.permits, permit)
	l.byPermit[permit.PermitID] = permit
	return permit
}

// MintReceipt appends a receipt for an action taken under permitID. The
// permit must exist unless the ledger tolerates unknown permits. The
// previous hash is read and the new entry appended inside one critical
// section, so two concurrent mints can never claim the same prev_hash.
func (l *Ledger) MintReceipt(permitID string, action Action, metadata map[string]interface{}) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byPermit[permitID]; !ok && !l.opts.AllowUnknownPermits {
		return nil, domain.ErrPermitNotFound
	}

	prevHash := GenesisHash
	if n := len(l.receipts); n > 0 {
		prevHash = l.receipts[n-1].Hash
	}

	receipt := &Receipt{
		ReceiptID: NewID("receipt_"),
		PermitID:  permitID,
		Action:    action,
		Timestamp: TimeNow().UTC().Format(time.RFC3339Nano),
		Epoch:     l.epoch.Current,
		PrevHash:  prevHash,
		Metadata:  metadata,
	}
	receipt.Hash = ContentDigest(receipt)
	receipt.Signature = l.signer.Sign(receipt.Hash)

	l.byID[receipt.ReceiptID] = len(l.receipts)
	l.receipts = append(l.receipts, receipt)
	return receipt, nil
}

// BumpEpoch increments the epoch counter and revokes every still-ACTIVE
// permit issued under an earlier epoch. Receipts are untouched: a bump
// fails future point-in-time verification of old receipts without
// rewriting the chain. A reason under 10 characters is rejected before
// any mutation.
func (l *Ledger) BumpEpoch(reason, requestedBy string) (BumpResult, error) {
	if len(reason) < minBumpReasonLength {
		return BumpResult{}, domain.ErrInvalidReason
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := TimeNow().UTC()
	oldEpoch := l.epoch.Current
	newEpoch := oldEpoch + 1
	l.epoch = Epoch{
		Current:      newEpoch,
		LastBumpedAt: &now,
		LastBumpedBy: requestedBy,
		BumpReason:   reason,
	}

	revoked := 0
	for _, permit := range l.permits {
		if permit.Epoch < newEpoch && permit.Status == StatusActive {
			permit.Status = StatusRevoked
			revoked++
		}
	}

	return BumpResult{
		OldEpoch:     oldEpoch,
		NewEpoch:     newEpoch,
		RevokedCount: revoked,
		Timestamp:    now,
	}, nil
}

// CurrentEpoch returns a copy of the epoch state.
func (l *Ledger) CurrentEpoch() Epoch {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.epoch
}

// Len returns the chain length.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.receipts)
}

// PermitCount returns the registry size.
func (l *Ledger) PermitCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.permits)
}

// PermitByID looks up a permit.
func (l *Ledger) PermitByID(id string) (*Permit, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	permit, ok := l.byPermit[id]
	return permit, ok
}

// PermitAt returns the permit at registry position i, for round-robin
// bulk minting.
func (l *Ledger) PermitAt(i int) *Permit {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.permits[i%len(l.permits)]
}

// ReceiptAt returns the receipt at chain index i.
func (l *Ledger) ReceiptAt(i int) (*Receipt, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.receipts) {
		return nil, false
	}
	return l.receipts[i], true
}

// ReceiptByID returns a receipt and its chain position.
func (l *Ledger) ReceiptByID(id string) (*Receipt, int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[id]
	if !ok {
		return nil, 0, false
	}
	return l.receipts[idx], idx, true
}

// Receipts returns a snapshot slice of receipts in [start, end).
func (l *Ledger) Receipts(start, end int) ([]*Receipt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if start < 0 || end > len(l.receipts) || start > end {
		return nil, domain.ErrInvalidRange
	}
	out := make([]*Receipt, end-start)
	copy(out, l.receipts[start:end])
	return out, nil
}

// Stats summarizes the chain for monitoring.
func (l *Ledger) Stats() ChainStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stats := ChainStats{
		Length:       len(l.receipts),
		CurrentEpoch: l.epoch.Current,
	}
	if n := len(l.receipts); n > 0 {
		stats.HeadHash = l.receipts[0].Hash
		stats.TailHash = l.receipts[n-1].Hash
	}
	return stats
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

