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

package audit

import (
	"context"
	"sync"
	"time"

	eh "github.com/looplab/eventhorizon"

	"github.com/consentdesk/consent-permit-service/domain/events"
	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

// maxEntries caps the in-memory log; oldest entries fall off the end.
const maxEntries = 10000

// Entry is one audit-log line built from a domain event.
type Entry struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Actor     string                 `json:"user_id"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
	IPAddress string                 `json:"ip_address"`
}

// Query filters the audit log.
type Query struct {
	EventType string
	Actor     string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// QueryResult is one page of matching entries plus the full match count.
type QueryResult struct {
	Logs  []Entry `json:"logs"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
}

// Store keeps audit entries newest-first, capped at maxEntries.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{}
}

// Record prepends an entry, trimming the log to the cap.
func (s *Store) Record(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = ledger.NewID("audit_")
	}
	if entry.IPAddress == "" {
		entry.IPAddress = "system"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}
	return entry
}

// Find returns the page of entries matching q, newest first.
func (s *Store) Find(q Query) QueryResult {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Entry
	for _, entry := range s.entries {
		if q.EventType != "" && entry.EventType != q.EventType {
			continue
		}
		if q.Actor != "" && entry.Actor != q.Actor {
			continue
		}
		if q.From != nil && entry.Timestamp.Before(*q.From) {
			continue
		}
		if q.To != nil && entry.Timestamp.After(*q.To) {
			continue
		}
		matches = append(matches, entry)
	}

	total := len(matches)
	offset := (q.Page - 1) * q.Limit
	if offset > total {
		offset = total
	}
	end := offset + q.Limit
	if end > total {
		end = total
	}
	page := make([]Entry, end-offset)
	copy(page, matches[offset:end])
	return QueryResult{Logs: page, Total: total, Page: q.Page}
}

// Len returns the current number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Handler subscribes the store to the domain event bus and turns every
// mutating-operation event into an audit entry.
type Handler struct {
	Store *Store
}

func (h Handler) HandlerType() eh.EventHandlerType {
	return eh.EventHandlerType("AuditLog")
}

func (h Handler) HandleEvent(ctx context.Context, event eh.Event) error {
	entry := Entry{
		EventType: auditEventType(event.EventType()),
		Timestamp: event.Timestamp(),
	}

	switch data := event.Data().(type) {
	case *events.PermitsIssuedData:
		entry.Actor = data.Actor
		entry.Details = map[string]interface{}{"count": data.Count, "tenant_id": data.TenantID}
	case *events.ReceiptsMintedData:
		entry.Actor = data.Actor
		entry.Details = map[string]interface{}{"count": data.Count, "action": string(data.Action)}
	case *events.ReceiptsVerifiedData:
		entry.Actor = data.Actor
		entry.Details = map[string]interface{}{"checked": data.Checked, "valid": data.Valid, "invalid": data.Invalid}
	case *events.ChainVerifiedData:
		entry.Actor = data.Actor
		entry.Details = map[string]interface{}{"start": data.Start, "end": data.End, "valid": data.Valid, "errors": data.Errors}
	case *events.EpochBumpedData:
		entry.Actor = data.Actor
		entry.Details = map[string]interface{}{
			"old_epoch":     data.OldEpoch,
			"new_epoch":     data.NewEpoch,
			"reason":        data.Reason,
			"revoked_count": data.RevokedCount,
		}
	default:
		entry.Details = map[string]interface{}{}
	}

	h.Store.Record(entry)
	return nil
}

// auditEventType maps bus event types onto the flat audit vocabulary.
func auditEventType(t eh.EventType) string {
	switch t {
	case events.PermitsIssued:
		return "PERMIT_ISSUED"
	case events.ReceiptsMinted:
		return "RECEIPT_GENERATED"
	case events.ReceiptsVerified:
		return "RECEIPT_VERIFIED"
	case events.ChainVerified:
		return "CHAIN_VERIFIED"
	case events.EpochBumped:
		return "EPOCH_BUMPED"
	}
	return string(t)
}
