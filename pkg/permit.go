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

package pkg

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caarlos0/env/v11"
	eh "github.com/looplab/eventhorizon"
	"github.com/looplab/eventhorizon/eventbus/local"

	"github.com/consentdesk/consent-permit-service/audit"
	"github.com/consentdesk/consent-permit-service/domain"
	"github.com/consentdesk/consent-permit-service/domain/events"
	"github.com/consentdesk/consent-permit-service/domain/ledger"
	"github.com/consentdesk/consent-permit-service/pkg/logger"
	receipt_utils "github.com/consentdesk/consent-permit-service/receipt-utils"
)

// PermitServiceClient is the request-layer view of the service.
type PermitServiceClient interface {
	IssuePermits(count int, meta ledger.PermitMetadata, actor string) (*IssuePermitsResult, error)
	GenerateReceipts(count int, action ledger.Action, meta map[string]interface{}, actor string) (*GenerateReceiptsResult, error)
	VerifyReceipts(selection VerifySelection, actor string) (*VerifyReceiptsResult, error)
	VerifyChain(window *ReceiptRange, actor string) (*VerifyChainResult, error)
	ChainStats() ChainStatsResult
	CurrentEpoch() ledger.Epoch
	BumpEpoch(reason, requestedBy string) (ledger.BumpResult, error)
	SearchReceipts(query SearchQuery) (*SearchResult, error)
	GetReceipt(id string) (*ReceiptDetail, error)
	AttestReceipt(id string) (string, error)
	AuditLogs(query audit.Query) audit.QueryResult
	Metrics() Metrics
}

// PermitService is the process-wide facade over one ledger. The ledger
// itself is an explicit object so tests construct their own instances;
// only the wired service is a singleton.
type PermitService struct {
	Config      Config
	Ledger      *ledger.Ledger
	EventBus    eh.EventBus
	AuditLog    *audit.Store
	FactBuilder receipt_utils.FactBuilder

	permitsIssued     int64
	receiptsGenerated int64
	verificationsRun  int64
	startTime         time.Time
}

var instance *PermitService
var oneInstance sync.Once

// PermitServiceInstance returns the singleton service.
func PermitServiceInstance() *PermitService {
	oneInstance.Do(func() {
		instance = &PermitService{}
	})
	return instance
}

// Configure loads the service configuration from the environment.
func (ps *PermitService) Configure() error {
	return env.Parse(&ps.Config)
}

// Start wires the ledger, the event bus and its observers.
func (ps *PermitService) Start() error {
	ps.Ledger = ledger.New(ledger.Options{
		Secret:              []byte(ps.Config.Secret),
		PermitTTL:           ps.Config.PermitTTL,
		AllowUnknownPermits: ps.Config.AllowUnknownPermits,
	})
	ps.FactBuilder = receipt_utils.JSONFactBuilder{Signer: ps.Ledger.Signer()}
	ps.AuditLog = audit.NewStore()

	eventbus := local.NewEventBus(local.NewGroup())
	eventbus.AddObserver(eh.MatchAny(), &logger.EventLogger{})
	eventbus.AddObserver(eh.MatchAny(), audit.Handler{Store: ps.AuditLog})
	ps.EventBus = eventbus

	ps.startTime = time.Now()
	logger.Logger().Info("permit service started")
	return nil
}

// Shutdown releases the service. The ledger is in-memory; nothing to flush.
func (ps *PermitService) Shutdown() error {
	return nil
}

func (ps *PermitService) publish(eventType eh.EventType, data eh.EventData) {
	if ps.EventBus == nil {
		return
	}
	event := eh.NewEvent(eventType, data, time.Now().UTC())
	if err := ps.EventBus.PublishEvent(context.Background(), event); err != nil {
		logger.Logger().WithError(err).Error("could not publish domain event")
	}
}

// IssuePermits issues up to MaxBulkPermits permits in one call and
// returns the first resultSliceCap of them with full-count stats.
func (ps *PermitService) IssuePermits(count int, meta ledger.PermitMetadata, actor string) (*IssuePermitsResult, error) {
	if count < 1 {
		return nil, domain.ErrInvalidCount
	}
	if count > ps.Config.MaxBulkPermits {
		count = ps.Config.MaxBulkPermits
	}

	started := time.Now()
	permits := make([]*ledger.Permit, 0, count)
	for i := 0; i < count; i++ {
		permits = append(permits, ps.Ledger.IssuePermit(meta))
	}
	atomic.AddInt64(&ps.permitsIssued, int64(count))
	duration := time.Since(started)

	ps.publish(events.PermitsIssued, &events.PermitsIssuedData{
		Count:    count,
		TenantID: meta.TenantID,
		Actor:    actor,
	})

	if len(permits) > resultSliceCap {
		permits = permits[:resultSliceCap]
	}
	return &IssuePermitsResult{
		Permits: permits,
		Stats:   bulkStats(count, duration),
	}, nil
}

// GenerateReceipts mints up to MaxBulkReceipts receipts, round-robining
// the permit registry, and returns the last resultSliceCap of them.
// When the registry is empty a permit is auto-issued first so the demo
// path stays self-sufficient.
func (ps *PermitService) GenerateReceipts(count int, action ledger.Action, meta map[string]interface{}, actor string) (*GenerateReceiptsResult, error) {
	if count < 1 {
		return nil, domain.ErrInvalidCount
	}
	if action == "" {
		action = ledger.ActionInferenceRun
	}
	if !ledger.KnownAction(action) {
		return nil, domain.ErrUnknownAction
	}
	if count > ps.Config.MaxBulkReceipts {
		count = ps.Config.MaxBulkReceipts
	}

	if ps.Ledger.PermitCount() == 0 {
		ps.Ledger.IssuePermit(ledger.PermitMetadata{})
		atomic.AddInt64(&ps.permitsIssued, 1)
	}

	started := time.Now()
	receipts := make([]*ledger.Receipt, 0, count)
	for i := 0; i < count; i++ {
		permit := ps.Ledger.PermitAt(i)
		receipt, err := ps.Ledger.MintReceipt(permit.PermitID, action, meta)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	atomic.AddInt64(&ps.receiptsGenerated, int64(count))
	duration := time.Since(started)

	ps.publish(events.ReceiptsMinted, &events.ReceiptsMintedData{
		Count:  count,
		Action: action,
		Actor:  actor,
	})

	if len(receipts) > resultSliceCap {
		receipts = receipts[len(receipts)-resultSliceCap:]
	}
	return &GenerateReceiptsResult{
		Receipts: receipts,
		Stats:    bulkStats(count, duration),
	}, nil
}

// VerifyReceipts runs point-in-time verification over the selected
// receipts and reports counts plus the first resultSliceCap failures.
func (ps *PermitService) VerifyReceipts(selection VerifySelection, actor string) (*VerifyReceiptsResult, error) {
	var receipts []*ledger.Receipt
	switch {
	case selection.All:
		all, err := ps.Ledger.Receipts(0, ps.Ledger.Len())
		if err != nil {
			return nil, err
		}
		receipts = all
	case selection.Range != nil:
		ranged, err := ps.Ledger.Receipts(selection.Range.Start, selection.Range.End)
		if err != nil {
			return nil, err
		}
		receipts = ranged
	default:
		for _, id := range selection.ReceiptIDs {
			if receipt, _, ok := ps.Ledger.ReceiptByID(id); ok {
				receipts = append(receipts, receipt)
			}
		}
	}

	started := time.Now()
	result := &VerifyReceiptsResult{Failures: []VerifyFailure{}}
	for _, receipt := range receipts {
		outcome := ps.Ledger.VerifyOne(receipt)
		if outcome.Valid {
			result.Valid++
		} else {
			result.Invalid++
			result.Failures = append(result.Failures, VerifyFailure{ReceiptID: receipt.ReceiptID, Reason: outcome.Reason})
		}
	}
	atomic.AddInt64(&ps.verificationsRun, int64(len(receipts)))
	result.Stats = bulkStats(len(receipts), time.Since(started))

	ps.publish(events.ReceiptsVerified, &events.ReceiptsVerifiedData{
		Checked: len(receipts),
		Valid:   result.Valid,
		Invalid: result.Invalid,
		Actor:   actor,
	})

	if len(result.Failures) > resultSliceCap {
		result.Failures = result.Failures[:resultSliceCap]
	}
	return result, nil
}

// VerifyChain verifies structural chain integrity over a window, or the
// whole chain when window is nil. Errors are capped at resultSliceCap;
// stats carry the full counts.
func (ps *PermitService) VerifyChain(window *ReceiptRange, actor string) (*VerifyChainResult, error) {
	start := 0
	end := ps.Ledger.Len()
	if window != nil {
		start = window.Start
		end = window.End
	}

	started := time.Now()
	report, err := ps.Ledger.VerifyRange(start, end)
	if err != nil {
		return nil, err
	}
	duration := time.Since(started)

	ps.publish(events.ChainVerified, &events.ChainVerifiedData{
		Start:  start,
		End:    end,
		Valid:  report.Valid,
		Errors: len(report.Errors),
		Actor:  actor,
	})

	result := &VerifyChainResult{
		Valid:  report.Valid,
		Errors: report.Errors,
		Stats: ChainVerifyStats{
			Checked:    end - start,
			Valid:      end - start - len(report.Errors),
			Invalid:    len(report.Errors),
			DurationMs: duration.Milliseconds(),
		},
	}
	if len(result.Errors) > resultSliceCap {
		result.Errors = result.Errors[:resultSliceCap]
	}
	return result, nil
}

// ChainStats returns the monitoring snapshot of the chain.
func (ps *PermitService) ChainStats() ChainStatsResult {
	return ChainStatsResult{
		ChainStats:   ps.Ledger.Stats(),
		LastVerified: time.Now().UTC(),
	}
}

// CurrentEpoch returns the epoch counter with its bump metadata.
func (ps *PermitService) CurrentEpoch() ledger.Epoch {
	return ps.Ledger.CurrentEpoch()
}

// BumpEpoch increments the epoch and mass-revokes stale ACTIVE permits.
func (ps *PermitService) BumpEpoch(reason, requestedBy string) (ledger.BumpResult, error) {
	result, err := ps.Ledger.BumpEpoch(reason, requestedBy)
	if err != nil {
		return result, err
	}

	ps.publish(events.EpochBumped, &events.EpochBumpedData{
		OldEpoch:     result.OldEpoch,
		NewEpoch:     result.NewEpoch,
		Reason:       reason,
		RevokedCount: result.RevokedCount,
		Actor:        requestedBy,
	})
	return result, nil
}

// SearchReceipts filters receipts newest-first with pagination.
func (ps *PermitService) SearchReceipts(query SearchQuery) (*SearchResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 50
	}
	if query.Action != "" && !ledger.KnownAction(query.Action) {
		return nil, domain.ErrUnknownAction
	}

	all, err := ps.Ledger.Receipts(0, ps.Ledger.Len())
	if err != nil {
		return nil, err
	}

	var matches []*ledger.Receipt
	for _, receipt := range all {
		if query.ReceiptID != "" && !strings.Contains(receipt.ReceiptID, query.ReceiptID) {
			continue
		}
		if query.PermitID != "" && !strings.Contains(receipt.PermitID, query.PermitID) {
			continue
		}
		if query.Action != "" && receipt.Action != query.Action {
			continue
		}
		if query.Epoch != nil && receipt.Epoch != *query.Epoch {
			continue
		}
		if query.From != nil || query.To != nil {
			minted, parseErr := time.Parse(time.RFC3339Nano, receipt.Timestamp)
			if parseErr != nil {
				continue
			}
			if query.From != nil && minted.Before(*query.From) {
				continue
			}
			if query.To != nil && minted.After(*query.To) {
				continue
			}
		}
		if query.MetadataPath != "" && !ps.metadataMatches(receipt, query.MetadataPath, query.MetadataValue) {
			continue
		}
		matches = append(matches, receipt)
	}

	// newest first, ties broken by chain order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp > matches[j].Timestamp
	})

	total := len(matches)
	offset := (query.Page - 1) * query.Limit
	if offset > total {
		offset = total
	}
	pageEnd := offset + query.Limit
	if pageEnd > total {
		pageEnd = total
	}

	return &SearchResult{
		Receipts: matches[offset:pageEnd],
		Total:    total,
		Page:     query.Page,
		Limit:    query.Limit,
		HasMore:  pageEnd < total,
	}, nil
}

func (ps *PermitService) metadataMatches(receipt *ledger.Receipt, path, want string) bool {
	payload, err := ps.FactBuilder.BuildFact(receipt)
	if err != nil {
		return false
	}
	fact, err := ps.FactBuilder.FactFromBytes(payload)
	if err != nil {
		return false
	}
	value := fact.Query("metadata." + path)
	if value == nil {
		return false
	}
	return fmt.Sprint(value) == want
}

// GetReceipt returns a receipt with its verification status and chain
// position.
func (ps *PermitService) GetReceipt(id string) (*ReceiptDetail, error) {
	receipt, position, ok := ps.Ledger.ReceiptByID(id)
	if !ok {
		return nil, domain.ErrReceiptNotFound
	}
	status := "invalid"
	if ps.Ledger.VerifyOne(receipt).Valid {
		status = "valid"
	}
	atomic.AddInt64(&ps.verificationsRun, 1)
	return &ReceiptDetail{
		Receipt:            receipt,
		VerificationStatus: status,
		ChainPosition:      position,
	}, nil
}

// AttestReceipt exports a receipt as a JWS token for out-of-band
// consumers.
func (ps *PermitService) AttestReceipt(id string) (string, error) {
	receipt, _, ok := ps.Ledger.ReceiptByID(id)
	if !ok {
		return "", domain.ErrReceiptNotFound
	}
	payload, err := ps.FactBuilder.BuildFact(receipt)
	if err != nil {
		return "", err
	}
	return receipt_utils.Attest(payload, []byte(ps.Config.Secret))
}

// AuditLogs queries the audit collaborator.
func (ps *PermitService) AuditLogs(query audit.Query) audit.QueryResult {
	return ps.AuditLog.Find(query)
}

// Metrics reports operational counters and chain health.
func (ps *PermitService) Metrics() Metrics {
	uptime := time.Since(ps.startTime).Seconds()
	if uptime < 1 {
		uptime = 1
	}
	chainValid := ps.Ledger.Len() == 0 || ps.Ledger.VerifyAll().Valid
	return Metrics{
		PermitsTotal:   ps.Ledger.PermitCount(),
		ReceiptsTotal:  ps.Ledger.Len(),
		CurrentEpoch:   ps.Ledger.CurrentEpoch().Current,
		ChainValid:     chainValid,
		PermitsPerSec:  float64(atomic.LoadInt64(&ps.permitsIssued)) / uptime,
		ReceiptsPerSec: float64(atomic.LoadInt64(&ps.receiptsGenerated)) / uptime,
		VerifyPerSec:   float64(atomic.LoadInt64(&ps.verificationsRun)) / uptime,
		UptimeSeconds:  time.Since(ps.startTime).Seconds(),
	}
}

func bulkStats(count int, duration time.Duration) BulkStats {
	seconds := duration.Seconds()
	if seconds <= 0 {
		seconds = 0.001
	}
	return BulkStats{
		Count:      count,
		DurationMs: duration.Milliseconds(),
		Throughput: float64(count) / seconds,
	}
}
