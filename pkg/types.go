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
	"time"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

// Config holds the service configuration, populated from the
// environment during Configure.
type Config struct {
	// Secret keys the HMAC signer over receipt hashes.
	Secret string `env:"PERMIT_HMAC_SECRET" envDefault:"dashboard-hmac-secret-32-chars!!"`
	// PermitTTL is the validity window stamped on issued permits.
	PermitTTL time.Duration `env:"PERMIT_TTL" envDefault:"1h"`
	// AllowUnknownPermits tolerates minting against unregistered permit
	// ids. Off by default; an audit trail should not reference permits
	// it never issued.
	AllowUnknownPermits bool `env:"PERMIT_ALLOW_UNKNOWN" envDefault:"false"`
	// MaxBulkPermits bounds a single bulk issuance call.
	MaxBulkPermits int `env:"PERMIT_MAX_BULK_PERMITS" envDefault:"10000"`
	// MaxBulkReceipts bounds a single bulk mint call.
	MaxBulkReceipts int `env:"PERMIT_MAX_BULK_RECEIPTS" envDefault:"100000"`
}

// resultSliceCap bounds every list returned from a bulk operation.
// Stats always carry the full counts; the capped list is a pagination
// concern, not an engine concern.
const resultSliceCap = 100

// BulkStats summarizes a bulk operation.
type BulkStats struct {
	Count      int     `json:"count"`
	DurationMs int64   `json:"duration_ms"`
	Throughput float64 `json:"throughput"`
}

// IssuePermitsResult returns the first permits of a bulk issuance.
type IssuePermitsResult struct {
	Permits []*ledger.Permit `json:"permits"`
	Stats   BulkStats        `json:"stats"`
}

// GenerateReceiptsResult returns the last receipts of a bulk mint.
type GenerateReceiptsResult struct {
	Receipts []*ledger.Receipt `json:"receipts"`
	Stats    BulkStats         `json:"stats"`
}

// VerifyFailure identifies one receipt that failed batch verification.
type VerifyFailure struct {
	ReceiptID string        `json:"receipt_id"`
	Reason    ledger.Reason `json:"reason"`
}

// VerifySelection picks the receipts for batch verification: explicit
// ids, a half-open index range, or the whole ledger.
type VerifySelection struct {
	ReceiptIDs []string
	Range      *ReceiptRange
	All        bool
}

// ReceiptRange is a half-open [Start, End) index window.
type ReceiptRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// VerifyReceiptsResult summarizes batch single-receipt verification.
type VerifyReceiptsResult struct {
	Valid    int             `json:"valid"`
	Invalid  int             `json:"invalid"`
	Failures []VerifyFailure `json:"failures"`
	Stats    BulkStats       `json:"stats"`
}

// ChainVerifyStats summarizes a chain verification pass.
type ChainVerifyStats struct {
	Checked    int   `json:"checked"`
	Valid      int   `json:"valid"`
	Invalid    int   `json:"invalid"`
	DurationMs int64 `json:"duration_ms"`
}

// VerifyChainResult is the request-layer shape of a chain report.
type VerifyChainResult struct {
	Valid  bool                `json:"valid"`
	Errors []ledger.ChainError `json:"errors"`
	Stats  ChainVerifyStats    `json:"stats"`
}

// ReceiptDetail decorates a receipt with its point-in-time verification
// outcome and chain position.
type ReceiptDetail struct {
	*ledger.Receipt
	VerificationStatus string `json:"verification_status"`
	ChainPosition      int    `json:"chain_position"`
}

// SearchQuery filters receipts. ReceiptID and PermitID match by
// substring; MetadataPath/MetadataValue match a dotted path inside the
// receipt metadata document.
type SearchQuery struct {
	ReceiptID     string
	PermitID      string
	Action        ledger.Action
	Epoch         *int64
	From          *time.Time
	To            *time.Time
	MetadataPath  string
	MetadataValue string
	Page          int
	Limit         int
}

// SearchResult is one page of matching receipts, newest first.
type SearchResult struct {
	Receipts []*ledger.Receipt `json:"receipts"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	HasMore  bool              `json:"has_more"`
}

// Metrics is the operational snapshot served on /api/metrics.
type Metrics struct {
	PermitsTotal   int     `json:"permits_total"`
	ReceiptsTotal  int     `json:"receipts_total"`
	CurrentEpoch   int64   `json:"current_epoch"`
	ChainValid     bool    `json:"chain_valid"`
	PermitsPerSec  float64 `json:"permits_per_sec"`
	ReceiptsPerSec float64 `json:"receipts_per_sec"`
	VerifyPerSec   float64 `json:"verify_per_sec"`
	ErrorCount     int64   `json:"error_count"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// ChainStatsResult extends the ledger stats with the read timestamp.
type ChainStatsResult struct {
	ledger.ChainStats
	LastVerified time.Time `json:"last_verified"`
}
