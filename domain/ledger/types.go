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

import "time"

// GenesisHash is the prev_hash sentinel of the first receipt in a chain.
const GenesisHash = "genesis"

// PermitStatus is the lifecycle state of a permit. A permit only ever
// leaves ACTIVE, it never returns to it.
type PermitStatus string

const (
	StatusActive  PermitStatus = "ACTIVE"
	StatusRevoked PermitStatus = "REVOKED"
	StatusExpired PermitStatus = "EXPIRED"
)

// Action is the closed set of operations a receipt can record.
type Action string

const (
	ActionConsentGranted Action = "CONSENT_GRANTED"
	ActionConsentRevoked Action = "CONSENT_REVOKED"
	ActionDataAccessed   Action = "DATA_ACCESSED"
	ActionDataDeleted    Action = "DATA_DELETED"
	ActionInferenceRun   Action = "INFERENCE_RUN"
)

// KnownAction reports whether a belongs to the closed action set.
func KnownAction(a Action) bool {
	switch a {
	case ActionConsentGranted, ActionConsentRevoked, ActionDataAccessed, ActionDataDeleted, ActionInferenceRun:
		return true
	}
	return false
}

// PolicySnapshot pins the policy terms that were current when a permit
// was issued.
type PolicySnapshot struct {
	Epoch int64  `json:"epoch"`
	Terms string `json:"terms"`
}

// Permit authorizes actions on a subject's data for a bounded window.
// Its epoch is the epoch that was current at issuance and is never
// rewritten; mass revocation happens by bumping the ledger epoch past it.
type Permit struct {
	PermitID       string         `json:"permit_id"`
	TenantID       string         `json:"tenant_id"`
	RequesterID    string         `json:"requester_id"`
	ModelID        string         `json:"model_id,omitempty"`
	Jurisdiction   string         `json:"jurisdiction,omitempty"`
	Epoch          int64          `json:"epoch"`
	PolicySnapshot PolicySnapshot `json:"policy_snapshot"`
	IssuedAt       time.Time      `json:"issued_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
	Status         PermitStatus   `json:"status"`
}

// PermitMetadata carries the caller-supplied attributes of a permit.
// Empty fields fall back to service defaults.
type PermitMetadata struct {
	TenantID     string `json:"tenant_id,omitempty"`
	RequesterID  string `json:"requester_id,omitempty"`
	ModelID      string `json:"model_id,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Receipt is one immutable entry of the chain. Timestamp is kept as an
// RFC3339Nano UTC string so that hash recomputation from a stored or
// round-tripped receipt stays byte-stable.
type Receipt struct {
	ReceiptID string                 `json:"receipt_id"`
	PermitID  string                 `json:"permit_id"`
	Action    Action                 `json:"action"`
	Timestamp string                 `json:"timestamp"`
	Epoch     int64                  `json:"epoch"`
	PrevHash  string                 `json:"prev_hash"`
	Hash      string                 `json:"hash"`
	Signature string                 `json:"signature"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// contentFields returns the canonical field set covered by the hash:
// everything except hash and signature.
func (r *Receipt) contentFields() map[string]interface{} {
	return map[string]interface{}{
		"receipt_id": r.ReceiptID,
		"permit_id":  r.PermitID,
		"action":     string(r.Action),
		"timestamp":  r.Timestamp,
		"epoch":      r.Epoch,
		"prev_hash":  r.PrevHash,
		"metadata":   r.Metadata,
	}
}

// Epoch is the monotonically increasing revocation generation.
type Epoch struct {
	Current      int64      `json:"current"`
	LastBumpedAt *time.Time `json:"last_bumped_at"`
	LastBumpedBy string     `json:"last_bumped_by,omitempty"`
	BumpReason   string     `json:"bump_reason,omitempty"`
}

// BumpResult reports the outcome of an epoch bump.
type BumpResult struct {
	OldEpoch     int64     `json:"old_epoch"`
	NewEpoch     int64     `json:"new_epoch"`
	RevokedCount int       `json:"revoked_count"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChainStats summarizes the chain head/tail for monitoring.
type ChainStats struct {
	Length       int    `json:"length"`
	HeadHash     string `json:"head_hash,omitempty"`
	TailHash     string `json:"tail_hash,omitempty"`
	CurrentEpoch int64  `json:"current_epoch"`
}
