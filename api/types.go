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

package api

import (
	"github.com/consentdesk/consent-permit-service/domain/ledger"
	"github.com/consentdesk/consent-permit-service/pkg"
)

// PermitMetadata is the public shape of permit attributes.
type PermitMetadata struct {
	TenantID     string `json:"tenant_id,omitempty"`
	RequesterID  string `json:"requester_id,omitempty"`
	ModelID      string `json:"model_id,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// IssuePermitsRequest asks for bulk permit issuance.
type IssuePermitsRequest struct {
	Count    int            `json:"count"`
	Metadata PermitMetadata `json:"metadata"`
}

// GenerateReceiptsRequest asks for bulk receipt minting.
type GenerateReceiptsRequest struct {
	Count    int                    `json:"count"`
	Action   string                 `json:"action"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ReceiptRange is a half-open [Start, End) window of chain indices.
type ReceiptRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// VerifyReceiptsRequest selects receipts for batch verification.
type VerifyReceiptsRequest struct {
	ReceiptIDs []string      `json:"receipt_ids,omitempty"`
	Range      *ReceiptRange `json:"range,omitempty"`
	All        bool          `json:"all,omitempty"`
}

// VerifyChainRequest selects the chain window to verify. Full wins over
// the window fields.
type VerifyChainRequest struct {
	WindowStart *int `json:"window_start,omitempty"`
	WindowEnd   *int `json:"window_end,omitempty"`
	Full        bool `json:"full"`
}

// BumpEpochRequest triggers a mass revocation.
type BumpEpochRequest struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by"`
}

// AttestationResponse carries a receipt's JWS export.
type AttestationResponse struct {
	ReceiptID   string `json:"receipt_id"`
	Attestation string `json:"attestation"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Convert the public metadata type to the internal one. This
// abstraction keeps the engine robust to api changes.
func apiMetadata2Internal(meta PermitMetadata) ledger.PermitMetadata {
	return ledger.PermitMetadata{
		TenantID:     meta.TenantID,
		RequesterID:  meta.RequesterID,
		ModelID:      meta.ModelID,
		Jurisdiction: meta.Jurisdiction,
	}
}

func apiSelection2Internal(request VerifyReceiptsRequest) pkg.VerifySelection {
	selection := pkg.VerifySelection{
		ReceiptIDs: request.ReceiptIDs,
		All:        request.All,
	}
	if request.Range != nil {
		selection.Range = &pkg.ReceiptRange{Start: request.Range.Start, End: request.Range.End}
	}
	return selection
}
