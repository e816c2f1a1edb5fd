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

import "github.com/consentdesk/consent-permit-service/domain"

// Reason is a typed integrity-check failure. Failures are results, not
// errors: verification always completes and reports.
type Reason string

const (
	ReasonHashMismatch     Reason = "hash_mismatch"
	ReasonSignatureInvalid Reason = "signature_invalid"
	ReasonEpochMismatch    Reason = "epoch_mismatch"
	ReasonChainBroken      Reason = "chain_broken"
)

// Result is the outcome of single-receipt verification.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
}

// ChainError locates one integrity failure inside a verified range.
type ChainError struct {
	Index     int    `json:"index"`
	ReceiptID string `json:"receipt_id"`
	Err       Reason `json:"error"`
}

// ChainReport is the outcome of range or full-chain verification.
type ChainReport struct {
	Valid  bool         `json:"valid"`
	Errors []ChainError `json:"errors"`
}

// VerifyOne checks a single receipt point-in-time: recomputed hash,
// signature over the stored hash, then epoch against the current
// counter. The first failing check determines the reported reason.
func (l *Ledger) VerifyOne(r *Receipt) Result {
	if ContentDigest(r) != r.Hash {
		return Result{Valid: false, Reason: ReasonHashMismatch}
	}
	if !l.signer.Verify(r.Hash, r.Signature) {
		return Result{Valid: false, Reason: ReasonSignatureInvalid}
	}
	if r.Epoch != l.CurrentEpoch().Current {
		return Result{Valid: false, Reason: ReasonEpochMismatch}
	}
	return Result{Valid: true}
}

// VerifyRange checks chain integrity over global indices [start, end):
// recomputed hash and signature per receipt, plus linkage of every
// receipt after index 0 against its global predecessor's stored hash,
// so a sub-range still detects a break at its left edge. Epoch is
// deliberately not checked here; chain integrity is structural and
// survives epoch bumps. A receipt can collect several error kinds.
func (l *Ledger) VerifyRange(start, end int) (ChainReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if start < 0 || end > len(l.receipts) || start > end {
		return ChainReport{}, domain.ErrInvalidRange
	}

	report := ChainReport{Valid: true, Errors: []ChainError{}}
	for i := start; i < end; i++ {
		receipt := l.receipts[i]
		if ContentDigest(receipt) != receipt.Hash {
			report.Errors = append(report.Errors, ChainError{Index: i, ReceiptID: receipt.ReceiptID, Err: ReasonHashMismatch})
		}
		if !l.signer.Verify(receipt.Hash, receipt.Signature) {
			report.Errors = append(report.Errors, ChainError{Index: i, ReceiptID: receipt.ReceiptID, Err: ReasonSignatureInvalid})
		}
		if i > 0 && receipt.PrevHash != l.receipts[i-1].Hash {
			report.Errors = append(report.Errors, ChainError{Index: i, ReceiptID: receipt.ReceiptID, Err: ReasonChainBroken})
		}
	}
	report.Valid = len(report.Errors) == 0
	return report, nil
}

// VerifyAll verifies the whole chain.
func (l *Ledger) VerifyAll() ChainReport {
	report, _ := l.VerifyRange(0, l.Len())
	return report
}
