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

package receipt_utils

import (
	"time"

	"github.com/cbroglie/mustache"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

// RenderChainReport renders a plain-text integrity report for operators
// from the chain stats and a verification report.
func RenderChainReport(stats ledger.ChainStats, report ledger.ChainReport) (string, error) {
	errors := make([]map[string]interface{}, 0, len(report.Errors))
	for _, chainErr := range report.Errors {
		errors = append(errors, map[string]interface{}{
			"index":      chainErr.Index,
			"receipt_id": chainErr.ReceiptID,
			"error":      string(chainErr.Err),
		})
	}

	return mustache.Render(chainReportTemplate, map[string]interface{}{
		"generated":     time.Now().UTC().Format(time.RFC3339),
		"length":        stats.Length,
		"head_hash":     stats.HeadHash,
		"tail_hash":     stats.TailHash,
		"current_epoch": stats.CurrentEpoch,
		"valid":         report.Valid,
		"error_count":   len(report.Errors),
		"errors":        errors,
	})
}
