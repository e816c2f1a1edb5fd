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
	"encoding/json"
	"fmt"

	"github.com/thedevsaddam/gojsonq/v2"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

// JSONReceiptFact wraps a receipt fact payload and reads fields out of
// it on demand.
type JSONReceiptFact struct {
	payload []byte
}

func (f JSONReceiptFact) ID() string {
	return f.stringAt("receipt_id")
}

func (f JSONReceiptFact) PermitID() string {
	return f.stringAt("permit_id")
}

func (f JSONReceiptFact) Action() string {
	return f.stringAt("action")
}

func (f JSONReceiptFact) Epoch() int64 {
	jsonq := gojsonq.New().FromString(string(f.payload))
	if epoch, ok := jsonq.Find("epoch").(float64); ok {
		return int64(epoch)
	}
	return 0
}

func (f JSONReceiptFact) PrevHash() string {
	return f.stringAt("prev_hash")
}

func (f JSONReceiptFact) Hash() string {
	return f.stringAt("hash")
}

func (f JSONReceiptFact) Signature() string {
	return f.stringAt("signature")
}

func (f JSONReceiptFact) Query(path string) interface{} {
	return gojsonq.New().FromString(string(f.payload)).Find(path)
}

func (f JSONReceiptFact) Payload() []byte {
	return f.payload
}

func (f JSONReceiptFact) stringAt(path string) string {
	jsonq := gojsonq.New().FromString(string(f.payload))
	if value, ok := jsonq.Find(path).(string); ok {
		return value
	}
	return ""
}

// JSONFactBuilder builds receipt facts as canonical JSON documents and
// re-checks their hash/signature consistency with the ledger signer.
type JSONFactBuilder struct {
	Signer ledger.Signer
}

func (b JSONFactBuilder) BuildFact(receipt *ledger.Receipt) ([]byte, error) {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("build receipt fact: %w", err)
	}
	return payload, nil
}

func (b JSONFactBuilder) FactFromBytes(payload []byte) (ReceiptFact, error) {
	var receipt ledger.Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return nil, fmt.Errorf("parse receipt fact: %w", err)
	}
	return JSONReceiptFact{payload: payload}, nil
}

func (b JSONFactBuilder) VerifyFact(payload []byte) (bool, error) {
	var receipt ledger.Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return false, fmt.Errorf("parse receipt fact: %w", err)
	}
	if ledger.ContentDigest(&receipt) != receipt.Hash {
		return false, nil
	}
	return b.Signer.Verify(receipt.Hash, receipt.Signature), nil
}
