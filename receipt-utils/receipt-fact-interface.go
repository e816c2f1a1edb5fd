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

import "github.com/consentdesk/consent-permit-service/domain/ledger"

// ReceiptFact is the external representation of a ledger receipt: an
// opaque payload handed to collaborators, with typed accessors over it.
type ReceiptFact interface {
	ID() string
	PermitID() string
	Action() string
	Epoch() int64
	PrevHash() string
	Hash() string
	Signature() string
	// Query resolves a dotted path inside the fact document, nil when absent.
	Query(path string) interface{}
	Payload() []byte
}

// FactBuilder builds, parses and checks receipt facts.
type FactBuilder interface {
	// BuildFact serializes a receipt into its canonical fact payload.
	BuildFact(receipt *ledger.Receipt) ([]byte, error)
	// FactFromBytes parses a fact payload.
	FactFromBytes(payload []byte) (ReceiptFact, error)
	// VerifyFact reports whether the payload carries a receipt whose
	// hash and signature are internally consistent.
	VerifyFact(payload []byte) (bool, error)
}
