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
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// CanonicalBytes serializes fields deterministically: JSON with keys
// sorted lexicographically at every nesting level (encoding/json map
// ordering) and HTML escaping off. Two invocations with equal field
// values produce byte-identical output regardless of construction order.
func CanonicalBytes(fields map[string]interface{}) []byte {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// map values never fail to encode here; the field set is built from
	// JSON-compatible receipt content only
	_ = enc.Encode(fields)
	return bytes.TrimSpace(buf.Bytes())
}

// CanonicalDigest hashes the canonical serialization of fields with
// SHA-256 and renders it as fixed-width lower-case hex.
func CanonicalDigest(fields map[string]interface{}) string {
	sum := sha256.Sum256(CanonicalBytes(fields))
	return hex.EncodeToString(sum[:])
}

// ContentDigest recomputes the digest over a receipt's content fields,
// excluding hash and signature.
func ContentDigest(r *Receipt) string {
	return CanonicalDigest(r.contentFields())
}
