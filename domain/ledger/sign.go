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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes HMAC-SHA256 signatures over receipt hashes with a
// long-lived secret. The signature covers the hash, not the raw fields:
// a corrupted field changes the hash, and a recomputed signature over
// the wrong hash fails independently unless the attacker holds the key.
type Signer struct {
	secret []byte
}

func NewSigner(secret []byte) Signer {
	return Signer{secret: secret}
}

// Sign returns the hex-encoded HMAC-SHA256 of digestHex.
func (s Signer) Sign(digestHex string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(digestHex))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signatureHex is a valid signature of digestHex.
// Comparison is constant-time.
func (s Signer) Verify(digestHex, signatureHex string) bool {
	return hmac.Equal([]byte(s.Sign(digestHex)), []byte(signatureHex))
}
