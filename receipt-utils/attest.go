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
	"fmt"

	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jws"
)

// Attest wraps a receipt fact payload in a compact JWS (HS256) so
// external consumers can carry the receipt out of band and later prove
// it came from this ledger.
func Attest(payload []byte, secret []byte) (string, error) {
	token, err := jws.Sign(payload, jwa.HS256, secret)
	if err != nil {
		return "", fmt.Errorf("attest receipt: %w", err)
	}
	return string(token), nil
}

// VerifyAttestation checks the JWS envelope and returns the enclosed
// fact payload.
func VerifyAttestation(token string, secret []byte) ([]byte, error) {
	payload, err := jws.Verify([]byte(token), jwa.HS256, secret)
	if err != nil {
		return nil, fmt.Errorf("verify attestation: %w", err)
	}
	return payload, nil
}
