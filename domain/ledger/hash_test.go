package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalDigest(t *testing.T) {
	t.Run("is deterministic regardless of construction order", func(t *testing.T) {
		first := map[string]interface{}{
			"receipt_id": "receipt_abc",
			"permit_id":  "permit_def",
			"action":     "DATA_ACCESSED",
			"metadata":   map[string]interface{}{"b": 2, "a": 1},
		}
		second := map[string]interface{}{
			"metadata":   map[string]interface{}{"a": 1, "b": 2},
			"action":     "DATA_ACCESSED",
			"permit_id":  "permit_def",
			"receipt_id": "receipt_abc",
		}
		assert.Equal(t, CanonicalDigest(first), CanonicalDigest(second))
	})

	t.Run("renders a fixed-width hex digest", func(t *testing.T) {
		digest := CanonicalDigest(map[string]interface{}{"a": 1})
		assert.Len(t, digest, 64)
		assert.Regexp(t, "^[0-9a-f]+$", digest)
	})

	t.Run("changes when any field value changes", func(t *testing.T) {
		base := map[string]interface{}{"action": "DATA_ACCESSED", "epoch": int64(1)}
		changed := map[string]interface{}{"action": "DATA_DELETED", "epoch": int64(1)}
		assert.NotEqual(t, CanonicalDigest(base), CanonicalDigest(changed))
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		withAmp := CanonicalBytes(map[string]interface{}{"a": "x&y"})
		assert.Contains(t, string(withAmp), "x&y")
	})
}

func TestContentDigest(t *testing.T) {
	receipt := &Receipt{
		ReceiptID: "receipt_1",
		PermitID:  "permit_1",
		Action:    ActionInferenceRun,
		Timestamp: "2026-08-31T12:00:00Z",
		Epoch:     1,
		PrevHash:  GenesisHash,
		Metadata:  map[string]interface{}{"dept": "cardiology"},
	}

	t.Run("excludes hash and signature", func(t *testing.T) {
		digest := ContentDigest(receipt)
		receipt.Hash = digest
		receipt.Signature = "whatever"
		assert.Equal(t, digest, ContentDigest(receipt))
	})

	t.Run("covers every content field", func(t *testing.T) {
		digest := ContentDigest(receipt)

		tampered := *receipt
		tampered.PrevHash = "not-genesis"
		assert.NotEqual(t, digest, ContentDigest(&tampered))

		tampered = *receipt
		tampered.Epoch = 2
		assert.NotEqual(t, digest, ContentDigest(&tampered))

		tampered = *receipt
		tampered.Metadata = map[string]interface{}{"dept": "oncology"}
		assert.NotEqual(t, digest, ContentDigest(&tampered))
	})
}

func TestSigner(t *testing.T) {
	signer := NewSigner([]byte("test-secret"))

	t.Run("signature is stable and hex encoded", func(t *testing.T) {
		sig := signer.Sign("abc123")
		assert.Equal(t, sig, signer.Sign("abc123"))
		assert.Len(t, sig, 64)
	})

	t.Run("verify accepts a valid signature", func(t *testing.T) {
		sig := signer.Sign("abc123")
		assert.True(t, signer.Verify("abc123", sig))
	})

	t.Run("verify rejects a tampered signature", func(t *testing.T) {
		sig := signer.Sign("abc123")
		assert.False(t, signer.Verify("abc123", sig[:63]+"x"))
		assert.False(t, signer.Verify("abc124", sig))
	})

	t.Run("a different key yields a different signature", func(t *testing.T) {
		other := NewSigner([]byte("other-secret"))
		assert.NotEqual(t, signer.Sign("abc123"), other.Sign("abc123"))
	})
}
