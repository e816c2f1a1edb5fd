package receipt_utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

func mintTestReceipt(t *testing.T) (*ledger.Ledger, *ledger.Receipt) {
	t.Helper()
	chain := ledger.New(ledger.Options{Secret: []byte("test-secret"), PermitTTL: time.Hour})
	permit := chain.IssuePermit(ledger.PermitMetadata{TenantID: "hospital-a"})
	receipt, err := chain.MintReceipt(permit.PermitID, ledger.ActionDataAccessed, map[string]interface{}{
		"department": "cardiology",
	})
	assert.NoError(t, err)
	return chain, receipt
}

func TestJSONReceiptFact(t *testing.T) {
	chain, receipt := mintTestReceipt(t)
	builder := JSONFactBuilder{Signer: chain.Signer()}

	payload, err := builder.BuildFact(receipt)
	assert.NoError(t, err)

	fact, err := builder.FactFromBytes(payload)
	assert.NoError(t, err)

	t.Run("accessors read fields out of the payload", func(t *testing.T) {
		assert.Equal(t, receipt.ReceiptID, fact.ID())
		assert.Equal(t, receipt.PermitID, fact.PermitID())
		assert.Equal(t, "DATA_ACCESSED", fact.Action())
		assert.Equal(t, int64(1), fact.Epoch())
		assert.Equal(t, ledger.GenesisHash, fact.PrevHash())
		assert.Equal(t, receipt.Hash, fact.Hash())
		assert.Equal(t, receipt.Signature, fact.Signature())
	})

	t.Run("query resolves nested metadata paths", func(t *testing.T) {
		assert.Equal(t, "cardiology", fact.Query("metadata.department"))
		assert.Nil(t, fact.Query("metadata.missing"))
	})

	t.Run("payload round-trips", func(t *testing.T) {
		assert.Equal(t, payload, fact.Payload())
	})
}

func TestJSONFactBuilder_VerifyFact(t *testing.T) {
	chain, receipt := mintTestReceipt(t)
	builder := JSONFactBuilder{Signer: chain.Signer()}

	t.Run("accepts an untouched fact", func(t *testing.T) {
		payload, _ := builder.BuildFact(receipt)
		ok, err := builder.VerifyFact(payload)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects a tampered fact", func(t *testing.T) {
		tampered := *receipt
		tampered.Action = ledger.ActionDataDeleted
		payload, _ := builder.BuildFact(&tampered)
		ok, err := builder.VerifyFact(payload)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects a fact signed with another key", func(t *testing.T) {
		other := ledger.NewSigner([]byte("other-secret"))
		forged := *receipt
		forged.Signature = other.Sign(forged.Hash)
		payload, _ := builder.BuildFact(&forged)
		ok, err := builder.VerifyFact(payload)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := builder.VerifyFact([]byte("not json"))
		assert.Error(t, err)
	})
}

func TestAttestation(t *testing.T) {
	chain, receipt := mintTestReceipt(t)
	builder := JSONFactBuilder{Signer: chain.Signer()}
	secret := []byte("attestation-secret")

	payload, err := builder.BuildFact(receipt)
	assert.NoError(t, err)

	t.Run("round-trips through a JWS envelope", func(t *testing.T) {
		token, err := Attest(payload, secret)
		assert.NoError(t, err)

		recovered, err := VerifyAttestation(token, secret)
		assert.NoError(t, err)
		assert.Equal(t, payload, recovered)

		ok, err := builder.VerifyFact(recovered)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects a token under the wrong key", func(t *testing.T) {
		token, err := Attest(payload, secret)
		assert.NoError(t, err)

		_, err = VerifyAttestation(token, []byte("wrong-secret"))
		assert.Error(t, err)
	})
}
