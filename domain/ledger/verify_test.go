package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consentdesk/consent-permit-service/domain"
)

func mintChain(t *testing.T, ledger *Ledger, n int) []*Receipt {
	t.Helper()
	permit := ledger.IssuePermit(PermitMetadata{})
	receipts := make([]*Receipt, 0, n)
	for i := 0; i < n; i++ {
		receipt, err := ledger.MintReceipt(permit.PermitID, ActionInferenceRun, map[string]interface{}{"seq": i})
		assert.NoError(t, err)
		receipts = append(receipts, receipt)
	}
	return receipts
}

func TestVerifyRange_CleanChains(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10} {
		t.Run(fmt.Sprintf("%d receipts verify clean", n), func(t *testing.T) {
			ledger := testLedger()
			mintChain(t, ledger, n)

			report, err := ledger.VerifyRange(0, n)
			assert.NoError(t, err)
			assert.True(t, report.Valid)
			assert.Empty(t, report.Errors)
		})
	}
}

func TestVerifyOne(t *testing.T) {
	t.Run("a freshly minted receipt is valid", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 1)
		assert.Equal(t, Result{Valid: true}, ledger.VerifyOne(receipts[0]))
	})

	t.Run("a tampered field reports hash_mismatch first", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 1)
		receipts[0].Action = ActionDataDeleted

		result := ledger.VerifyOne(receipts[0])
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonHashMismatch, result.Reason)
	})

	t.Run("a tampered signature reports signature_invalid", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 1)
		receipts[0].Signature = "deadbeef"

		result := ledger.VerifyOne(receipts[0])
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonSignatureInvalid, result.Reason)
	})

	t.Run("a receipt from a stale epoch reports epoch_mismatch", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 1)

		_, err := ledger.BumpEpoch("rotating signing epoch", "admin")
		assert.NoError(t, err)

		result := ledger.VerifyOne(receipts[0])
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonEpochMismatch, result.Reason)
	})
}

func TestVerifyRange_Tampering(t *testing.T) {
	t.Run("a tampered action breaks its hash and the successor's linkage", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 3)
		receipts[1].Action = ActionConsentRevoked

		report, err := ledger.VerifyRange(0, 3)
		assert.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Equal(t, []ChainError{
			{Index: 1, ReceiptID: receipts[1].ReceiptID, Err: ReasonHashMismatch},
			{Index: 2, ReceiptID: receipts[2].ReceiptID, Err: ReasonChainBroken},
		}, report.Errors)
	})

	t.Run("a rewritten hash accumulates several error kinds on one receipt", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 2)
		receipts[1].Hash = "0000000000000000000000000000000000000000000000000000000000000000"

		report, err := ledger.VerifyRange(0, 2)
		assert.NoError(t, err)
		assert.False(t, report.Valid)

		var kinds []Reason
		for _, chainErr := range report.Errors {
			if chainErr.Index == 1 {
				kinds = append(kinds, chainErr.Err)
			}
		}
		assert.Contains(t, kinds, ReasonHashMismatch)
		assert.Contains(t, kinds, ReasonSignatureInvalid)
	})

	t.Run("a tampered signature leaves chain linkage intact", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 2)
		receipts[0].Signature = "deadbeef"

		report, err := ledger.VerifyRange(0, 2)
		assert.NoError(t, err)
		assert.Equal(t, []ChainError{
			{Index: 0, ReceiptID: receipts[0].ReceiptID, Err: ReasonSignatureInvalid},
		}, report.Errors)
	})

	t.Run("a sub-range still checks linkage at its left edge", func(t *testing.T) {
		ledger := testLedger()
		receipts := mintChain(t, ledger, 3)
		receipts[2].PrevHash = "severed"
		receipts[2].Hash = ContentDigest(receipts[2])
		receipts[2].Signature = ledger.Signer().Sign(receipts[2].Hash)

		report, err := ledger.VerifyRange(2, 3)
		assert.NoError(t, err)
		assert.Equal(t, []ChainError{
			{Index: 2, ReceiptID: receipts[2].ReceiptID, Err: ReasonChainBroken},
		}, report.Errors)
	})

	t.Run("epoch is excluded from range verification", func(t *testing.T) {
		ledger := testLedger()
		mintChain(t, ledger, 2)

		_, err := ledger.BumpEpoch("incident containment", "admin")
		assert.NoError(t, err)

		report, err := ledger.VerifyRange(0, 2)
		assert.NoError(t, err)
		assert.True(t, report.Valid)
		assert.Empty(t, report.Errors)
	})

	t.Run("a malformed range is a validation error", func(t *testing.T) {
		ledger := testLedger()
		mintChain(t, ledger, 2)

		_, err := ledger.VerifyRange(0, 5)
		assert.Equal(t, domain.ErrInvalidRange, err)
		_, err = ledger.VerifyRange(-1, 2)
		assert.Equal(t, domain.ErrInvalidRange, err)
		_, err = ledger.VerifyRange(2, 1)
		assert.Equal(t, domain.ErrInvalidRange, err)
	})
}

// End-to-end scenario: one permit, two receipts, a bump. Chain integrity
// survives the bump; point-in-time validity does not.
func TestLedger_EpochBumpScenario(t *testing.T) {
	ledger := testLedger()

	permit := ledger.IssuePermit(PermitMetadata{})
	assert.Equal(t, int64(1), permit.Epoch)

	first, err := ledger.MintReceipt(permit.PermitID, ActionConsentGranted, nil)
	assert.NoError(t, err)
	assert.Equal(t, GenesisHash, first.PrevHash)

	second, err := ledger.MintReceipt(permit.PermitID, ActionDataAccessed, nil)
	assert.NoError(t, err)
	assert.Equal(t, first.Hash, second.PrevHash)

	report, err := ledger.VerifyRange(0, 2)
	assert.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)

	bump, err := ledger.BumpEpoch("security incident", "admin-001")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), bump.NewEpoch)
	assert.Equal(t, 1, bump.RevokedCount)
	assert.Equal(t, StatusRevoked, permit.Status)

	result := ledger.VerifyOne(first)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonEpochMismatch, result.Reason)

	report, err = ledger.VerifyRange(0, 2)
	assert.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}
