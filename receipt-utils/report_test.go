package receipt_utils

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

func TestRenderChainReport(t *testing.T) {
	t.Run("renders a clean chain", func(t *testing.T) {
		report, err := RenderChainReport(ledger.ChainStats{
			Length:       3,
			HeadHash:     "aaa",
			TailHash:     "bbb",
			CurrentEpoch: 2,
		}, ledger.ChainReport{Valid: true, Errors: []ledger.ChainError{}})

		assert.NoError(t, err)
		assert.Contains(t, report, "chain length:   3")
		assert.Contains(t, report, "head hash:      aaa")
		assert.Contains(t, report, "tail hash:      bbb")
		assert.Contains(t, report, "current epoch:  2")
		assert.Contains(t, report, "no integrity errors detected")
	})

	t.Run("lists integrity errors", func(t *testing.T) {
		report, err := RenderChainReport(ledger.ChainStats{Length: 2}, ledger.ChainReport{
			Valid: false,
			Errors: []ledger.ChainError{
				{Index: 1, ReceiptID: "receipt_x", Err: ledger.ReasonChainBroken},
			},
		})

		assert.NoError(t, err)
		assert.Contains(t, report, "[1] receipt_x: chain_broken")
		assert.NotContains(t, report, "no integrity errors detected")
	})
}

func TestMockFactBuilder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	builder := NewMockFactBuilder(ctrl)
	builder.EXPECT().VerifyFact([]byte("payload")).Return(true, nil)

	ok, err := builder.VerifyFact([]byte("payload"))
	assert.NoError(t, err)
	assert.True(t, ok)
}
