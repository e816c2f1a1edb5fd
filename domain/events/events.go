package events

import (
	eh "github.com/looplab/eventhorizon"

	"github.com/consentdesk/consent-permit-service/domain/ledger"
)

const PermitsIssued = eh.EventType("permits:issued")
const ReceiptsMinted = eh.EventType("receipts:minted")
const ReceiptsVerified = eh.EventType("receipts:verified")
const ChainVerified = eh.EventType("chain:verified")
const EpochBumped = eh.EventType("epoch:bumped")

type PermitsIssuedData struct {
	Count    int
	TenantID string
	Actor    string
}

type ReceiptsMintedData struct {
	Count  int
	Action ledger.Action
	Actor  string
}

type ReceiptsVerifiedData struct {
	Checked int
	Valid   int
	Invalid int
	Actor   string
}

type ChainVerifiedData struct {
	Start  int
	End    int
	Valid  bool
	Errors int
	Actor  string
}

type EpochBumpedData struct {
	OldEpoch     int64
	NewEpoch     int64
	Reason       string
	RevokedCount int
	Actor        string
}

func init() {
	eh.RegisterEventData(PermitsIssued, func() eh.EventData {
		return &PermitsIssuedData{}
	})
	eh.RegisterEventData(ReceiptsMinted, func() eh.EventData {
		return &ReceiptsMintedData{}
	})
	eh.RegisterEventData(ReceiptsVerified, func() eh.EventData {
		return &ReceiptsVerifiedData{}
	})
	eh.RegisterEventData(ChainVerified, func() eh.EventData {
		return &ChainVerifiedData{}
	})
	eh.RegisterEventData(EpochBumped, func() eh.EventData {
		return &EpochBumpedData{}
	})
}
