/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/golang/protobuf/ptypes"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/commitment"
	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/registry"
)

const (
	deedRegistry = "deeds"
	seller       = "seller"

	biddingWindow = 10000 * time.Second
	revealWindow  = 20000 * time.Second
)

// clientIdentity is a cid.ClientIdentity with a fixed id
type clientIdentity struct {
	id string
}

func (c clientIdentity) GetID() (string, error)    { return c.id, nil }
func (c clientIdentity) GetMSPID() (string, error) { return "Org1MSP", nil }
func (c clientIdentity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}
func (c clientIdentity) AssertAttributeValue(string, string) error {
	return fmt.Errorf("no attributes")
}
func (c clientIdentity) GetX509Certificate() (*x509.Certificate, error) {
	return nil, fmt.Errorf("no certificate")
}

// house drives the contract over a mock stub, one transaction per call to as
type house struct {
	t        *testing.T
	stub     *shimtest.MockStub
	contract *SmartContract
	deeds    *registry.Memory
	now      time.Time
	txs      int
	event    *peer.ChaincodeEvent
}

func newHouse(t *testing.T) *house {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	assets := registry.NewMemory()
	return &house{
		t:     t,
		stub:  shimtest.NewMockStub("vickrey", nil),
		deeds: assets,
		now:   time.Unix(1700000000, 0),
		contract: NewSmartContract(Options{
			Registries: func(ctx contractapi.TransactionContextInterface, ref string) (registry.AssetRegistry, error) {
				if ref != deedRegistry {
					return nil, fmt.Errorf("unknown registry")
				}
				return assets, nil
			},
			Logger: logger,
		}),
	}
}

// as starts a new transaction submitted by caller at h.now
func (h *house) as(caller string) contractapi.TransactionContextInterface {
	h.drainEvents()
	h.event = nil
	h.txs++
	h.stub.MockTransactionStart(fmt.Sprintf("tx%d", h.txs))
	txTimestamp, err := ptypes.TimestampProto(h.now)
	require.NoError(h.t, err)
	h.stub.TxTimestamp = txTimestamp

	ctx := new(contractapi.TransactionContext)
	ctx.SetStub(h.stub)
	ctx.SetClientIdentity(clientIdentity{id: caller})
	return ctx
}

// drainEvents keeps the last event emitted on the stub
func (h *house) drainEvents() {
	for {
		select {
		case event := <-h.stub.ChaincodeEventsChannel:
			h.event = event
		default:
			return
		}
	}
}

// lastEvent returns the event of the latest transaction, call it before starting the next one
func (h *house) lastEvent() (string, AuctionEvent) {
	h.drainEvents()
	require.NotNil(h.t, h.event, "no event emitted")
	var event AuctionEvent
	require.NoError(h.t, json.Unmarshal(h.event.Payload, &event))
	return h.event.EventName, event
}

func (h *house) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// deposit registers assetID to owner and hands it to the auction house
func (h *house) deposit(owner string, assetID string) {
	require.NoError(h.t, h.deeds.Register(assetID, owner))
	require.NoError(h.t, h.contract.DepositAsset(h.as(owner), deedRegistry, assetID))
}

// open deposits a fresh asset and auctions it with the default windows
func (h *house) open(owner string, assetID string) uint64 {
	h.deposit(owner, assetID)
	id, err := h.contract.CreateAuction(h.as(owner), assetID, deedRegistry, "Selling One Token",
		h.now.Add(biddingWindow).Unix(), h.now.Add(revealWindow).Unix())
	require.NoError(h.t, err)
	return id
}

func (h *house) bid(bidder string, auctionID uint64, amount uint64, secret string, deposit uint64) error {
	return h.contract.SealedBid(h.as(bidder), auctionID, commitment.Seal(amount, secret).String(), deposit)
}

func (h *house) reveal(bidder string, auctionID uint64, amount uint64, secret string) error {
	return h.contract.Reveal(h.as(bidder), auctionID, amount, secret)
}

func (h *house) auction(auctionID uint64) *Auction {
	auction, err := h.contract.GetAuction(h.as("observer"), auctionID)
	require.NoError(h.t, err)
	return auction
}

func (h *house) refund(account string) uint64 {
	owed, err := h.contract.GetRefund(h.as("observer"), account)
	require.NoError(h.t, err)
	return owed
}

func (h *house) balance() uint64 {
	balance, err := h.contract.GetHouseBalance(h.as("observer"))
	require.NoError(h.t, err)
	return balance
}

func (h *house) ownerOf(assetID string) string {
	owner, err := h.deeds.OwnerOf(assetID)
	require.NoError(h.t, err)
	return owner
}

// toReveal moves past the bidding window of the auction
func (h *house) toReveal(auctionID uint64) {
	h.now = time.Unix(h.auction(auctionID).BiddingEnd+1, 0)
}

// toSettlement moves past the reveal window of the auction
func (h *house) toSettlement(auctionID uint64) {
	h.now = time.Unix(h.auction(auctionID).RevealEnd+1, 0)
}
