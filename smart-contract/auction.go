/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"errors"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"

	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/commitment"
	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/metrics"
	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/registry"
)

const (
	// DefaultName is the contract name clients address.
	DefaultName = "VickreyAuctionHouse"
	// DefaultHouseID is the identity under which the auction house holds assets in registries.
	DefaultHouseID = "vickrey-auction-house"
)

// RegistryResolver returns the asset registry referenced by an auction.
type RegistryResolver func(ctx contractapi.TransactionContextInterface, ref string) (registry.AssetRegistry, error)

// ChaincodeRegistries resolves registry references to chaincodes on the
// peer, invoked through the transaction's stub.
func ChaincodeRegistries(ctx contractapi.TransactionContextInterface, ref string) (registry.AssetRegistry, error) {
	return registry.NewChaincode(ctx.GetStub(), ref)
}

// Options configure a SmartContract. Zero values select the defaults.
type Options struct {
	Name       string
	HouseID    string
	Registries RegistryResolver
	Logger     logrus.FieldLogger
}

// This contract implements a Vickrey auction house: sealed bids with
// escrowed deposits, a reveal window, and second price settlement paid out
// through a refund ledger
type SmartContract struct {
	contractapi.Contract
	houseID    string
	registries RegistryResolver
	log        logrus.FieldLogger
}

// NewSmartContract creates the auction house contract.
func NewSmartContract(opts Options) *SmartContract {
	s := &SmartContract{
		houseID:    opts.HouseID,
		registries: opts.Registries,
		log:        opts.Logger,
	}
	s.Name = opts.Name
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.houseID == "" {
		s.houseID = DefaultHouseID
	}
	if s.registries == nil {
		s.registries = ChaincodeRegistries
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

func (s *SmartContract) logger(ctx contractapi.TransactionContextInterface, function string) logrus.FieldLogger {
	fields := logrus.Fields{
		"txID":     ctx.GetStub().GetTxID(),
		"function": function,
	}
	if clientID, err := getSubmittingClientID(ctx); err == nil {
		fields["caller"] = clientID
	}
	return s.log.WithFields(fields)
}

// observe records the outcome of a transaction
func (s *SmartContract) observe(ctx contractapi.TransactionContextInterface, function string, err error) {
	metrics.ObserveTransaction(function, err)
	if err != nil {
		s.logger(ctx, function).WithError(err).Debug("transaction rejected")
	}
}

// GetSubmittingClientIdentity returns the identity the contract sees for the caller
func (s *SmartContract) GetSubmittingClientIdentity(ctx contractapi.TransactionContextInterface) (string, error) {
	return getSubmittingClientID(ctx)
}

/**************** ASSET CUSTODY ****************/

// DepositAsset hands an asset to the auction house so that the caller can auction it
func (s *SmartContract) DepositAsset(ctx contractapi.TransactionContextInterface, registryRef string, assetID string) (err error) {
	defer func() { s.observe(ctx, "DepositAsset", err) }()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return errClientID
	}

	assets, errRegistry := s.registries(ctx, registryRef)
	if errRegistry != nil {
		return fmt.Errorf("could not resolve registry %q: %v", registryRef, errRegistry)
	}

	owner, errOwner := assets.OwnerOf(assetID)
	if errors.Is(errOwner, registry.ErrAssetNotFound) {
		return fmt.Errorf("%w (%s in %s)", ErrAssetNotFound, assetID, registryRef)
	}
	if errOwner != nil {
		return fmt.Errorf("could not query the owner of %s: %v", assetID, errOwner)
	}
	if owner != clientID {
		return fmt.Errorf("cannot deposit %s: %w", assetID, registry.ErrNotAssetOwner)
	}

	// Remember who deposited the asset, only they may auction it
	if err := putCustodian(ctx.GetStub(), registryRef, assetID, clientID); err != nil {
		return fmt.Errorf("could not record the custody of %s: %v", assetID, err)
	}
	if err := assets.Transfer(clientID, s.houseID, assetID); err != nil {
		return fmt.Errorf("could not transfer %s into custody: %v", assetID, err)
	}

	s.logger(ctx, "DepositAsset").WithFields(logrus.Fields{
		"asset":    assetID,
		"registry": registryRef,
	}).Info("asset taken into custody")

	return setAuctionEvent(ctx, EventAssetDeposited, &AuctionEvent{
		Caller:        clientID,
		AssetID:       assetID,
		AssetRegistry: registryRef,
	})
}

/**************** AUCTION SELLER METHODS ****************/

// CreateAuction opens an auction for an asset in the custody of the auction house and returns its id
func (s *SmartContract) CreateAuction(ctx contractapi.TransactionContextInterface, assetID string, registryRef string, description string, biddingEnd int64, revealEnd int64) (id uint64, err error) {
	defer func() { s.observe(ctx, "CreateAuction", err) }()

	stub := ctx.GetStub()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return 0, errClientID
	}
	now, errTime := getTxTime(ctx)
	if errTime != nil {
		return 0, errTime
	}

	assets, errRegistry := s.registries(ctx, registryRef)
	if errRegistry != nil {
		return 0, fmt.Errorf("could not resolve registry %q: %v", registryRef, errRegistry)
	}

	// The asset must exist and be held by the auction house
	owner, errOwner := assets.OwnerOf(assetID)
	if errors.Is(errOwner, registry.ErrAssetNotFound) {
		return 0, fmt.Errorf("%w (%s in %s)", ErrAssetNotFound, assetID, registryRef)
	}
	if errOwner != nil {
		return 0, fmt.Errorf("could not query the owner of %s: %v", assetID, errOwner)
	}
	if owner != s.houseID {
		return 0, ErrNotCustodian
	}

	// Only the party that deposited the asset may sell it
	custodian, errCustodian := getCustodian(stub, registryRef, assetID)
	if errCustodian != nil {
		return 0, fmt.Errorf("could not read the custody of %s: %v", assetID, errCustodian)
	}
	if custodian != clientID {
		return 0, ErrWrongPriorOwner
	}

	if biddingEnd <= now.Unix() {
		return 0, ErrBiddingWindowClosed
	}
	if revealEnd <= biddingEnd {
		return 0, ErrInvalidRevealWindow
	}

	auction := Auction{
		AssetID:       assetID,
		AssetRegistry: registryRef,
		Description:   description,
		Owner:         clientID,
		IsActive:      true,
		BiddingEnd:    biddingEnd,
		RevealEnd:     revealEnd,
	}
	if err := appendAuction(stub, &auction); err != nil {
		return 0, fmt.Errorf("could not save the new auction in the world state: %v", err)
	}

	// The deposit is used up, a second auction needs a fresh deposit
	if err := delCustodian(stub, registryRef, assetID); err != nil {
		return 0, fmt.Errorf("could not release the custody record of %s: %v", assetID, err)
	}

	s.logger(ctx, "CreateAuction").WithFields(logrus.Fields{
		"auctionID":  auction.ID,
		"asset":      assetID,
		"biddingEnd": biddingEnd,
		"revealEnd":  revealEnd,
	}).Info("auction created")

	if err := setAuctionEvent(ctx, EventAuctionCreated, &AuctionEvent{
		AuctionID:     auction.ID,
		Caller:        clientID,
		AssetID:       assetID,
		AssetRegistry: registryRef,
	}); err != nil {
		return 0, err
	}
	return auction.ID, nil
}

// CancelAuction withdraws an auction without bids and returns the asset to its owner
func (s *SmartContract) CancelAuction(ctx contractapi.TransactionContextInterface, auctionID uint64) (err error) {
	defer func() { s.observe(ctx, "CancelAuction", err) }()

	stub := ctx.GetStub()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return errClientID
	}

	auction, errGetAuction := getAuction(stub, auctionID)
	if errGetAuction != nil {
		return errGetAuction
	}

	if auction.Owner != clientID {
		return ErrNotOwner
	}
	if !auction.IsActive {
		return ErrNotAlive
	}
	if auction.BidCount > 0 {
		return ErrBidsExist
	}

	assets, errRegistry := s.registries(ctx, auction.AssetRegistry)
	if errRegistry != nil {
		return fmt.Errorf("could not resolve registry %q: %v", auction.AssetRegistry, errRegistry)
	}

	auction.IsActive = false
	auction.IsFinalized = true
	auction.IsCancelled = true
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save the cancelled auction: %v", err)
	}

	if err := assets.Transfer(s.houseID, auction.Owner, auction.AssetID); err != nil {
		return fmt.Errorf("could not return %s to the owner: %v", auction.AssetID, err)
	}

	metrics.AuctionsClosed.WithLabelValues("cancelled").Inc()
	s.logger(ctx, "CancelAuction").WithField("auctionID", auctionID).Info("auction cancelled")

	return setAuctionEvent(ctx, EventAuctionCancelled, &AuctionEvent{
		AuctionID: auctionID,
		Caller:    clientID,
		AssetID:   auction.AssetID,
		Recipient: auction.Owner,
	})
}

// EndAuction settles an auction after the reveal window: the asset goes to the
// highest bidder, who pays the second highest bid. Anyone may call it.
func (s *SmartContract) EndAuction(ctx contractapi.TransactionContextInterface, auctionID uint64) (err error) {
	defer func() { s.observe(ctx, "EndAuction", err) }()

	stub := ctx.GetStub()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return errClientID
	}
	now, errTime := getTxTime(ctx)
	if errTime != nil {
		return errTime
	}

	auction, errGetAuction := getAuction(stub, auctionID)
	if errGetAuction != nil {
		return errGetAuction
	}

	if now.Unix() < auction.RevealEnd {
		return ErrAuctionStillRunning
	}
	if !auction.IsActive {
		return ErrNotAlive
	}

	assets, errRegistry := s.registries(ctx, auction.AssetRegistry)
	if errRegistry != nil {
		return fmt.Errorf("could not resolve registry %q: %v", auction.AssetRegistry, errRegistry)
	}

	recipient := auction.Owner
	if auction.hasLeader() {
		recipient = auction.HighestBidder
	}

	auction.IsActive = false
	auction.IsFinalized = true
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save ended auction: %v", err)
	}
	if err := creditRefunds(stub, settle(auction)...); err != nil {
		return fmt.Errorf("could not credit the settlement: %v", err)
	}

	if err := assets.Transfer(s.houseID, recipient, auction.AssetID); err != nil {
		return fmt.Errorf("could not transfer %s to %s: %v", auction.AssetID, recipient, err)
	}

	log := s.logger(ctx, "EndAuction").WithField("auctionID", auctionID)
	if auction.hasLeader() {
		metrics.AuctionsClosed.WithLabelValues("sold").Inc()
		log.WithFields(logrus.Fields{
			"winner":      auction.HighestBidder,
			"hammerPrice": auction.SecondHighestBid,
		}).Info("auction ended with a winner")
	} else {
		metrics.AuctionsClosed.WithLabelValues("unsold").Inc()
		log.Info("auction ended without a winner")
	}

	return setAuctionEvent(ctx, EventAuctionEnded, &AuctionEvent{
		AuctionID:        auctionID,
		Caller:           clientID,
		AssetID:          auction.AssetID,
		HighestBidder:    auction.HighestBidder,
		HighestBid:       auction.HighestBid,
		SecondHighestBid: auction.SecondHighestBid,
		Recipient:        recipient,
	})
}

/**************** AUCTION BIDDER METHODS ****************/

// SealedBid is called by a bidder to submit a hidden bid together with the deposit that backs it
func (s *SmartContract) SealedBid(ctx contractapi.TransactionContextInterface, auctionID uint64, sealedBidHex string, deposit uint64) (err error) {
	defer func() { s.observe(ctx, "SealedBid", err) }()

	stub := ctx.GetStub()

	sealedBid, errDecode := commitment.Parse(sealedBidHex)
	if errDecode != nil {
		return errDecode
	}
	if sealedBid.IsZero() {
		return ErrEmptyCommitment
	}

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return errClientID
	}
	now, errTime := getTxTime(ctx)
	if errTime != nil {
		return errTime
	}

	auction, errGetAuction := getAuction(stub, auctionID)
	if errGetAuction != nil {
		return errGetAuction
	}

	// Can only submit new bids while the bidding window is open
	if !auction.IsActive || now.Unix() >= auction.BiddingEnd {
		return ErrAuctionNotRunning
	}
	if auction.Owner == clientID {
		return ErrOwnerCannotBidOrReveal
	}

	existing, errGetBid := getBid(stub, auctionID, clientID)
	if errGetBid != nil {
		return fmt.Errorf("could not read the bid: %v", errGetBid)
	}
	if existing != nil {
		return ErrAlreadyBid
	}

	if err := putBid(stub, auctionID, &Bid{
		Bidder:           clientID,
		SealedCommitment: sealedBid.String(),
		Deposit:          deposit,
	}); err != nil {
		return fmt.Errorf("could not save the bid: %v", err)
	}
	auction.BidCount++
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save the updated auction: %v", err)
	}
	if err := escrow(stub, deposit); err != nil {
		return fmt.Errorf("could not escrow the deposit: %v", err)
	}

	metrics.Deposits.Add(float64(deposit))
	s.logger(ctx, "SealedBid").WithFields(logrus.Fields{
		"auctionID": auctionID,
		"deposit":   deposit,
	}).Info("sealed bid accepted")

	return setAuctionEvent(ctx, EventBidSealed, &AuctionEvent{
		AuctionID: auctionID,
		Caller:    clientID,
		Amount:    deposit,
	})
}

// Reveal opens the caller's sealed bid. It fails unless amount and secret
// reproduce the commitment given at bidding time.
func (s *SmartContract) Reveal(ctx contractapi.TransactionContextInterface, auctionID uint64, amount uint64, secret string) (err error) {
	defer func() { s.observe(ctx, "Reveal", err) }()

	stub := ctx.GetStub()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return errClientID
	}
	now, errTime := getTxTime(ctx)
	if errTime != nil {
		return errTime
	}

	auction, errGetAuction := getAuction(stub, auctionID)
	if errGetAuction != nil {
		return errGetAuction
	}

	if auction.Owner == clientID {
		return ErrOwnerCannotBidOrReveal
	}
	if !auction.IsActive || now.Unix() >= auction.RevealEnd {
		return ErrAuctionNotRunning
	}
	if now.Unix() < auction.BiddingEnd {
		return ErrAuctionStillRunning
	}

	bid, errGetBid := getBid(stub, auctionID, clientID)
	if errGetBid != nil {
		return fmt.Errorf("could not read the bid: %v", errGetBid)
	}
	if bid == nil || bid.Revealed {
		return ErrBadReveal
	}
	sealedBid, errDecode := commitment.Parse(bid.SealedCommitment)
	if errDecode != nil {
		return fmt.Errorf("stored bid is corrupt: %v", errDecode)
	}
	if !commitment.Verify(amount, secret, sealedBid) {
		return ErrBadReveal
	}

	bid.Revealed = true
	credits := revealBid(auction, clientID, amount, bid.Deposit)

	if err := putBid(stub, auctionID, bid); err != nil {
		return fmt.Errorf("could not save the revealed bid: %v", err)
	}
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save the updated auction: %v", err)
	}
	if err := creditRefunds(stub, credits...); err != nil {
		return fmt.Errorf("could not credit the refunds: %v", err)
	}

	s.logger(ctx, "Reveal").WithFields(logrus.Fields{
		"auctionID":  auctionID,
		"leading":    auction.HighestBidder == clientID,
		"highestBid": auction.HighestBid,
	}).Info("bid revealed")

	return setAuctionEvent(ctx, EventBidRevealed, &AuctionEvent{
		AuctionID:        auctionID,
		Caller:           clientID,
		Amount:           amount,
		HighestBidder:    auction.HighestBidder,
		HighestBid:       auction.HighestBid,
		SecondHighestBid: auction.SecondHighestBid,
	})
}

// Withdraw pays out everything the refund ledger owes the caller and returns the amount.
// The payout itself is the RefundWithdrawn event.
func (s *SmartContract) Withdraw(ctx contractapi.TransactionContextInterface) (amount uint64, err error) {
	defer func() { s.observe(ctx, "Withdraw", err) }()

	stub := ctx.GetStub()

	clientID, errClientID := getSubmittingClientID(ctx)
	if errClientID != nil {
		return 0, errClientID
	}

	// Zero the entry before anything is paid
	owed, errRefund := takeRefund(stub, clientID)
	if errRefund != nil {
		return 0, fmt.Errorf("could not read the refund: %v", errRefund)
	}
	if owed == 0 {
		return 0, ErrNothingToWithdraw
	}
	if err := release(stub, owed); err != nil {
		return 0, err
	}

	if err := setAuctionEvent(ctx, EventRefundWithdrawn, &AuctionEvent{
		Caller: clientID,
		Amount: owed,
	}); err != nil {
		return 0, err
	}

	metrics.Withdrawals.Add(float64(owed))
	s.logger(ctx, "Withdraw").WithField("amount", owed).Info("refund withdrawn")
	return owed, nil
}

/**************** QUERIES ****************/

// GetAuction returns the auction with the given id
func (s *SmartContract) GetAuction(ctx contractapi.TransactionContextInterface, auctionID uint64) (*Auction, error) {
	return getAuction(ctx.GetStub(), auctionID)
}

// GetAuctionsCount returns the number of auctions ever created
func (s *SmartContract) GetAuctionsCount(ctx contractapi.TransactionContextInterface) (uint64, error) {
	return getAuctionCount(ctx.GetStub())
}

// GetAuctionPhase returns the phase of the auction at the transaction time
func (s *SmartContract) GetAuctionPhase(ctx contractapi.TransactionContextInterface, auctionID uint64) (string, error) {
	auction, err := getAuction(ctx.GetStub(), auctionID)
	if err != nil {
		return "", err
	}
	now, err := getTxTime(ctx)
	if err != nil {
		return "", err
	}
	return string(auction.PhaseAt(now)), nil
}

// GetBidCount returns the number of sealed bids on the auction
func (s *SmartContract) GetBidCount(ctx contractapi.TransactionContextInterface, auctionID uint64) (uint64, error) {
	auction, err := getAuction(ctx.GetStub(), auctionID)
	if err != nil {
		return 0, err
	}
	return auction.BidCount, nil
}

// GetBid returns the bid of a bidder on the auction
func (s *SmartContract) GetBid(ctx contractapi.TransactionContextInterface, auctionID uint64, bidder string) (*Bid, error) {
	if _, err := getAuction(ctx.GetStub(), auctionID); err != nil {
		return nil, err
	}
	bid, err := getBid(ctx.GetStub(), auctionID, bidder)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		return nil, fmt.Errorf("no bid from %s on auction %d", bidder, auctionID)
	}
	return bid, nil
}

// GetBids returns all bids on the auction
func (s *SmartContract) GetBids(ctx contractapi.TransactionContextInterface, auctionID uint64) ([]Bid, error) {
	if _, err := getAuction(ctx.GetStub(), auctionID); err != nil {
		return nil, err
	}
	return listBids(ctx.GetStub(), auctionID)
}

// GetRefund returns what the refund ledger owes the account
func (s *SmartContract) GetRefund(ctx contractapi.TransactionContextInterface, account string) (uint64, error) {
	return getRefund(ctx.GetStub(), account)
}

// GetHouseBalance returns the total value held by the auction house
func (s *SmartContract) GetHouseBalance(ctx contractapi.TransactionContextInterface) (uint64, error) {
	return getHouseBalance(ctx.GetStub())
}
