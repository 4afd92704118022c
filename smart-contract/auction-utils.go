/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

const (
	auctionCountKey = "auction count"
	bidKeyType      = "bid"
	custodyKeyType  = "custody"
)

// auctionKey gets a world state key from the auction id
func auctionKey(auctionID uint64) string {
	return fmt.Sprintf("auction %d", auctionID)
}

func bidKey(stub shim.ChaincodeStubInterface, auctionID uint64, bidder string) (string, error) {
	return stub.CreateCompositeKey(bidKeyType, []string{strconv.FormatUint(auctionID, 10), bidder})
}

func custodyKey(stub shim.ChaincodeStubInterface, registryRef string, assetID string) (string, error) {
	return stub.CreateCompositeKey(custodyKeyType, []string{registryRef, assetID})
}

// getUint reads a decimal counter, absent keys read as zero
func getUint(stub shim.ChaincodeStubInterface, key string) (uint64, error) {
	valueBin, err := stub.GetState(key)
	if err != nil {
		return 0, err
	}
	if valueBin == nil {
		return 0, nil
	}
	value, err := strconv.ParseUint(string(valueBin), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt value under %q: %v", key, err)
	}
	return value, nil
}

// putUint writes a decimal counter, zero deletes the key
func putUint(stub shim.ChaincodeStubInterface, key string, value uint64) error {
	if value == 0 {
		return stub.DelState(key)
	}
	return stub.PutState(key, []byte(strconv.FormatUint(value, 10)))
}

// getAuctionCount returns the number of auctions ever created, which is also the next auction id
func getAuctionCount(stub shim.ChaincodeStubInterface) (uint64, error) {
	return getUint(stub, auctionCountKey)
}

// getAuction retrieves the auction with the given id from the world state
func getAuction(stub shim.ChaincodeStubInterface, auctionID uint64) (*Auction, error) {
	auctionBin, errGetState := stub.GetState(auctionKey(auctionID))
	if errGetState != nil {
		return nil, fmt.Errorf("could not read auction %d: %v", auctionID, errGetState)
	}
	if auctionBin == nil {
		return nil, fmt.Errorf("%w (id %d)", ErrAuctionNotFound, auctionID)
	}
	var auction Auction
	err := json.Unmarshal(auctionBin, &auction)
	if err != nil {
		return nil, fmt.Errorf("could not decode auction %d: %v", auctionID, err)
	}
	return &auction, nil
}

// putAuction saves the given auction in the contract world state
func putAuction(stub shim.ChaincodeStubInterface, auction *Auction) error {
	auctionBin, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	return stub.PutState(auctionKey(auction.ID), auctionBin)
}

// appendAuction assigns the next id to auction and saves it
func appendAuction(stub shim.ChaincodeStubInterface, auction *Auction) error {
	count, err := getAuctionCount(stub)
	if err != nil {
		return err
	}
	auction.ID = count
	if err := putAuction(stub, auction); err != nil {
		return err
	}
	return putUint(stub, auctionCountKey, count+1)
}

// getBid returns the bid of bidder on the auction, or nil if there is none
func getBid(stub shim.ChaincodeStubInterface, auctionID uint64, bidder string) (*Bid, error) {
	key, err := bidKey(stub, auctionID, bidder)
	if err != nil {
		return nil, err
	}
	bidBin, err := stub.GetState(key)
	if err != nil {
		return nil, err
	}
	if bidBin == nil {
		return nil, nil
	}
	var bid Bid
	if err := json.Unmarshal(bidBin, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

func putBid(stub shim.ChaincodeStubInterface, auctionID uint64, bid *Bid) error {
	key, err := bidKey(stub, auctionID, bid.Bidder)
	if err != nil {
		return err
	}
	bidBin, err := json.Marshal(bid)
	if err != nil {
		return err
	}
	return stub.PutState(key, bidBin)
}

// listBids returns all bids on the auction ordered by bidder
func listBids(stub shim.ChaincodeStubInterface, auctionID uint64) ([]Bid, error) {
	iter, err := stub.GetStateByPartialCompositeKey(bidKeyType, []string{strconv.FormatUint(auctionID, 10)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	bids := []Bid{}
	for iter.HasNext() {
		kv, err := iter.Next()
		if err != nil {
			return nil, err
		}
		var bid Bid
		if err := json.Unmarshal(kv.Value, &bid); err != nil {
			return nil, fmt.Errorf("could not decode bid %q: %v", kv.Key, err)
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// getCustodian returns who handed the asset to the auction house, or "" if nobody did
func getCustodian(stub shim.ChaincodeStubInterface, registryRef string, assetID string) (string, error) {
	key, err := custodyKey(stub, registryRef, assetID)
	if err != nil {
		return "", err
	}
	prior, err := stub.GetState(key)
	if err != nil {
		return "", err
	}
	return string(prior), nil
}

func putCustodian(stub shim.ChaincodeStubInterface, registryRef string, assetID string, depositor string) error {
	key, err := custodyKey(stub, registryRef, assetID)
	if err != nil {
		return err
	}
	return stub.PutState(key, []byte(depositor))
}

func delCustodian(stub shim.ChaincodeStubInterface, registryRef string, assetID string) error {
	key, err := custodyKey(stub, registryRef, assetID)
	if err != nil {
		return err
	}
	return stub.DelState(key)
}

// setAuctionEvent sets the chaincode event of the current transaction
// Fabric keeps a single event per transaction, so every transaction calls this at most once
func setAuctionEvent(ctx contractapi.TransactionContextInterface, name string, event *AuctionEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	eventBin, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ctx.GetStub().SetEvent(name, eventBin)
}
