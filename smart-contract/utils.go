/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/ptypes"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// getSubmittingClientID returns the identity of the client that submitted the transaction
func getSubmittingClientID(ctx contractapi.TransactionContextInterface) (string, error) {
	clientID, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return "", fmt.Errorf("failed to read clientID: %v", err)
	}
	return clientID, nil
}

// getTxTime returns the transaction timestamp proposed by the client
func getTxTime(ctx contractapi.TransactionContextInterface) (time.Time, error) {
	txTimestamp, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read transaction timestamp: %v", err)
	}
	txTime, err := ptypes.Timestamp(txTimestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid transaction timestamp: %v", err)
	}
	return txTime, nil
}
