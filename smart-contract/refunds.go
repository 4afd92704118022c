/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"
	"math"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// The refund ledger maps accounts to the amount the auction house owes them.
// Entries are shared by all auctions and only ever paid out by Withdraw.

const houseBalanceKey = "house balance"

// credit is an amount owed to an account
type credit struct {
	account string
	amount  uint64
}

func refundKey(account string) string {
	return fmt.Sprintf("refund %s", account)
}

func getRefund(stub shim.ChaincodeStubInterface, account string) (uint64, error) {
	return getUint(stub, refundKey(account))
}

// creditRefunds adds the credits to the refund ledger
func creditRefunds(stub shim.ChaincodeStubInterface, credits ...credit) error {
	for _, c := range credits {
		if c.amount == 0 {
			continue
		}
		owed, err := getRefund(stub, c.account)
		if err != nil {
			return err
		}
		if owed > math.MaxUint64-c.amount {
			return fmt.Errorf("refund of %s overflows", c.account)
		}
		if err := putUint(stub, refundKey(c.account), owed+c.amount); err != nil {
			return err
		}
	}
	return nil
}

// takeRefund zeroes the account's entry and returns what it held
func takeRefund(stub shim.ChaincodeStubInterface, account string) (uint64, error) {
	owed, err := getRefund(stub, account)
	if err != nil {
		return 0, err
	}
	if owed == 0 {
		return 0, nil
	}
	if err := stub.DelState(refundKey(account)); err != nil {
		return 0, err
	}
	return owed, nil
}

// getHouseBalance returns the total value held by the auction house:
// unrevealed deposits, the provisional winners' bids and the refund ledger
func getHouseBalance(stub shim.ChaincodeStubInterface) (uint64, error) {
	return getUint(stub, houseBalanceKey)
}

func escrow(stub shim.ChaincodeStubInterface, amount uint64) error {
	balance, err := getHouseBalance(stub)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return fmt.Errorf("house balance overflows")
	}
	return putUint(stub, houseBalanceKey, balance+amount)
}

func release(stub shim.ChaincodeStubInterface, amount uint64) error {
	balance, err := getHouseBalance(stub)
	if err != nil {
		return err
	}
	if amount > balance {
		return fmt.Errorf("cannot release %d, house only holds %d", amount, balance)
	}
	return putUint(stub, houseBalanceKey, balance-amount)
}
