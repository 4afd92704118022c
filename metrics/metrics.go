/*
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics holds the Prometheus collectors of the auction house chaincode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction outcomes
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

var (
	Transactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vickrey_transactions_total",
			Help: "Transactions executed by the auction house, by function and outcome",
		},
		[]string{"function", "outcome"},
	)

	Deposits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vickrey_deposits_total",
		Help: "Value escrowed with sealed bids",
	})

	Withdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vickrey_withdrawals_total",
		Help: "Value paid out of the refund ledger",
	})

	AuctionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vickrey_auctions_closed_total",
			Help: "Auctions that reached a terminal phase, by result (sold, unsold, cancelled)",
		},
		[]string{"result"},
	)
)

// ObserveTransaction counts one execution of function.
func ObserveTransaction(function string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeRejected
	}
	Transactions.WithLabelValues(function, outcome).Inc()
}
