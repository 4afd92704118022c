/*
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTransaction(t *testing.T) {
	ok := testutil.ToFloat64(Transactions.WithLabelValues("Reveal", OutcomeOK))
	rejected := testutil.ToFloat64(Transactions.WithLabelValues("Reveal", OutcomeRejected))

	ObserveTransaction("Reveal", nil)
	ObserveTransaction("Reveal", errors.New("BadReveal"))
	ObserveTransaction("Reveal", errors.New("BadReveal"))

	assert.Equal(t, ok+1, testutil.ToFloat64(Transactions.WithLabelValues("Reveal", OutcomeOK)))
	assert.Equal(t, rejected+2, testutil.ToFloat64(Transactions.WithLabelValues("Reveal", OutcomeRejected)))
}
