/*
SPDX-License-Identifier: Apache-2.0
*/

package commitment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealMatchesPackedKeccak(t *testing.T) {
	vectors := []struct {
		amount uint64
		secret string
		want   string
	}{
		{0, "", "0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"},
		{4, "s3cr3t", "0x2be76a8626e1a207c8bd8b7c1f7160e0ddf99faf101e15db900fd89c57bcfdef"},
		{8, "gulf", "0xf09f3e67be416c91443e443bd6b01c75c4dbdfc6ce66c778359a37e201354586"},
		{13, "secret", "0x808f613d14165b0e19a9afd759f2208a143d61889a73aecaa460e8cd0a180feb"},
	}
	for _, v := range vectors {
		assert.Equal(t, v.want, Seal(v.amount, v.secret).String(), "seal(%d, %q)", v.amount, v.secret)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	c := Seal(4, "s3cr3t")

	assert.True(t, Verify(4, "s3cr3t", c))
	assert.False(t, Verify(4, "wrong", c))
	assert.False(t, Verify(5, "s3cr3t", c))
	assert.False(t, Verify(4, "s3cr3t", Commitment{}))
}

func TestParse(t *testing.T) {
	c := Seal(8, "gulf")

	parsed, err := Parse(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)

	parsed, err = Parse(strings.TrimPrefix(c.String(), "0x"))
	require.NoError(t, err)
	assert.Equal(t, c, parsed)

	_, err = Parse("0xabcd")
	assert.Error(t, err)

	_, err = Parse("not hex")
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Commitment{}.IsZero())
	assert.False(t, Seal(0, "").IsZero())
}
