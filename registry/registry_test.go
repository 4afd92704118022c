/*
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"testing"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deedChaincode is a minimal registry chaincode keyed by asset id.
type deedChaincode struct{}

func (deedChaincode) Init(stub shim.ChaincodeStubInterface) peer.Response {
	return shim.Success(nil)
}

func (deedChaincode) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	function, args := stub.GetFunctionAndParameters()
	switch function {
	case "Register":
		if err := stub.PutState(args[0], []byte(args[1])); err != nil {
			return shim.Error(err.Error())
		}
		return shim.Success(nil)
	case "OwnerOf":
		owner, err := stub.GetState(args[0])
		if err != nil {
			return shim.Error(err.Error())
		}
		if owner == nil {
			return shim.Error("owner query for nonexistent token")
		}
		return shim.Success(owner)
	case "TransferFrom":
		owner, err := stub.GetState(args[2])
		if err != nil {
			return shim.Error(err.Error())
		}
		if string(owner) != args[0] {
			return shim.Error("transfer of token that is not own")
		}
		if err := stub.PutState(args[2], []byte(args[1])); err != nil {
			return shim.Error(err.Error())
		}
		return shim.Success(nil)
	}
	return shim.Error("unknown function " + function)
}

func newDeedNetwork(t *testing.T, channel string) (*shimtest.MockStub, *shimtest.MockStub) {
	deeds := shimtest.NewMockStub("deeds", deedChaincode{})
	house := shimtest.NewMockStub("house", nil)
	house.MockPeerChaincode("deeds", deeds, channel)

	resp := deeds.MockInvoke("seed", [][]byte{[]byte("Register"), []byte("deed-1"), []byte("alice")})
	require.EqualValues(t, shim.OK, resp.Status, resp.Message)

	// invoked chaincodes run under the caller's transaction id
	house.MockTransactionStart("tx1")
	return house, deeds
}

func TestChaincodeOwnerOf(t *testing.T) {
	house, _ := newDeedNetwork(t, "")
	reg, err := NewChaincode(house, "deeds")
	require.NoError(t, err)

	owner, err := reg.OwnerOf("deed-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	_, err = reg.OwnerOf("deed-2")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestChaincodeTransfer(t *testing.T) {
	house, deeds := newDeedNetwork(t, "")
	reg, err := NewChaincode(house, "deeds")
	require.NoError(t, err)
	assert.Equal(t, "deeds", reg.Ref())

	require.NoError(t, reg.Transfer("alice", "house", "deed-1"))
	assert.Equal(t, []byte("house"), deeds.State["deed-1"])

	err = reg.Transfer("alice", "bob", "deed-1")
	assert.Error(t, err)
	assert.Equal(t, []byte("house"), deeds.State["deed-1"])
}

// writes of chaincode on another channel are never committed
func TestChaincodeOnOtherChannelIsReadOnly(t *testing.T) {
	house, deeds := newDeedNetwork(t, "assets")
	reg, err := NewChaincode(house, "deeds/assets")
	require.NoError(t, err)
	assert.Equal(t, "deeds/assets", reg.Ref())

	owner, err := reg.OwnerOf("deed-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	err = reg.Transfer("alice", "house", "deed-1")
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, []byte("alice"), deeds.State["deed-1"])
}

func TestNewChaincodeRejectsEmptyReference(t *testing.T) {
	_, err := NewChaincode(shimtest.NewMockStub("house", nil), "")
	assert.Error(t, err)

	_, err = NewChaincode(shimtest.NewMockStub("house", nil), "/channel")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	reg := NewMemory()
	require.NoError(t, reg.Register("token-1", "alice"))
	assert.ErrorIs(t, reg.Register("token-1", "bob"), ErrAssetExists)

	_, err := reg.OwnerOf("token-2")
	assert.ErrorIs(t, err, ErrAssetNotFound)

	assert.ErrorIs(t, reg.Transfer("bob", "carol", "token-1"), ErrNotAssetOwner)
	assert.ErrorIs(t, reg.Transfer("alice", "carol", "token-2"), ErrAssetNotFound)

	require.NoError(t, reg.Transfer("alice", "carol", "token-1"))
	owner, err := reg.OwnerOf("token-1")
	require.NoError(t, err)
	assert.Equal(t, "carol", owner)
}
