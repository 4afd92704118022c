/*
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
)

// Invoker calls another chaincode. shim.ChaincodeStubInterface satisfies it.
type Invoker interface {
	InvokeChaincode(chaincodeName string, args [][]byte, channel string) peer.Response
}

// Chaincode is an AssetRegistry deployed as a separate chaincode. The registry
// chaincode must expose OwnerOf(assetID) returning the owner identity and
// TransferFrom(from, to, assetID).
type Chaincode struct {
	invoker Invoker
	name    string
	channel string
}

// NewChaincode returns a client for the registry referenced by ref, which is
// either a chaincode name on the current channel or "name/channel". Fabric
// runs chaincode on another channel as a query, so a registry referenced with
// a channel answers OwnerOf but refuses Transfer.
func NewChaincode(invoker Invoker, ref string) (*Chaincode, error) {
	name, channel, _ := strings.Cut(ref, "/")
	if name == "" {
		return nil, fmt.Errorf("invalid registry reference %q", ref)
	}
	return &Chaincode{invoker: invoker, name: name, channel: channel}, nil
}

// Ref returns the reference the client was created from.
func (c *Chaincode) Ref() string {
	if c.channel == "" {
		return c.name
	}
	return c.name + "/" + c.channel
}

func (c *Chaincode) invoke(function string, args ...string) peer.Response {
	invokeArgs := make([][]byte, 0, len(args)+1)
	invokeArgs = append(invokeArgs, []byte(function))
	for _, arg := range args {
		invokeArgs = append(invokeArgs, []byte(arg))
	}
	return c.invoker.InvokeChaincode(c.name, invokeArgs, c.channel)
}

// OwnerOf implements AssetRegistry. Any rejection of the ownership query is
// reported as ErrAssetNotFound.
func (c *Chaincode) OwnerOf(assetID string) (string, error) {
	resp := c.invoke("OwnerOf", assetID)
	if resp.Status >= shim.ERRORTHRESHOLD {
		return "", fmt.Errorf("%w: %s (registry %s)", ErrAssetNotFound, resp.Message, c.Ref())
	}
	owner := string(resp.Payload)
	if owner == "" {
		return "", fmt.Errorf("%w: registry %s returned no owner for %s", ErrAssetNotFound, c.Ref(), assetID)
	}
	return owner, nil
}

// Transfer implements AssetRegistry.
func (c *Chaincode) Transfer(from, to, assetID string) error {
	if c.channel != "" {
		return fmt.Errorf("cannot transfer %s through registry %s: %w", assetID, c.Ref(), ErrReadOnly)
	}
	resp := c.invoke("TransferFrom", from, to, assetID)
	if resp.Status >= shim.ERRORTHRESHOLD {
		return fmt.Errorf("registry %s rejected transfer of %s: %s", c.Ref(), assetID, resp.Message)
	}
	return nil
}
