package client

import (
	"context"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/contractvm/contractvm"
)

// Client defines contractvm client operations.
type Client interface {
	// Deploy registers [code] under [address]
	Deploy(ctx context.Context, address string, code []byte) error

	// Call invokes [method] on the contract at [address]
	Call(ctx context.Context, address string, method string, args ...string) (*contractvm.CallReply, error)

	// Execute runs a raw execution with [input]. The returned output is decoded.
	Execute(ctx context.Context, address string, input []byte) (string, []byte, error)

	// Deposit credits [amount] to the contract at [address]
	Deposit(ctx context.Context, address string, amount uint64) error

	// GasUsed returns the VM's gas used and gas limit
	GasUsed(ctx context.Context) (uint64, uint64, error)

	// GetContract fetches the contract at [address]
	GetContract(ctx context.Context, address string) (*contractvm.GetContractReply, error)
}

// New creates a new client object talking to the endpoint at [uri].
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri, contractvm.Name)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Deploy(ctx context.Context, address string, code []byte) error {
	encoded, err := formatting.Encode(formatting.Hex, code)
	if err != nil {
		return err
	}
	return cli.req.SendRequest(ctx,
		"deploy",
		&contractvm.DeployArgs{Address: address, Code: encoded},
		&api.EmptyReply{},
	)
}

func (cli *client) Call(ctx context.Context, address string, method string, args ...string) (*contractvm.CallReply, error) {
	resp := new(contractvm.CallReply)
	err := cli.req.SendRequest(ctx,
		"call",
		&contractvm.CallArgs{Address: address, Method: method, Args: args},
		resp,
	)
	return resp, err
}

func (cli *client) Execute(ctx context.Context, address string, input []byte) (string, []byte, error) {
	encoded, err := formatting.Encode(formatting.Hex, input)
	if err != nil {
		return "", nil, err
	}
	resp := new(contractvm.ExecuteReply)
	err = cli.req.SendRequest(ctx,
		"execute",
		&contractvm.ExecuteArgs{Address: address, Input: encoded},
		resp,
	)
	if err != nil {
		return "", nil, err
	}
	output, err := formatting.Decode(formatting.Hex, resp.Output)
	return resp.Outcome, output, err
}

func (cli *client) Deposit(ctx context.Context, address string, amount uint64) error {
	return cli.req.SendRequest(ctx,
		"deposit",
		&contractvm.DepositArgs{Address: address, Amount: cjson.Uint64(amount)},
		&api.EmptyReply{},
	)
}

func (cli *client) GasUsed(ctx context.Context) (uint64, uint64, error) {
	resp := new(contractvm.GasUsedReply)
	err := cli.req.SendRequest(ctx, "gasUsed", struct{}{}, resp)
	return uint64(resp.Used), uint64(resp.Limit), err
}

func (cli *client) GetContract(ctx context.Context, address string) (*contractvm.GetContractReply, error) {
	resp := new(contractvm.GetContractReply)
	err := cli.req.SendRequest(ctx,
		"getContract",
		&contractvm.GetContractArgs{Address: address},
		resp,
	)
	return resp, err
}
