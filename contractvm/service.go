// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

// CreateHandler returns the JSON-RPC handler serving this VM's API under the
// service name [Name].
func (vm *VM) CreateHandler() (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(&Service{vm: vm}, Name)
}

// Service is the API service for this VM
type Service struct{ vm *VM }

// DeployArgs are the arguments to Deploy. Code is hex encoded.
type DeployArgs struct {
	Address string `json:"address"`
	Code    string `json:"code"`
}

// Deploy registers a new contract
func (s *Service) Deploy(_ *http.Request, args *DeployArgs, _ *api.EmptyReply) error {
	code, err := formatting.Decode(formatting.Hex, args.Code)
	if err != nil {
		return fmt.Errorf("couldn't decode code: %w", err)
	}
	return s.vm.Deploy(args.Address, code)
}

// CallArgs are the arguments to Call
type CallArgs struct {
	Address string   `json:"address"`
	Method  string   `json:"method"`
	Args    []string `json:"args"`
}

// CallReply is the reply from Call. Outcome is "output" unless the sandbox
// produced a diagnostic.
type CallReply struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output"`
}

// Call invokes a method on a contract
func (s *Service) Call(r *http.Request, args *CallArgs, reply *CallReply) error {
	result, err := s.vm.Call(r.Context(), args.Address, args.Method, args.Args)
	if err != nil {
		return err
	}
	reply.Outcome = result.Outcome.String()
	reply.Output = result.String()
	return nil
}

// ExecuteArgs are the arguments to Execute. Input is hex encoded.
type ExecuteArgs struct {
	Address string `json:"address"`
	Input   string `json:"input"`
}

// ExecuteReply is the reply from Execute. Output is hex encoded.
type ExecuteReply struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output"`
}

// Execute runs a raw execution against a contract
func (s *Service) Execute(r *http.Request, args *ExecuteArgs, reply *ExecuteReply) error {
	input, err := formatting.Decode(formatting.Hex, args.Input)
	if err != nil {
		return fmt.Errorf("couldn't decode input: %w", err)
	}
	result, err := s.vm.Execute(r.Context(), args.Address, input)
	if err != nil {
		return err
	}
	reply.Outcome = result.Outcome.String()
	reply.Output, err = formatting.Encode(formatting.Hex, result.Output)
	return err
}

// DepositArgs are the arguments to Deposit
type DepositArgs struct {
	Address string       `json:"address"`
	Amount  cjson.Uint64 `json:"amount"`
}

// Deposit credits a contract's balance
func (s *Service) Deposit(_ *http.Request, args *DepositArgs, _ *api.EmptyReply) error {
	return s.vm.Deposit(args.Address, uint64(args.Amount))
}

// GasUsedReply is the reply from GasUsed
type GasUsedReply struct {
	Used  cjson.Uint64 `json:"used"`
	Limit cjson.Uint64 `json:"limit"`
}

// GasUsed returns the VM's gas consumption so far
func (s *Service) GasUsed(_ *http.Request, _ *struct{}, reply *GasUsedReply) error {
	reply.Used = cjson.Uint64(s.vm.GasUsed())
	reply.Limit = cjson.Uint64(s.vm.GasLimit())
	return nil
}

// GetContractArgs are the arguments to GetContract
type GetContractArgs struct {
	Address string `json:"address"`
}

// GetContractReply is the reply from GetContract
type GetContractReply struct {
	Address string            `json:"address"`
	CodeID  ids.ID            `json:"codeID"`
	Code    string            `json:"code"`    // Code (hex-encoded)
	Storage map[string]string `json:"storage"`
	Balance cjson.Uint64      `json:"balance"`
}

// GetContract gets the contract at [args.Address]
func (s *Service) GetContract(_ *http.Request, args *GetContractArgs, reply *GetContractReply) error {
	contract, err := s.vm.GetContract(args.Address)
	if err != nil {
		return err
	}
	reply.Address = contract.Address
	reply.CodeID = contract.CodeID
	reply.Storage = contract.Storage
	reply.Balance = cjson.Uint64(contract.Balance)
	reply.Code, err = formatting.Encode(formatting.Hex, contract.Code)
	return err
}
