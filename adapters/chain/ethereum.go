package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/certmint/certmint/ports"
)

// transferTopic is the ERC-721 Transfer event signature; mints emit a
// Transfer from the zero address carrying the token id in the third topic.
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// EthereumClient deploys certificate contracts and mints tokens through a
// JSON-RPC node. The contract ABI and creation bytecode are operator-supplied
// configuration.
type EthereumClient struct {
	client   *ethclient.Client
	key      *ecdsa.PrivateKey
	chainID  *big.Int
	abi      abi.ABI
	bytecode []byte
}

// NewEthereumClient dials the RPC node and prepares the deployer account.
func NewEthereumClient(rpcURL, deployerKeyHex string, chainID int64, abiJSON, bytecodeHex string) (*EthereumClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc node: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(deployerKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer key: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid contract abi: %w", err)
	}

	return &EthereumClient{
		client:   client,
		key:      key,
		chainID:  big.NewInt(chainID),
		abi:      parsedABI,
		bytecode: common.FromHex(bytecodeHex),
	}, nil
}

// Deploy deploys a certificate contract named after the company and waits
// for the deployment transaction to be mined.
func (e *EthereumClient) Deploy(ctx context.Context, companyName string) (string, string, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(e.key, e.chainID)
	if err != nil {
		return "", "", fmt.Errorf("failed to build transactor: %w", err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, e.abi, e.bytecode, e.client, companyName)
	if err != nil {
		return "", "", fmt.Errorf("contract deployment failed: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return "", "", fmt.Errorf("deployment not mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", "", fmt.Errorf("deployment transaction reverted: %s", tx.Hash().Hex())
	}

	return address.Hex(), tx.Hash().Hex(), nil
}

// Mint mints a certificate token to recipient with the given token URI and
// returns the token id parsed from the Transfer event.
func (e *EthereumClient) Mint(ctx context.Context, contractAddress, recipient, tokenURI string) (*ports.MintResult, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(e.key, e.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}
	opts.Context = ctx

	contract := bind.NewBoundContract(common.HexToAddress(contractAddress), e.abi, e.client, e.client, e.client)

	tx, err := contract.Transact(opts, "mintCertificate", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return nil, fmt.Errorf("mint transaction failed: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return nil, fmt.Errorf("mint not mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("mint transaction reverted: %s", tx.Hash().Hex())
	}

	tokenID, err := tokenIDFromReceipt(receipt)
	if err != nil {
		return nil, err
	}

	return &ports.MintResult{
		TokenID: tokenID.String(),
		TxHash:  tx.Hash().Hex(),
	}, nil
}

func tokenIDFromReceipt(receipt *types.Receipt) (*big.Int, error) {
	for _, l := range receipt.Logs {
		if len(l.Topics) == 4 && l.Topics[0] == transferTopic {
			return new(big.Int).SetBytes(l.Topics[3].Bytes()), nil
		}
	}
	return nil, fmt.Errorf("no transfer event in receipt %s", receipt.TxHash.Hex())
}

// Close releases the underlying RPC connection.
func (e *EthereumClient) Close() {
	e.client.Close()
}
