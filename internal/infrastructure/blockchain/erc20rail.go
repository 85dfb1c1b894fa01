package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"lastbite/internal/application/payment/chainrail"
	sharedConfig "lastbite/internal/shared/config"
	"lastbite/internal/shared/logger"
)

const (
	// Fixed gas limit for ERC-20 transfers; USDT transfers stay well below.
	transferGasLimit = uint64(100_000)

	confirmationPollInterval = 5 * time.Second
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

var transferEventSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// ERC20Rail implements the stablecoin port against an Ethereum JSON-RPC
// node. Inbound verification reads Transfer logs off receipts; outbound
// payouts are signed with the platform key.
type ERC20Rail struct {
	client          *ethclient.Client
	erc20ABI        abi.ABI
	tokenAddress    common.Address
	platformAddress common.Address
	privateKey      *ecdsa.PrivateKey
	chainID         *big.Int
	logger          logger.Interface
}

var _ chainrail.Rail = (*ERC20Rail)(nil)

func NewERC20Rail(cfg *sharedConfig.TetherConfig, logger logger.Interface) (*ERC20Rail, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC node: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}

	if !common.IsHexAddress(cfg.TokenContract) {
		return nil, fmt.Errorf("invalid token contract address: %s", cfg.TokenContract)
	}
	if !common.IsHexAddress(cfg.PlatformAddress) {
		return nil, fmt.Errorf("invalid platform address: %s", cfg.PlatformAddress)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PlatformPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid platform private key: %w", err)
	}

	return &ERC20Rail{
		client:          client,
		erc20ABI:        parsedABI,
		tokenAddress:    common.HexToAddress(cfg.TokenContract),
		platformAddress: common.HexToAddress(cfg.PlatformAddress),
		privateKey:      privateKey,
		chainID:         big.NewInt(cfg.ChainID),
		logger:          logger,
	}, nil
}

func (r *ERC20Rail) GeneratePaymentRequest(_ context.Context, amountRaw uint64) (*chainrail.PaymentRequestInfo, error) {
	if amountRaw == 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return &chainrail.PaymentRequestInfo{
		ReceivingAddress: r.platformAddress.Hex(),
		AmountRaw:        amountRaw,
	}, nil
}

func (r *ERC20Rail) VerifyPayment(ctx context.Context, params chainrail.VerifyParams) (*chainrail.VerifyResult, error) {
	if !common.IsHexAddress(params.RecipientAddress) {
		return nil, fmt.Errorf("invalid recipient address: %s", params.RecipientAddress)
	}

	txHash := common.HexToHash(params.TxHash)
	receipt, err := r.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, chainrail.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction reverted on-chain")
	}

	transfer, err := r.findTokenTransfer(receipt, common.HexToAddress(params.RecipientAddress))
	if err != nil {
		return nil, err
	}

	if !chainrail.AmountWithinTolerance(params.ExpectedRaw, transfer.amountRaw) {
		return nil, chainrail.ErrAmountMismatch(params.ExpectedRaw, transfer.amountRaw)
	}

	confirmations, err := r.confirmations(ctx, receipt)
	if err != nil {
		return nil, err
	}
	if confirmations < params.MinConfirmations {
		return nil, fmt.Errorf("%w: %d of %d", chainrail.ErrInsufficientConfirmations, confirmations, params.MinConfirmations)
	}

	return &chainrail.VerifyResult{
		TxHash:        params.TxHash,
		SenderAddress: transfer.sender.Hex(),
		AmountRaw:     transfer.amountRaw,
		BlockNumber:   receipt.BlockNumber.Uint64(),
		Confirmations: confirmations,
	}, nil
}

type tokenTransfer struct {
	sender    common.Address
	amountRaw uint64
}

// findTokenTransfer picks the Transfer log on the configured token contract
// that pays the expected recipient.
func (r *ERC20Rail) findTokenTransfer(receipt *types.Receipt, recipient common.Address) (*tokenTransfer, error) {
	for _, logEntry := range receipt.Logs {
		if logEntry.Address != r.tokenAddress {
			continue
		}
		if len(logEntry.Topics) != 3 || logEntry.Topics[0] != transferEventSig {
			continue
		}
		to := common.BytesToAddress(logEntry.Topics[2].Bytes())
		if to != recipient {
			continue
		}
		amount := new(big.Int).SetBytes(logEntry.Data)
		if !amount.IsUint64() {
			return nil, fmt.Errorf("transfer amount out of range")
		}
		return &tokenTransfer{
			sender:    common.BytesToAddress(logEntry.Topics[1].Bytes()),
			amountRaw: amount.Uint64(),
		}, nil
	}
	return nil, fmt.Errorf("no token transfer to %s found in transaction", recipient.Hex())
}

func (r *ERC20Rail) confirmations(ctx context.Context, receipt *types.Receipt) (uint64, error) {
	head, err := r.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch chain head: %w", err)
	}
	mined := receipt.BlockNumber.Uint64()
	if head < mined {
		return 0, nil
	}
	return head - mined, nil
}

func (r *ERC20Rail) TransferFromPlatform(ctx context.Context, toAddress string, amountRaw uint64) (string, error) {
	if !common.IsHexAddress(toAddress) {
		return "", fmt.Errorf("invalid destination address: %s", toAddress)
	}
	to := common.HexToAddress(toAddress)
	amount := new(big.Int).SetUint64(amountRaw)

	balance, err := r.tokenBalance(ctx, r.platformAddress)
	if err != nil {
		return "", err
	}
	if balance.Cmp(amount) < 0 {
		return "", fmt.Errorf("insufficient platform balance: have %s raw units, need %d", balance.String(), amountRaw)
	}

	calldata, err := r.erc20ABI.Pack("transfer", to, amount)
	if err != nil {
		return "", fmt.Errorf("failed to encode transfer: %w", err)
	}

	nonce, err := r.client.PendingNonceAt(ctx, r.platformAddress)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &r.tokenAddress,
		Value:    big.NewInt(0),
		Gas:      transferGasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(r.chainID), r.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	txHash := signed.Hash().Hex()
	r.logger.Infow("payout transfer broadcast", "tx_hash", txHash, "to", toAddress, "amount_raw", amountRaw)

	if err := r.WaitForConfirmations(ctx, txHash, 1); err != nil {
		return "", fmt.Errorf("transfer %s did not confirm: %w", txHash, err)
	}

	receipt, err := r.client.TransactionReceipt(ctx, signed.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to fetch transfer receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("payout transaction %s reverted", txHash)
	}
	return txHash, nil
}

func (r *ERC20Rail) WaitForConfirmations(ctx context.Context, txHash string, n uint64) error {
	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(confirmationPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.client.TransactionReceipt(ctx, hash)
		if err == nil {
			confirmations, cerr := r.confirmations(ctx, receipt)
			if cerr == nil && confirmations >= n {
				return nil
			}
		} else if !errors.Is(err, ethereum.NotFound) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *ERC20Rail) tokenBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	calldata, err := r.erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to encode balanceOf: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.tokenAddress,
		Data: calldata,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("balance query failed: %w", err)
	}

	values, err := r.erc20ABI.Unpack("balanceOf", result)
	if err != nil || len(values) != 1 {
		return nil, fmt.Errorf("failed to decode balance: %w", err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balance type")
	}
	return balance, nil
}
