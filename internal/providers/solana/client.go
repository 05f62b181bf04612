package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
)

const (
	// MAX_SIGNATURE_LIMIT is the largest page getSignaturesForAddress accepts
	MAX_SIGNATURE_LIMIT = 1000

	transferInstruction         = "transfer"
	transferWithSeedInstruction = "transferWithSeed"
)

// ErrRPC is returned when the node answers with a JSON-RPC error object
var ErrRPC = errors.New("solana rpc error")

// Client reads collection-address activity from a Solana JSON-RPC node
//
//go:generate mockgen -source=client.go -destination=../../mocks/solana_client.go -package=mocks -mock_names=Client=MockSolanaClient
type Client interface {
	// ListRecentSignatures returns the newest signatures touching address, newest first
	ListRecentSignatures(ctx context.Context, address string, limit int) ([]domain.SignatureInfo, error)

	// GetTransferDetail returns the native transfers of a transaction.
	// It returns nil when the node does not know the transaction yet.
	GetTransferDetail(ctx context.Context, signature string) (*domain.TransferDetail, error)
}

// Config holds the RPC connection settings
type Config struct {
	RPCURL     string
	Commitment string
}

type rpcClient struct {
	config     Config
	httpClient adapter.HTTPClient
	json       adapter.JSON
	nextID     atomic.Uint64
}

// NewClient creates a JSON-RPC client
func NewClient(config Config, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) Client {
	return &rpcClient{
		config:     config,
		httpClient: httpClient,
		json:       jsonAdapter,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type signatureResult struct {
	Signature string          `json:"signature"`
	Slot      uint64          `json:"slot"`
	Err       json.RawMessage `json:"err"`
	BlockTime *int64          `json:"blockTime"`
}

type parsedInstruction struct {
	Program   string          `json:"program"`
	ProgramID string          `json:"programId"`
	Parsed    json.RawMessage `json:"parsed"`
}

type parsedTransfer struct {
	Type string `json:"type"`
	Info struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Lamports    uint64 `json:"lamports"`
	} `json:"info"`
}

type transactionResult struct {
	Slot      uint64 `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err               json.RawMessage `json:"err"`
		InnerInstructions []struct {
			Index        int                 `json:"index"`
			Instructions []parsedInstruction `json:"instructions"`
		} `json:"innerInstructions"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			Instructions []parsedInstruction `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

// call performs one JSON-RPC request and decodes the result into out
func (c *rpcClient) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := c.json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	respBody, err := c.httpClient.PostJSON(ctx, c.config.RPCURL, body)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}

	var resp rpcResponse
	if err := c.json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: %s: %d %s", ErrRPC, method, resp.Error.Code, resp.Error.Message)
	}

	if err := c.json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}

	return nil
}

// ListRecentSignatures calls getSignaturesForAddress
func (c *rpcClient) ListRecentSignatures(ctx context.Context, address string, limit int) ([]domain.SignatureInfo, error) {
	limit = min(max(limit, 1), MAX_SIGNATURE_LIMIT)

	opts := map[string]interface{}{"limit": limit}
	if c.config.Commitment != "" {
		opts["commitment"] = c.config.Commitment
	}

	var results []signatureResult
	if err := c.call(ctx, "getSignaturesForAddress", []interface{}{address, opts}, &results); err != nil {
		return nil, err
	}

	infos := make([]domain.SignatureInfo, 0, len(results))
	for _, r := range results {
		infos = append(infos, domain.SignatureInfo{
			Signature: r.Signature,
			Slot:      r.Slot,
			BlockTime: unixTime(r.BlockTime),
			Failed:    isPresent(r.Err),
		})
	}

	return infos, nil
}

// GetTransferDetail calls getTransaction with jsonParsed encoding
func (c *rpcClient) GetTransferDetail(ctx context.Context, signature string) (*domain.TransferDetail, error) {
	opts := map[string]interface{}{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	}
	if c.config.Commitment != "" {
		opts["commitment"] = c.config.Commitment
	}

	var tx *transactionResult
	if err := c.call(ctx, "getTransaction", []interface{}{signature, opts}, &tx); err != nil {
		return nil, err
	}
	if tx == nil {
		logger.DebugCtx(ctx, "Transaction not available yet", zap.String("signature", signature))
		return nil, nil
	}

	detail := &domain.TransferDetail{
		Signature: signature,
		Success:   tx.Meta != nil && !isPresent(tx.Meta.Err),
		BlockTime: unixTime(tx.BlockTime),
	}

	detail.Transfers = append(detail.Transfers, extractTransfers(tx.Transaction.Message.Instructions)...)
	if tx.Meta != nil {
		for _, inner := range tx.Meta.InnerInstructions {
			detail.Transfers = append(detail.Transfers, extractTransfers(inner.Instructions)...)
		}
	}

	return detail, nil
}

// extractTransfers keeps the native SOL transfers issued by the system program
func extractTransfers(instructions []parsedInstruction) []domain.Transfer {
	var transfers []domain.Transfer
	for _, ix := range instructions {
		if ix.ProgramID != domain.SYSTEM_PROGRAM_ID || len(ix.Parsed) == 0 {
			continue
		}

		// parsed is a plain string for instructions the node cannot decode
		var parsed parsedTransfer
		if err := json.Unmarshal(ix.Parsed, &parsed); err != nil {
			continue
		}
		if parsed.Type != transferInstruction && parsed.Type != transferWithSeedInstruction {
			continue
		}

		transfers = append(transfers, domain.Transfer{
			Source:      parsed.Info.Source,
			Destination: parsed.Info.Destination,
			Lamports:    parsed.Info.Lamports,
		})
	}
	return transfers
}

func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}

// isPresent reports whether an optional JSON field carries a non-null value
func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
