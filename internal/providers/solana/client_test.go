package solana_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/mocks"
	"github.com/solspace/solspace-backend/internal/providers/solana"
)

const (
	testRPCURL     = "https://rpc.test"
	testCollection = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	testSender     = "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupClient(t *testing.T) (*mocks.MockHTTPClient, solana.Client) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := solana.NewClient(solana.Config{RPCURL: testRPCURL, Commitment: "confirmed"}, httpClient, adapter.NewJSON())
	return httpClient, client
}

// decodeRequest asserts the JSON-RPC envelope and returns its params
func decodeRequest(t *testing.T, body []byte, method string) []json.RawMessage {
	var req struct {
		JSONRPC string            `json:"jsonrpc"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
	}
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "2.0", req.JSONRPC)
	assert.Equal(t, method, req.Method)
	return req.Params
}

func TestListRecentSignatures(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body []byte) ([]byte, error) {
			params := decodeRequest(t, body, "getSignaturesForAddress")
			require.Len(t, params, 2)

			var address string
			require.NoError(t, json.Unmarshal(params[0], &address))
			assert.Equal(t, testCollection, address)

			var opts map[string]interface{}
			require.NoError(t, json.Unmarshal(params[1], &opts))
			assert.Equal(t, float64(25), opts["limit"])
			assert.Equal(t, "confirmed", opts["commitment"])

			return []byte(`{"jsonrpc":"2.0","id":1,"result":[
				{"signature":"sig-ok","slot":100,"err":null,"blockTime":1760000000},
				{"signature":"sig-failed","slot":99,"err":{"InstructionError":[0,"Custom"]},"blockTime":null}
			]}`), nil
		})

	infos, err := client.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "sig-ok", infos[0].Signature)
	assert.Equal(t, uint64(100), infos[0].Slot)
	assert.False(t, infos[0].Failed)
	require.NotNil(t, infos[0].BlockTime)
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), *infos[0].BlockTime)

	assert.True(t, infos[1].Failed)
	assert.Nil(t, infos[1].BlockTime)
}

func TestListRecentSignatures_ClampsLimit(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body []byte) ([]byte, error) {
			params := decodeRequest(t, body, "getSignaturesForAddress")
			var opts map[string]interface{}
			require.NoError(t, json.Unmarshal(params[1], &opts))
			assert.Equal(t, float64(solana.MAX_SIGNATURE_LIMIT), opts["limit"])
			return []byte(`{"jsonrpc":"2.0","id":1,"result":[]}`), nil
		})

	infos, err := client.ListRecentSignatures(ctx, testCollection, 5000)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListRecentSignatures_RPCError(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		Return([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32005,"message":"node is behind"}}`), nil)

	_, err := client.ListRecentSignatures(ctx, testCollection, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, solana.ErrRPC)
	assert.Contains(t, err.Error(), "node is behind")
}

func TestListRecentSignatures_TransportError(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	transportErr := errors.New("connection refused")
	httpClient.EXPECT().PostJSON(ctx, testRPCURL, gomock.Any()).Return(nil, transportErr)

	_, err := client.ListRecentSignatures(ctx, testCollection, 10)
	assert.ErrorIs(t, err, transportErr)
}

func TestGetTransferDetail(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body []byte) ([]byte, error) {
			params := decodeRequest(t, body, "getTransaction")
			var opts map[string]interface{}
			require.NoError(t, json.Unmarshal(params[1], &opts))
			assert.Equal(t, "jsonParsed", opts["encoding"])
			assert.Equal(t, float64(0), opts["maxSupportedTransactionVersion"])

			return []byte(`{"jsonrpc":"2.0","id":1,"result":{
				"slot":100,
				"blockTime":1760000000,
				"meta":{"err":null,"innerInstructions":[
					{"index":1,"instructions":[
						{"program":"system","programId":"11111111111111111111111111111111",
						 "parsed":{"type":"transfer","info":{"source":"` + testSender + `","destination":"` + testCollection + `","lamports":2000000}}}
					]}
				]},
				"transaction":{"message":{"instructions":[
					{"program":"system","programId":"11111111111111111111111111111111",
					 "parsed":{"type":"transfer","info":{"source":"` + testSender + `","destination":"` + testCollection + `","lamports":5000000}}},
					{"program":"system","programId":"11111111111111111111111111111111",
					 "parsed":{"type":"createAccount","info":{"source":"` + testSender + `","newAccount":"x","lamports":1}}},
					{"program":"spl-memo","programId":"MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr","parsed":"hello"},
					{"programId":"ComputeBudget111111111111111111111111111111","accounts":[],"data":"3DTZbgwsozUF"}
				]}}
			}}`), nil
		})

	detail, err := client.GetTransferDetail(ctx, "sig-ok")
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "sig-ok", detail.Signature)
	assert.True(t, detail.Success)
	require.NotNil(t, detail.BlockTime)
	assert.Equal(t, []domain.Transfer{
		{Source: testSender, Destination: testCollection, Lamports: 5_000_000},
		{Source: testSender, Destination: testCollection, Lamports: 2_000_000},
	}, detail.Transfers)
}

func TestGetTransferDetail_FailedTransaction(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		Return([]byte(`{"jsonrpc":"2.0","id":1,"result":{
			"slot":5,"blockTime":null,
			"meta":{"err":{"InstructionError":[0,{"Custom":1}]},"innerInstructions":[]},
			"transaction":{"message":{"instructions":[]}}
		}}`), nil)

	detail, err := client.GetTransferDetail(ctx, "sig-failed")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.False(t, detail.Success)
	assert.Nil(t, detail.BlockTime)
	assert.Empty(t, detail.Transfers)
}

func TestGetTransferDetail_Unknown(t *testing.T) {
	httpClient, client := setupClient(t)
	ctx := context.Background()

	httpClient.EXPECT().
		PostJSON(ctx, testRPCURL, gomock.Any()).
		Return([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`), nil)

	detail, err := client.GetTransferDetail(ctx, "sig-pending")
	require.NoError(t, err)
	assert.Nil(t, detail)
}
