package contracts

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyli-org/explorer/internal/borsh"
	"github.com/hyli-org/explorer/internal/model"
)

func orderbookV2Withdraw(t *testing.T) []byte {
	t.Helper()
	reg := NewRegistry()
	v2, err := reg.Lookup(DomainOrderbook, 2)
	require.NoError(t, err)
	buf, err := borsh.Marshal(v2.Action, borsh.NewEnum(2, "Withdraw", borsh.NewStruct(
		borsh.Named("token", borsh.NewString("HYLLAR")),
		borsh.Named("amount", borsh.NewUint(4, 25)),
	)))
	require.NoError(t, err)
	return buf
}

func TestBlobDecoderRoutesByContractName(t *testing.T) {
	decoder, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{
		ContractMap: map[string]string{"orderbook": "orderbook@2"},
		IncludeRaw:  true,
	})
	require.NoError(t, err)

	assert.True(t, decoder.CanDecode("orderbook"))
	assert.True(t, decoder.CanDecode("crash_game"))
	assert.False(t, decoder.CanDecode("unknown"))

	data := "0x" + hex.EncodeToString(orderbookV2Withdraw(t))
	out, err := decoder.Decode(model.BlobRecord{TxHash: "abc", BlockHeight: 10, BlobIndex: 1, ContractName: "orderbook", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "orderbook", out.Domain)
	assert.Equal(t, 2, out.Version)
	assert.Equal(t, "Withdraw", out.Action)
	assert.Equal(t, "bare", out.Envelope)
	assert.Zero(t, out.FallbackFrom)
	require.NotNil(t, out.Raw)
	assert.Equal(t, data, out.Raw.Data)

	rendered, err := json.Marshal(out.Decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Withdraw":{"token":"HYLLAR","amount":25}}`, string(rendered))
}

func TestBlobDecoderVersionFallback(t *testing.T) {
	data := hex.EncodeToString(orderbookV2Withdraw(t))
	blob := model.BlobRecord{ContractName: "orderbook", Data: data}

	strict, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{})
	require.NoError(t, err)
	out, err := strict.Decode(blob)
	require.NoError(t, err)
	// tag 2 is Deposit in v3 and the payload shape is identical
	assert.Equal(t, "Deposit", out.Action)
	assert.Equal(t, 3, out.Version)

	pinned, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{
		ContractMap:     map[string]string{"orderbook": "orderbook@1"},
		VersionFallback: true,
	})
	require.NoError(t, err)
	out, err = pinned.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Version)
	assert.Equal(t, 1, out.FallbackFrom)

	noFallback, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{
		ContractMap: map[string]string{"orderbook": "orderbook@1"},
	})
	require.NoError(t, err)
	_, err = noFallback.Decode(blob)
	assert.ErrorIs(t, err, borsh.ErrInvalidTag)
}

func TestBlobDecoderRejectsBadConfig(t *testing.T) {
	_, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{ContractMap: map[string]string{"x": "nope"}})
	assert.ErrorIs(t, err, ErrUnknownDomain)

	_, err = NewBlobDecoder(NewRegistry(), BlobDecoderConfig{ContractMap: map[string]string{"x": "wallet@9"}})
	assert.ErrorIs(t, err, ErrUnknownVersion)

	_, err = NewBlobDecoder(NewRegistry(), BlobDecoderConfig{ContractMap: map[string]string{"x": "wallet@abc"}})
	assert.Error(t, err)
}

func TestBlobDecoderBadHex(t *testing.T) {
	decoder, err := NewBlobDecoder(NewRegistry(), BlobDecoderConfig{})
	require.NoError(t, err)
	_, err = decoder.Decode(model.BlobRecord{ContractName: "wallet", Data: "0xabc"})
	assert.Error(t, err)
	_, err = decoder.Decode(model.BlobRecord{ContractName: "missing", Data: "00"})
	assert.Error(t, err)
}
