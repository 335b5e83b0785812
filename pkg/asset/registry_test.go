package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownAsset(t *testing.T) {
	r := Default()

	_, err := r.Resolve("DOGE")
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = r.Normalize("DOGE")
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = r.ToBaseUnits("DOGE", "1")
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	r := Default()

	a, err := r.Resolve("usdc")
	require.NoError(t, err)
	assert.Equal(t, "USDC", a.Symbol)

	a, err = r.Resolve(" near ")
	require.NoError(t, err)
	assert.Equal(t, "NEAR", a.Symbol)
}

func TestNormalize(t *testing.T) {
	r := Default()

	id, err := r.Normalize("NEAR")
	require.NoError(t, err)
	assert.Equal(t, "near", id)

	id, err = r.Normalize("USDC")
	require.NoError(t, err)
	assert.Equal(t, "nep141:a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.factory.bridge.near", id)
}

func TestBridgeAssetID(t *testing.T) {
	r := Default()

	usdc, err := r.Resolve("USDC")
	require.NoError(t, err)
	bridge, err := usdc.BridgeAssetID()
	require.NoError(t, err)
	assert.Equal(t, "eth-0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.omft.near", bridge)

	near, err := r.Resolve("NEAR")
	require.NoError(t, err)
	_, err = near.BridgeAssetID()
	assert.Error(t, err)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Asset{Symbol: "ABC", TokenID: "abc.near", Decimals: 18},
		Asset{Symbol: "abc", TokenID: "other.near", Decimals: 6},
	)
	assert.Error(t, err)
}

func TestNewRegistryValidates(t *testing.T) {
	_, err := NewRegistry(Asset{TokenID: "abc.near", Decimals: 18})
	assert.Error(t, err)

	_, err = NewRegistry(Asset{Symbol: "ABC", Decimals: 18})
	assert.Error(t, err)

	_, err = NewRegistry(Asset{Symbol: "ABC", TokenID: "abc.near", Decimals: -1})
	assert.Error(t, err)
}

func TestSymbolsSorted(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"NEAR", "USDC"}, r.Symbols())
}
