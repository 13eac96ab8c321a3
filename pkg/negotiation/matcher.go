package negotiation

import (
	"strings"

	"github.com/catalogfi/comitkit/pkg/cnd"
	"github.com/catalogfi/comitkit/pkg/token"
	"github.com/catalogfi/comitkit/pkg/unit"
)

// Matcher compares orders with the swaps the daemon reports. Assets that are
// not native to their ledger are looked up in the token registry.
type Matcher struct {
	registry *token.Registry
}

func NewMatcher(registry *token.Registry) *Matcher {
	if registry == nil {
		registry = token.DefaultRegistry()
	}
	return &Matcher{registry: registry}
}

// IsNative reports whether the asset is the native coin of its ledger.
func IsNative(asset OrderAsset) bool {
	return (asset.Ledger == LedgerBitcoin && asset.Asset == unit.Bitcoin) ||
		(asset.Ledger == LedgerEthereum && asset.Asset == unit.Ether)
}

// OrderMatchesSwapProperties reports whether the swap moves exactly the
// assets of the order. The ask is expected on the alpha side and the bid on
// the beta side.
func (matcher *Matcher) OrderMatchesSwapProperties(order Order, props cnd.SwapProperties) bool {
	params := props.Parameters
	return matcher.assetMatchesSwap(order.Ask, params.AlphaAsset, params.AlphaLedger) &&
		matcher.assetMatchesSwap(order.Bid, params.BetaAsset, params.BetaLedger)
}

// AssetToSwap converts an order asset into the base unit asset of a swap
// request.
func (matcher *Matcher) AssetToSwap(asset OrderAsset) (cnd.Asset, bool) {
	if IsNative(asset) {
		quantity, ok := unit.FromNominal(asset.Asset, asset.NominalAmount, nil)
		if !ok {
			return cnd.Asset{}, false
		}
		return cnd.Asset{Name: asset.Asset, Quantity: quantity.String()}, true
	}

	tok, ok := matcher.token(asset)
	if !ok {
		return cnd.Asset{}, false
	}
	quantity, ok := unit.FromNominal(asset.Asset, asset.NominalAmount, &tok)
	if !ok {
		return cnd.Asset{}, false
	}
	return cnd.Asset{
		Name:          tok.SwapAssetName(),
		Quantity:      quantity.String(),
		TokenContract: tok.Address,
	}, true
}

func (matcher *Matcher) assetMatchesSwap(asset OrderAsset, swapAsset cnd.Asset, ledger cnd.Ledger) bool {
	if asset.Ledger != ledger.Name {
		return false
	}
	if IsNative(asset) {
		if swapAsset.Name != asset.Asset {
			return false
		}
	} else {
		tok, ok := matcher.token(asset)
		if !ok {
			return false
		}
		if !strings.EqualFold(swapAsset.Name, tok.Type) || !strings.EqualFold(swapAsset.TokenContract, tok.Address) {
			return false
		}
	}

	expected, ok := matcher.AssetToSwap(asset)
	if !ok {
		return false
	}
	want, _ := expected.QuantityInt()
	actual, ok := swapAsset.QuantityInt()
	return ok && want != nil && actual.Cmp(want) == 0
}

// token returns the registry entry of an asset. Tokens only live on ethereum.
func (matcher *Matcher) token(asset OrderAsset) (token.Token, bool) {
	if asset.Ledger != LedgerEthereum {
		return token.Token{}, false
	}
	return matcher.registry.Token(asset.Asset)
}
