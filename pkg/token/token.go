package token

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TypeERC20 is the type tag of ERC20 tokens. Swaps refer to token assets by the
// lowercase form of the tag.
const TypeERC20 = "ERC20"

type Token struct {
	Symbol   string `json:"symbol"`
	Type     string `json:"type"`
	Decimals int32  `json:"decimals"`
	Address  string `json:"address"`
}

// SwapAssetName returns the asset name the daemon uses for the token.
func (tok Token) SwapAssetName() string {
	return strings.ToLower(tok.Type)
}

// Registry is an immutable set of known tokens indexed by symbol.
type Registry struct {
	tokens map[string]Token
}

func NewRegistry(tokens ...Token) (*Registry, error) {
	registry := &Registry{tokens: make(map[string]Token, len(tokens))}
	for _, tok := range tokens {
		if tok.Symbol == "" {
			return nil, fmt.Errorf("token with empty symbol")
		}
		if tok.Decimals < 0 {
			return nil, fmt.Errorf("token %v has negative decimals", tok.Symbol)
		}
		if _, ok := registry.tokens[tok.Symbol]; ok {
			return nil, fmt.Errorf("duplicate token %v", tok.Symbol)
		}
		registry.tokens[tok.Symbol] = tok
	}
	return registry, nil
}

// LoadRegistry reads a JSON array of tokens from the given file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("invalid token file %v: %w", path, err)
	}
	return NewRegistry(tokens...)
}

// DefaultRegistry returns the registry of tokens known on ethereum mainnet.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(defaultTokens...)
	if err != nil {
		panic(err)
	}
	return registry
}

// Token returns the token with the given symbol. A nil registry knows no token.
func (registry *Registry) Token(symbol string) (Token, bool) {
	if registry == nil {
		return Token{}, false
	}
	tok, ok := registry.tokens[symbol]
	return tok, ok
}

func (registry *Registry) Len() int {
	if registry == nil {
		return 0
	}
	return len(registry.tokens)
}

var defaultTokens = []Token{
	{Symbol: "PAY", Type: TypeERC20, Decimals: 18, Address: "0xB97048628DB6B661D4C2aA833e95Dbe1A905B280"},
	{Symbol: "DAI", Type: TypeERC20, Decimals: 18, Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"},
	{Symbol: "USDC", Type: TypeERC20, Decimals: 6, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
	{Symbol: "WBTC", Type: TypeERC20, Decimals: 8, Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"},
}
