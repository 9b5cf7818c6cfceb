package tokens

import "strings"

// Definition is a hardcoded metadata entry for tokens whose contracts
// misbehave on symbol/name/decimals calls.
type Definition struct {
	Address  string
	Symbol   string
	Name     string
	Decimals int64
}

var staticDefinitions = []Definition{
	{
		Address:  "0x5fac926bf1e638944bb16fb5b787b5ba4bc85b0a",
		Symbol:   "JF",
		Name:     "JFswap Token",
		Decimals: 18,
	},
	{
		Address:  "0xe9e7cea3dedca5984780bafc599bd69add087d56",
		Symbol:   "BUSD",
		Name:     "BUSD Token",
		Decimals: 18,
	},
	{
		Address:  "0x7130d2a12b9bcbfae4f2634d864a1ee1ce3ead9c",
		Symbol:   "BTCB",
		Name:     "BTCB Token",
		Decimals: 18,
	},
	{
		Address:  "0x2170ed0880ac9a755fd29b2688956bd959f933f8",
		Symbol:   "ETH",
		Name:     "Ethereum Token",
		Decimals: 18,
	},
	{
		Address:  "0x55d398326f99059ff775485246999027b3197955",
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 18,
	},
	{
		Address:  "0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3",
		Symbol:   "DAI",
		Name:     "Dai Token",
		Decimals: 18,
	},
}

// StaticDefinition returns the hardcoded definition for an address, if
// one exists. Addresses are compared case-insensitively.
func StaticDefinition(address string) (Definition, bool) {
	address = strings.ToLower(address)
	for _, def := range staticDefinitions {
		if def.Address == address {
			return def, true
		}
	}
	return Definition{}, false
}
