package domain

// CurrencyKind partitions the supported currency set.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "FIAT"
	Crypto CurrencyKind = "CRYPTO"
)

// BaseCurrencyCode is the currency in which all cached rates are quoted
// and in which portfolio valuations and trade costs are expressed.
const BaseCurrencyCode = "USD"

// Currency describes one member of the closed set of supported currencies.
// Instances only come from the package registry; currency codes arriving
// from the outside must pass through LookupCurrency.
type Currency struct {
	Code      string       `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name      string       `json:"name"`         // e.g., "US Dollar"
	Kind      CurrencyKind `json:"kind"`
	Precision int          `json:"precision"` // display decimals

	// Fiat metadata.
	IssuingCountry string `json:"issuingCountry,omitempty"`

	// Crypto metadata.
	Algorithm   string  `json:"algorithm,omitempty"`
	MarketCap   float64 `json:"marketCap,omitempty"`
	CoinGeckoID string  `json:"-"` // provider identifier, not part of the API surface
}

// currencyRegistry is the closed set of currencies the system accepts.
// Adding a currency means adding one entry here; nothing else changes.
var currencyRegistry = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Kind: Fiat, Precision: 2, IssuingCountry: "United States"},
	"EUR": {Code: "EUR", Name: "Euro", Kind: Fiat, Precision: 2, IssuingCountry: "Eurozone"},
	"GBP": {Code: "GBP", Name: "Pound Sterling", Kind: Fiat, Precision: 2, IssuingCountry: "United Kingdom"},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Kind: Fiat, Precision: 2, IssuingCountry: "Russia"},
	"CNY": {Code: "CNY", Name: "Renminbi", Kind: Fiat, Precision: 2, IssuingCountry: "China"},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Kind: Fiat, Precision: 0, IssuingCountry: "Japan"},
	"AED": {Code: "AED", Name: "UAE Dirham", Kind: Fiat, Precision: 2, IssuingCountry: "United Arab Emirates"},
	"BTC": {Code: "BTC", Name: "Bitcoin", Kind: Crypto, Precision: 8, Algorithm: "SHA-256", MarketCap: 1.12e12, CoinGeckoID: "bitcoin"},
	"ETH": {Code: "ETH", Name: "Ethereum", Kind: Crypto, Precision: 18, Algorithm: "Ethash", MarketCap: 4.5e11, CoinGeckoID: "ethereum"},
	"SOL": {Code: "SOL", Name: "Solana", Kind: Crypto, Precision: 9, Algorithm: "PoH", MarketCap: 6.5e10, CoinGeckoID: "solana"},
}

// LookupCurrency returns the registry entry for code. The second return
// value is false when the code is not in the supported set.
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencyRegistry[code]
	return c, ok
}

// Currencies returns every supported currency, base currency first, then
// fiat before crypto, alphabetical within each group.
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencyRegistry))
	out = append(out, currencyRegistry[BaseCurrencyCode])
	for _, kind := range []CurrencyKind{Fiat, Crypto} {
		for _, code := range registryOrder {
			c := currencyRegistry[code]
			if c.Kind == kind && c.Code != BaseCurrencyCode {
				out = append(out, c)
			}
		}
	}
	return out
}

// CurrenciesOfKind returns the supported currencies of one kind,
// excluding the base currency (its rate is pinned, never fetched).
func CurrenciesOfKind(kind CurrencyKind) []Currency {
	var out []Currency
	for _, code := range registryOrder {
		c := currencyRegistry[code]
		if c.Kind == kind && c.Code != BaseCurrencyCode {
			out = append(out, c)
		}
	}
	return out
}

var registryOrder = []string{"AED", "CNY", "EUR", "GBP", "JPY", "RUB", "USD", "BTC", "ETH", "SOL"}
