// Package instrument maps the symbols the tracker understands to the
// identifiers upstream providers need.
package instrument

import (
	"strconv"
	"strings"
)

// Kind groups instruments for display.
type Kind string

const (
	KindIndex Kind = "index"
	KindStock Kind = "stock"
)

// Instrument is an immutable registry entry. Token is the broker instrument
// token; zero means the broker has no data for it.
type Instrument struct {
	Symbol string `json:"symbol"`
	Key    string `json:"key"`
	Label  string `json:"label,omitempty"`
	Kind   Kind   `json:"kind,omitempty"`
	Token  uint32 `json:"token,omitempty"`
}

// HasToken reports whether the broker can serve this instrument.
func (i Instrument) HasToken() bool { return i.Token != 0 }

// TokenString is the token in the form the broker quote endpoint expects.
func (i Instrument) TokenString() string {
	if i.Token == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(i.Token), 10)
}

// Registry is a read-only symbol table. The zero value is empty; use Default.
type Registry struct {
	byKey map[string]Instrument
	order []string
}

var defaultTable = []Instrument{
	{Symbol: "^NSEI", Key: "NSEI", Label: "Nifty 50", Kind: KindIndex, Token: 256265},
	{Symbol: "^BSESN", Key: "BSESN", Label: "BSE Sensex", Kind: KindIndex, Token: 265},
	{Symbol: "^NSEBANK", Key: "NSEBANK", Label: "Bank Nifty", Kind: KindIndex, Token: 260105},
	// TODO: CNXIT shares the Bank Nifty token in the upstream table; confirm against the broker instrument dump.
	{Symbol: "^CNXIT", Key: "CNXIT", Label: "Nifty IT", Kind: KindIndex, Token: 260105},
	{Symbol: "RELIANCE.NS", Key: "RELIANCE", Label: "Reliance Industries", Kind: KindStock, Token: 738561},
	{Symbol: "TCS.NS", Key: "TCS", Label: "TCS", Kind: KindStock, Token: 2953217},
	{Symbol: "HDFCBANK.NS", Key: "HDFCBANK", Label: "HDFC Bank", Kind: KindStock, Token: 341249},
	{Symbol: "INFY.NS", Key: "INFY", Label: "Infosys", Kind: KindStock, Token: 408065},
}

// Default returns the registry of supported NSE/BSE instruments.
func Default() *Registry {
	return New(defaultTable)
}

// New builds a registry from a table. Later duplicates of a key win.
func New(table []Instrument) *Registry {
	r := &Registry{byKey: make(map[string]Instrument, len(table))}
	for _, in := range table {
		key := in.Key
		if key == "" {
			key = Normalize(in.Symbol)
		}
		in.Key = key
		if _, dup := r.byKey[key]; !dup {
			r.order = append(r.order, key)
		}
		r.byKey[key] = in
	}
	return r
}

// Lookup never fails: unknown symbols come back without a token and with the
// requested symbol, so the public API providers can still try them. Their key
// is the upper-cased symbol itself, since "X.NS" and "X.BO" are different
// listings.
func (r *Registry) Lookup(symbol string) Instrument {
	sym := strings.TrimSpace(symbol)
	if in, ok := r.byKey[Normalize(sym)]; ok {
		return in
	}
	return Instrument{Symbol: sym, Key: strings.ToUpper(sym)}
}

// All lists registered instruments in table order.
func (r *Registry) All() []Instrument {
	out := make([]Instrument, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

// Normalize reduces a display symbol to its registry key:
// "^NSEI" -> "NSEI", "reliance.ns" -> "RELIANCE".
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimPrefix(s, "^")
	for _, suffix := range []string{".NS", ".BO"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}
