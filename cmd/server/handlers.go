package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stocktracker/internal/aggregate"
	"stocktracker/internal/instrument"
	"stocktracker/internal/logging"
	"stocktracker/internal/marketclock"
	"stocktracker/internal/provider"
	"stocktracker/internal/stock"
)

// stockService is the part of stock.Service the handlers use.
type stockService interface {
	Query(ctx context.Context, symbol string) (aggregate.Result, error)
	Symbols() []instrument.Instrument
}

// newHandler builds the routed, wrapped API handler.
func newHandler(svc stockService, timeout time.Duration, log *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/stock", onlyGET(handleStock(svc, timeout)))
	mux.HandleFunc("/api/market", onlyGET(handleMarket(time.Now)))
	mux.HandleFunc("/api/symbols", onlyGET(handleSymbols(svc)))

	return withRequestID(withJSONHeaders(withGzip(withAccessLog(log, recoverPanic(log, limitBody(mux))))))
}

func onlyGET(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	aggregate.Result
	Message string `json:"message"`
}

func handleStock(svc stockService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		res, err := svc.Query(ctx, r.URL.Query().Get("symbol"))
		if errors.Is(err, stock.ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Result: res, Message: "missing symbol query param"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Result: aggregate.Failed(r.URL.Query().Get("symbol")), Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type marketResponse struct {
	Open              bool                 `json:"open"`
	MarketState       provider.MarketState `json:"marketState"`
	RefreshIntervalMs int64                `json:"refreshIntervalMs"`
	Time              time.Time            `json:"time"`
}

func handleMarket(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := now()
		writeJSON(w, http.StatusOK, marketResponse{
			Open:              marketclock.IsOpen(t),
			MarketState:       provider.StateAt(t),
			RefreshIntervalMs: marketclock.RefreshIntervalMillis(t),
			Time:              t.In(marketclock.Location),
		})
	}
}

type symbolsResponse struct {
	Symbols []instrument.Instrument `json:"symbols"`
}

func handleSymbols(svc stockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, symbolsResponse{Symbols: svc.Symbols()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
