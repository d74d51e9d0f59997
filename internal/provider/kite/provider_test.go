package kite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stocktracker/internal/instrument"
	"stocktracker/internal/marketclock"
	"stocktracker/internal/provider"
	"stocktracker/internal/provider/kite"
)

var openSession = time.Date(2025, 3, 5, 10, 0, 0, 0, marketclock.Location)

func TestProvider_FetchQuote(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock session
	session := NewMockSession(ctrl)

	// Assert: the token is the lookup key
	session.EXPECT().
		GetQuote(gomock.Any(), "256265").
		DoAndReturn(func(ctx context.Context, _ ...string) (map[string]kite.QuoteData, error) {
			_, ok := ctx.Deadline()
			require.True(t, ok)
			return map[string]kite.QuoteData{
				"256265": {LastPrice: 22150.355, Volume: 12, OHLC: kite.OHLC{High: 22200.5, Low: 21980.1, Close: 22000}},
			}, nil
		}).
		Times(1)

	p := kite.NewProvider(session, kite.WithClock(func() time.Time { return openSession }))

	// Act
	q, err := p.FetchQuote(t.Context(), instrument.Default().Lookup("^NSEI"))
	require.NoError(t, err)

	// Assert
	require.Equal(t, "kite", p.Name())
	require.Equal(t, 22150.36, q.Price)
	require.Equal(t, 22000.0, q.PreviousClose)
	require.Equal(t, 150.36, q.Change)
	require.Equal(t, 0.68, q.ChangePercent)
	require.Equal(t, 22200.5, q.DayHigh)
	require.Equal(t, 21980.1, q.DayLow)
	require.Equal(t, int64(12), q.Volume)
	require.Equal(t, provider.StateRegular, q.MarketState)
	require.Equal(t, "INR", q.Currency)
	require.Equal(t, "^NSEI", q.Symbol)
}

func TestProvider_FetchQuote_NoToken(t *testing.T) {
	t.Parallel()

	// Arrange: unknown symbols never reach the broker
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)
	session.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Times(0)

	p := kite.NewProvider(session)

	// Act
	_, err := p.FetchQuote(t.Context(), instrument.Default().Lookup("WIPRO.NS"))

	// Assert
	require.Equal(t, provider.KindUnavailable, provider.KindOf(err))
}

func TestProvider_FetchQuote_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		quotes map[string]kite.QuoteData
		err    error
		kind   provider.Kind
	}{
		{name: "api error", err: &kite.APIError{StatusCode: 403, ErrorType: "TokenException"}, kind: provider.KindUnavailable},
		{name: "deadline", err: fmt.Errorf("performing request: %w", context.DeadlineExceeded), kind: provider.KindTimeout},
		{name: "malformed", err: fmt.Errorf("%w: eof", kite.ErrMalformedResponse), kind: provider.KindMalformed},
		{name: "missing entry", quotes: map[string]kite.QuoteData{}, kind: provider.KindMalformed},
		{name: "zero price", quotes: map[string]kite.QuoteData{"256265": {OHLC: kite.OHLC{Close: 10}}}, kind: provider.KindMalformed},
		{name: "zero close", quotes: map[string]kite.QuoteData{"256265": {LastPrice: 10}}, kind: provider.KindMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			ctrl := gomock.NewController(t)
			session := NewMockSession(ctrl)
			session.EXPECT().GetQuote(gomock.Any(), "256265").Return(tc.quotes, tc.err).Times(1)

			// Act
			_, err := kite.NewProvider(session).FetchQuote(t.Context(), instrument.Default().Lookup("^NSEI"))

			// Assert
			var fe *provider.FetchError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, "kite", fe.Provider)
			require.Equal(t, tc.kind, fe.Kind)
		})
	}
}

func TestProvider_FetchQuote_TokenRejected(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)
	rejected := &kite.APIError{StatusCode: 403, ErrorType: "TokenException", Message: "Incorrect api_key or access_token."}
	session.EXPECT().GetQuote(gomock.Any(), "256265").Return(nil, rejected).Times(1)

	// Act
	_, err := kite.NewProvider(session).FetchQuote(t.Context(), instrument.Default().Lookup("^NSEI"))

	// Assert: the broker error survives and carries a renewal hint
	require.Equal(t, provider.KindUnavailable, provider.KindOf(err))
	require.ErrorIs(t, err, rejected)
	require.ErrorContains(t, err, "renew KITE_ACCESS_TOKEN")
}

func TestProvider_FetchSeries_DefaultWindow(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock session
	session := NewMockSession(ctrl)

	// Assert: a zero window becomes five years back from now
	session.EXPECT().
		GetHistoricalData(gomock.Any(), uint32(738561), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint32, from, to time.Time) ([]kite.Candle, error) {
			require.True(t, to.Equal(openSession))
			require.True(t, from.Equal(openSession.AddDate(-5, 0, 0)))
			return []kite.Candle{
				{Date: time.Date(2024, 7, 8, 0, 0, 0, 0, marketclock.Location), Close: 3200, Volume: 100},
				{Date: time.Date(2024, 7, 9, 0, 0, 0, 0, marketclock.Location), Close: 3150, Volume: 0},
			}, nil
		}).
		Times(1)

	p := kite.NewProvider(session, kite.WithClock(func() time.Time { return openSession }))

	// Act
	bars, err := p.FetchSeries(t.Context(), instrument.Default().Lookup("RELIANCE.NS"), time.Time{}, time.Time{})
	require.NoError(t, err)

	// Assert
	require.Len(t, bars, 2)
	require.NotNil(t, bars[0].Close)
	require.Equal(t, 3200.0, *bars[0].Close)
	require.Equal(t, int64(0), bars[1].Volume)
	require.Equal(t, time.UTC, bars[0].Date.Location())
}

func TestProvider_FetchSeries_LookbackOption(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	session := NewMockSession(ctrl)
	session.EXPECT().
		GetHistoricalData(gomock.Any(), uint32(265), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint32, from, to time.Time) ([]kite.Candle, error) {
			require.True(t, from.Equal(to.AddDate(-2, 0, 0)))
			return nil, nil
		}).
		Times(1)

	p := kite.NewProvider(session, kite.WithLookbackYears(2))

	// Act
	_, err := p.FetchSeries(t.Context(), instrument.Default().Lookup("^BSESN"), time.Time{}, time.Time{})

	// Assert: an empty series is malformed
	require.Equal(t, provider.KindMalformed, provider.KindOf(err))
}
