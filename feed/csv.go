package feed

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/solid/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns a candle file must carry. Extra columns are ignored.
var candleColumns = []string{"date", "open", "high", "low", "close", "volume"}

var ErrMissingColumn = errors.New("feed: missing column")

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadCSV loads OHLCV candles with a header row. The date column may be
// RFC 3339, a plain "2006-01-02 15:04:05" timestamp (UTC) or unix
// seconds/milliseconds.
func ReadCSV(r io.Reader) ([]types.Candle, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{
			"date":   series.String,
			"open":   series.Float,
			"high":   series.Float,
			"low":    series.Float,
			"close":  series.Float,
			"volume": series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("feed: read csv: %w", df.Err)
	}

	have := map[string]bool{}
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, c := range candleColumns {
		if !have[c] {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}

	dates := df.Col("date").Records()
	opens := df.Col("open").Float()
	highs := df.Col("high").Float()
	lows := df.Col("low").Float()
	closes := df.Col("close").Float()
	volumes := df.Col("volume").Float()

	out := make([]types.Candle, df.Nrow())
	for i := range out {
		ts, err := parseTime(dates[i])
		if err != nil {
			return nil, fmt.Errorf("feed: row %d: %w", i+1, err)
		}
		c := types.Candle{
			Time:   ts,
			Open:   opens[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
		if math.IsNaN(c.Close) || c.Close <= 0 {
			return nil, fmt.Errorf("feed: row %d: invalid close %q", i+1, df.Col("close").Records()[i])
		}
		if math.IsNaN(c.Volume) {
			c.Volume = 0
		}
		out[i] = c
	}
	return out, nil
}

func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", v)
}
