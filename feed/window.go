package feed

import "github.com/evdnx/solid/types"

// window keeps the most recent candles so streaming indicators can be
// recomputed without holding the full history.
type window struct {
	max int
	buf []types.Candle
}

func newWindow(max int) *window {
	if max <= 0 {
		max = 16
	}
	return &window{max: max}
}

func (w *window) Add(c types.Candle) {
	w.buf = append(w.buf, c)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
}

func (w *window) Len() int {
	return len(w.buf)
}

func (w *window) Candles() []types.Candle {
	out := make([]types.Candle, len(w.buf))
	copy(out, w.buf)
	return out
}

func (w *window) Last() types.Candle {
	if len(w.buf) == 0 {
		return types.Candle{}
	}
	return w.buf[len(w.buf)-1]
}
