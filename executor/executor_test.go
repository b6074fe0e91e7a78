package executor

import (
	"errors"
	"testing"

	"github.com/evdnx/solid/types"
)

func TestPaperExecutor_SubmitAndPosition(t *testing.T) {
	ex := NewPaperExecutor(10_000, nil)

	o := types.Order{
		Symbol: "BTC/USDT",
		Side:   types.Buy,
		Qty:    0.5,
		Price:  20_000,
	}
	if err := ex.Submit(o); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if eq := ex.Equity(); eq != 0 {
		t.Fatalf("expected equity 0 after buying 0.5*20000, got %v", eq)
	}
	qty, avg := ex.Position("BTC/USDT")
	if qty != 0.5 || avg != 20_000 {
		t.Fatalf("unexpected position: qty=%v avg=%v", qty, avg)
	}
}

func TestPaperExecutor_InsufficientCash(t *testing.T) {
	ex := NewPaperExecutor(1000, nil)
	o := types.Order{
		Symbol: "ETH/USDT",
		Side:   types.Buy,
		Qty:    1,
		Price:  2000,
	}
	if err := ex.Submit(o); !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}
	if eq := ex.Equity(); eq != 1000 {
		t.Fatalf("equity should stay unchanged on insufficient cash")
	}
}

func TestPaperExecutor_CloseLong(t *testing.T) {
	ex := NewPaperExecutor(1000, nil)
	if err := ex.Submit(types.Order{Symbol: "ETH/USDT", Side: types.Buy, Qty: 2, Price: 100}); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if err := ex.Submit(types.Order{Symbol: "ETH/USDT", Side: types.Sell, Qty: 2, Price: 110}); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if eq := ex.Equity(); eq != 1020 {
		t.Fatalf("expected equity 1020, got %v", eq)
	}
	if qty, _ := ex.Position("ETH/USDT"); qty != 0 {
		t.Fatalf("expected flat position, got %v", qty)
	}
}

func TestPaperExecutor_NoShorting(t *testing.T) {
	ex := NewPaperExecutor(1000, nil)
	err := ex.Submit(types.Order{Symbol: "ETH/USDT", Side: types.Sell, Qty: 1, Price: 100})
	if !errors.Is(err, ErrInsufficientPosition) {
		t.Fatalf("expected ErrInsufficientPosition, got %v", err)
	}
}
