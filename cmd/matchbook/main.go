// Command matchbook runs a scripted demonstration of the matching
// engine: it builds a book, feeds it the demo order flow, and prints
// depth and market data between steps. Configuration comes from the
// environment (or a .env file): SYMBOL, TICK_SIZE, LOG_LEVEL,
// METRICS_ADDR, RANDOM_ORDERS.
package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"matchbook/domain/orderbook"
	"matchbook/domain/tick"
	"matchbook/infra/logging"
	"matchbook/infra/memory"
	"matchbook/infra/metrics"
	"matchbook/infra/sequence"
	"matchbook/service"
)

func main() {
	_ = godotenv.Load() // .env is optional

	symbol := envOr("SYMBOL", "AAPL")
	tickSize := envOr("TICK_SIZE", "0.01")

	logger, err := logging.NewLogger(envOr("LOG_LEVEL", "warn"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	scale, err := tick.NewScale(tickSize)
	if err != nil {
		logger.Fatal("invalid tick size", zap.String("tick_size", tickSize), zap.Error(err))
	}

	book, err := orderbook.New(symbol)
	if err != nil {
		logger.Fatal("book init failed", zap.Error(err))
	}

	stats := metrics.New("matchbook")
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go func() {
			if err := http.ListenAndServe(addr, stats.Handler()); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	pool := memory.NewPool(func() *orderbook.Order { return &orderbook.Order{} })
	seq := sequence.New(0)
	svc := service.NewOrderService(book, pool, seq, scale, logger, stats)

	runScript(svc, symbol)

	if n, _ := strconv.Atoi(os.Getenv("RANDOM_ORDERS")); n > 0 {
		runRandomFlow(svc, n)
	}
}

func runScript(svc *service.OrderService, symbol string) {
	section("SETTING UP THE BOOK")
	submit(svc, "BUY_001", orderbook.Bid, "200.00", 1000)
	submit(svc, "BUY_002", orderbook.Bid, "199.50", 500)
	submit(svc, "SELL_001", orderbook.Ask, "201.00", 800)
	submit(svc, "SELL_002", orderbook.Ask, "201.50", 600)
	printBook(svc, symbol)

	section("AGGRESSIVE BUY SWEEPS TWO LEVELS")
	submit(svc, "BUY_AGGRESSIVE", orderbook.Bid, "201.50", 1000)
	printBook(svc, symbol)
	printTrades(svc)

	section("SELL INTO THE BEST BID")
	submit(svc, "SELL_003", orderbook.Ask, "199.00", 800)
	printBook(svc, symbol)
	printTrades(svc)

	section("CANCELLATION")
	submit(svc, "BUY_CANCEL_ME", orderbook.Bid, "198.00", 400)
	fmt.Println("cancel BUY_CANCEL_ME:", svc.Cancel("BUY_CANCEL_ME"))
	fmt.Println("cancel UNKNOWN:", svc.Cancel("UNKNOWN"))
	printBook(svc, symbol)

	section("REJECTIONS")
	submit(svc, "BUY_002", orderbook.Bid, "199.50", 500) // duplicate ID
	submit(svc, "BAD_PRICE", orderbook.Bid, "-1.00", 100)
	submit(svc, "OFF_TICK", orderbook.Bid, "199.505", 100)
}

func runRandomFlow(svc *service.OrderService, n int) {
	section(fmt.Sprintf("RANDOM FLOW: %d ORDERS", n))
	var live []string
	for i := 0; i < n; i++ {
		side := orderbook.Bid
		if rand.IntN(2) == 1 {
			side = orderbook.Ask
		}
		// prices on a 0.01 grid around 200.00
		price := decimal.NewFromInt(int64(19900 + rand.IntN(200))).Div(decimal.NewFromInt(100))
		id := uuid.NewString()

		res, err := svc.Submit(id, side, price, int64(1+rand.IntN(500)))
		if err != nil {
			continue
		}
		if res.Rested {
			live = append(live, id)
		}
		// cancel roughly a tenth of the resting flow
		if len(live) > 0 && rand.IntN(10) == 0 {
			j := rand.IntN(len(live))
			svc.Cancel(live[j])
			live = append(live[:j], live[j+1:]...)
		}
	}
	fmt.Printf("orders known=%d trades=%d\n", svc.OrderCount(), svc.TradeCount())
}

func submit(svc *service.OrderService, id string, side orderbook.Side, price string, qty int64) {
	res, err := svc.Submit(id, side, decimal.RequireFromString(price), qty)
	if err != nil {
		fmt.Printf(">> %s rejected: %v\n", id, err)
		return
	}
	fmt.Printf(">> %s %s %s x%d: %d trade(s), remaining %d\n",
		id, side, price, qty, len(res.Trades), res.Remaining)
}

func printBook(svc *service.OrderService, symbol string) {
	bids, asks := svc.Depth(5)

	fmt.Printf("\n--- %s ---\n", symbol)
	fmt.Println("ASKS  price | qty | orders")
	for i := len(asks) - 1; i >= 0; i-- {
		a := asks[i]
		fmt.Printf("  %8s | %6d | %d\n", a.Price, a.Qty, a.Orders)
	}
	if sp, ok := svc.Spread(); ok {
		fmt.Printf("  spread %s\n", sp)
	} else {
		fmt.Println("  spread n/a")
	}
	fmt.Println("BIDS  price | qty | orders")
	for _, b := range bids {
		fmt.Printf("  %8s | %6d | %d\n", b.Price, b.Qty, b.Orders)
	}
	fmt.Printf("orders=%d trades=%d\n", svc.OrderCount(), svc.TradeCount())
}

func printTrades(svc *service.OrderService) {
	for _, t := range svc.Trades() {
		fmt.Printf("  trade #%d buy=%s sell=%s price=%s qty=%d\n",
			t.ID, t.BuyOrderID, t.SellOrderID, t.Price, t.Qty)
	}
}

func section(title string) {
	fmt.Printf("\n========== %s ==========\n", title)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
