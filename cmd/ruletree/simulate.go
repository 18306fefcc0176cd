package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ruletree "github.com/DanielDubi/RuleTree"
)

var (
	simN     int
	simSeed  int64
	simTrace int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run random requests through the tree and report the distribution",
	Long: `Generates synthetic orders, routes each one through the tree and prints
how the traffic was distributed across the venues. The same seed always
produces the same requests and the same slot draws.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simN, "requests", "n", 10000, "Number of requests to simulate")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed for request generation and slot draws")
	simulateCmd.Flags().IntVar(&simTrace, "trace", 0, "Print a full selection trace for the first N requests")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	t, root, err := buildTree()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(simSeed))
	counts := make(map[string]int)
	misses := 0

	start := time.Now()
	for i := 0; i < simN; i++ {
		req := genRequest(rng)

		opts := []ruletree.SelectOption{ruletree.SelectRand(rng)}
		var tr ruletree.Trace
		if i < simTrace {
			opts = append(opts, ruletree.SelectTrace(&tr))
		}

		v, ok, err := t.Select(root, req, opts...)
		if err != nil {
			return err
		}
		if i < simTrace {
			fmt.Println(tr.String())
		}

		if !ok {
			misses++
			logger.Debug("routing decision",
				zap.String("request_id", req["id"].(string)),
				zap.Bool("matched", false),
			)
			continue
		}
		counts[v]++
		logger.Debug("routing decision",
			zap.String("request_id", req["id"].(string)),
			zap.String("venue", v),
			zap.Bool("matched", true),
		)
	}
	elapsed := time.Since(start)

	venues := make([]string, 0, len(counts))
	for v := range counts {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool {
		if counts[venues[i]] != counts[venues[j]] {
			return counts[venues[i]] > counts[venues[j]]
		}
		return venues[i] < venues[j]
	})

	tw := table.NewWriter()
	tw.SetTitle("SIMULATION")
	tw.AppendHeader(table.Row{"Venue", "Requests", "Share"})
	for _, v := range venues {
		tw.AppendRow(table.Row{
			v,
			humanize.Comma(int64(counts[v])),
			fmt.Sprintf("%.1f%%", 100*float64(counts[v])/float64(simN)),
		})
	}
	if misses > 0 {
		tw.AppendRow(table.Row{
			"(no venue)",
			humanize.Comma(int64(misses)),
			fmt.Sprintf("%.1f%%", 100*float64(misses)/float64(simN)),
		})
	}
	tw.AppendFooter(table.Row{"total", humanize.Comma(int64(simN)), ""})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	fmt.Println(tw.Render())

	logger.Info("simulation finished",
		zap.Int("requests", simN),
		zap.Int("unrouted", misses),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

var symbols = []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN"}

// genRequest builds one synthetic order. Definitions can gate on id,
// symbol, qty, notional and urgent.
func genRequest(rng *rand.Rand) request {
	qty := 1 + rng.Intn(2000)
	return request{
		"id":       ulid.Make().String(),
		"symbol":   symbols[rng.Intn(len(symbols))],
		"qty":      qty,
		"notional": float64(qty) * (10 + 490*rng.Float64()),
		"urgent":   rng.Intn(10) == 0,
	}
}
