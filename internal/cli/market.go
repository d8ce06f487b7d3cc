package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "gbce-market/internal/errors"
	"gbce-market/internal/models"
)

// addMarketCommands adds the catalog and metric commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newYieldCmd(app))
	rootCmd.AddCommand(newVwspCmd(app))
	rootCmd.AddCommand(newGmeanCmd(app))
	rootCmd.AddCommand(newPricesCmd(app))
	rootCmd.AddCommand(newDemoCmd(app))
}

func newListCmd(app *App) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stock catalog",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			stocks := app.Service.ListStocks(page, pageSize)

			if output.IsJSON() {
				output.JSON(stocks)
				return
			}

			table := NewTable(output, "SYMBOL", "TYPE", "LAST DIV", "FIXED DIV", "PAR", "PRICE")
			for _, s := range stocks {
				fixed := "-"
				if s.Type == models.StockPreferred {
					fixed = fmt.Sprintf("%.3f", s.FixedDividendRatio)
				}
				table.AddRow(
					s.Symbol,
					string(s.Type),
					fmt.Sprintf("%.2f", s.LastDividend),
					fixed,
					fmt.Sprintf("%.2f", s.ParValue),
					fmt.Sprintf("%.2f", s.Price),
				)
			}
			table.Render()
			output.Printf("page %d of %d stocks\n", page, app.Stocks.Count())
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size (default from config)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if pageSize == 0 {
			pageSize = app.Config.Market.PageSize
		}
	}

	return cmd
}

func newYieldCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "yield <symbol>",
		Short: "Calculate the dividend yield for a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			yield, err := app.Service.DividendYield(symbol)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol,
					"yield":  yield,
				})
			}
			output.Success("%s dividend yield: %.5f", symbol, yield)
			return nil
		},
	}
}

func newVwspCmd(app *App) *cobra.Command {
	var minutes int
	var tradeSpecs []string

	cmd := &cobra.Command{
		Use:   "vwsp <symbol>",
		Short: "Calculate the volume-weighted stock price",
		Long: `Calculate the volume-weighted stock price over the trailing window.

The session's trade ledger starts empty, so trades are supplied inline
and recorded before the calculation:

  gbce vwsp TEA --trade 1000@35 --trade 60000@36`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			for i, spec := range tradeSpecs {
				quantity, price, err := parseTradeSpec(spec)
				if err != nil {
					return err
				}
				app.Service.RecordTrade(fmt.Sprintf("cli-%d", i+1), symbol, quantity, models.TradeBuy, price)
			}

			vwsp, err := app.Service.VolumeWeightedPrice(symbol, minutes)
			if err != nil {
				if errors.Is(err, apperrors.ErrNoTrades) {
					output.Warning("no trades for %s in the last %d minutes", symbol, minutes)
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":  symbol,
					"minutes": minutes,
					"vwsp":    vwsp,
				})
			}
			output.Success("%s VWSP over last %d minutes: %.2f", symbol, minutes, vwsp)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "trailing window in minutes (default from config)")
	cmd.Flags().StringArrayVar(&tradeSpecs, "trade", nil, "trade to record first, as qty@price")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if minutes == 0 {
			minutes = app.Config.Market.WindowMinutes
		}
	}

	return cmd
}

func newGmeanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "gmean",
		Short: "Calculate the geometric mean of all stock prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			mean, err := app.Service.GeometricMean()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"geometric_mean": mean})
			}
			output.Success("geometric mean of all prices: %.2f", mean)
			return nil
		},
	}
}

func newPricesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prices <SYMBOL=PRICE>...",
		Short: "Apply a bulk price update to the catalog",
		Long: `Apply a bulk price update. Unknown symbols are skipped with a
warning instead of failing the batch:

  gbce prices TEA=35.0 POP=49.0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			newPrices := make(map[string]float64, len(args))
			for _, arg := range args {
				symbol, price, err := parsePriceSpec(arg)
				if err != nil {
					return err
				}
				newPrices[symbol] = price
			}

			app.Service.UpdatePrices(newPrices)

			stocks := app.Service.ListStocks(1, app.Stocks.Count())
			if output.IsJSON() {
				return output.JSON(stocks)
			}
			for _, s := range stocks {
				output.Printf("%-5s %.2f\n", s.Symbol, s.Price)
			}
			return nil
		},
	}
}

// parseTradeSpec parses "qty@price".
func parseTradeSpec(spec string) (int, float64, error) {
	parts := strings.SplitN(spec, "@", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid trade %q (expected qty@price)", spec)
	}
	quantity, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid trade quantity %q: %w", parts[0], err)
	}
	price, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid trade price %q: %w", parts[1], err)
	}
	return quantity, price, nil
}

// parsePriceSpec parses "SYMBOL=price".
func parsePriceSpec(spec string) (string, float64, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid price %q (expected SYMBOL=PRICE)", spec)
	}
	price, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid price %q: %w", parts[1], err)
	}
	return strings.ToUpper(parts[0]), price, nil
}
