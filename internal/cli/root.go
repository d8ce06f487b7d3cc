package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gbce-market/internal/config"
	"gbce-market/internal/logging"
	"gbce-market/internal/market"
	"gbce-market/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies. Each invocation is one market
// session: the catalog is seeded from config and the trade ledger starts
// empty.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Stocks  *store.StockStore
	Trades  *store.TradeStore
	Service *market.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Stocks = store.NewStockStore()
	app.Trades = store.NewTradeStore()
	for _, seed := range cfg.Seed {
		app.Stocks.Add(seed.Stock())
	}
	logger.Debug().Int("stocks", app.Stocks.Count()).Msg("catalog seeded")

	app.Service = market.NewService(market.ServiceConfig{
		Stocks: app.Stocks,
		Trades: app.Trades,
		Logger: logger,
	})

	rootCmd := &cobra.Command{
		Use:   "gbce",
		Short: "GBCE Market - stock market analytics CLI",
		Long: `GBCE Market computes analytics over the Global Beverage Corporation
Exchange catalog: dividend yield, volume-weighted stock price over a
trailing window, and the geometric mean of all stock prices.

The catalog is seeded from config.toml; each invocation is one session.
Use 'gbce demo' to run the full reference scenario.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/gbce-market)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addMarketCommands(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
				return
			}
			output.Printf("gbce-market %s (built %s)\n", Version, BuildDate)
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(app.Config)
				return
			}
			output.Bold("Market")
			output.Printf("  window_minutes: %d\n", app.Config.Market.WindowMinutes)
			output.Printf("  page_size:      %d\n", app.Config.Market.PageSize)
			output.Bold("Log")
			output.Printf("  level:   %s\n", app.Config.Log.Level)
			output.Printf("  console: %v\n", app.Config.Log.Console)
			output.Printf("  file:    %v\n", app.Config.Log.File)
			output.Bold("Seed catalog")
			for _, s := range app.Config.Seed {
				output.Printf("  %-5s %-9s par=%.2f price=%.2f\n", s.Symbol, s.Type, s.ParValue, s.Price)
			}
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config directory",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")
			if configDir == "" {
				configDir = config.DefaultConfigDir()
			}
			output.Println(configDir)
		},
	})

	return configCmd
}
