package cli

import (
	"github.com/spf13/cobra"

	"gbce-market/internal/models"
)

// newDemoCmd runs the full reference scenario against the seeded
// catalog: listing, dividend yield, a bulk price update with one unknown
// symbol, two recorded trades and their VWSP, and the geometric mean.
func newDemoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the reference scenario end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc := app.Service

			output.Bold("Catalog")
			for _, s := range svc.ListStocks(1, app.Config.Market.PageSize) {
				output.Printf("%-5s %.2f\n", s.Symbol, s.Price)
			}

			popYield, err := svc.DividendYield("POP")
			if err != nil {
				return err
			}
			output.Info("POP dividend yield: %.5f", popYield)

			// XXX is deliberately unknown to show the skip diagnostic.
			svc.UpdatePrices(map[string]float64{
				"TEA": 35.0, "POP": 49.0, "ALE": 25.0, "GIN": 16.0, "JOE": 34.0,
				"XXX": 99.0,
			})

			popYield, err = svc.DividendYield("POP")
			if err != nil {
				return err
			}
			output.Info("POP dividend yield after price update: %.5f", popYield)

			svc.RecordTrade("1", "TEA", 1000, models.TradeBuy, 35)
			svc.RecordTrade("2", "TEA", 60000, models.TradeSell, 36)

			vwsp, err := svc.VolumeWeightedPrice("TEA", app.Config.Market.WindowMinutes)
			if err != nil {
				return err
			}
			output.Info("TEA VWSP over last %d minutes: %.2f", app.Config.Market.WindowMinutes, vwsp)

			mean, err := svc.GeometricMean()
			if err != nil {
				return err
			}
			output.Info("geometric mean of all prices: %.2f", mean)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"pop_yield":      popYield,
					"tea_vwsp":       vwsp,
					"geometric_mean": mean,
				})
			}
			return nil
		},
	}
}
