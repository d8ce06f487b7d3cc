package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# GBCE Market Configuration

[market]
# Trailing window for the volume-weighted stock price, in minutes
window_minutes = 15
# Page size for catalog listings
page_size = 10

[log]
# Log level: debug, info, warn, error
level = "info"
# Log to the console
console = true
# Log to a rotating file
file = false
# file_path = "~/.config/gbce-market/logs/market.log"

# Initial stock catalog. Types: COMMON, PREFERRED.
# fixed_dividend_ratio applies to preferred stocks only.

[[stocks]]
symbol = "TEA"
type = "COMMON"
last_dividend = 0.0
par_value = 100.0
price = 34.42

[[stocks]]
symbol = "POP"
type = "PREFERRED"
last_dividend = 10.0
fixed_dividend_ratio = 0.035
par_value = 100.0
price = 47.48

[[stocks]]
symbol = "ALE"
type = "COMMON"
last_dividend = 23.0
par_value = 60.0
price = 24.43

[[stocks]]
symbol = "GIN"
type = "PREFERRED"
last_dividend = 8.0
fixed_dividend_ratio = 0.02
par_value = 100.0
price = 15.45

[[stocks]]
symbol = "JOE"
type = "COMMON"
last_dividend = 13.0
par_value = 250.0
price = 33.52
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
