package infra

import (
	"fmt"
	"strings"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with mode-specific warnings
func PrintBanner(cfg *Config, live bool) {
	symbol := strings.ToUpper(cfg.Binance.Symbol)

	color := ColorCyan
	mode := "DRY-RUN"
	modeDesc := "PAPER ORDERS ONLY"
	if live {
		color = ColorRed
		mode = "LIVE"
		modeDesc = "REAL MONEY TRADING"
	}

	strategies := make([]string, 0, 2)
	if cfg.GridStrategy.Enable {
		strategies = append(strategies, "grid")
	}
	if cfg.IntervalStrategy.Enable {
		strategies = append(strategies, "interval")
	}
	if len(strategies) == 0 {
		strategies = append(strategies, "none")
	}

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#            🚀 Binance Crypto Trading Bot                #%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#   MODE:       %-33s #%s\n", color, mode, ColorReset)
	fmt.Printf("%s#   TYPE:       %-33s #%s\n", color, modeDesc, ColorReset)
	fmt.Printf("%s#   SYMBOL:     %-33s #%s\n", color, symbol, ColorReset)
	fmt.Printf("%s#   STRATEGIES: %-33s #%s\n", color, strings.Join(strategies, ", "), ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)

	if live {
		fmt.Printf("%s#   ⚠️  WARNING: YOU ARE TRADING WITH REAL MONEY  ⚠️      #%s\n", ColorRed, ColorReset)
		fmt.Printf("%s#   ENSURE YOU HAVE VERIFIED YOUR STRATEGY IN DRY-RUN     #%s\n", ColorRed, ColorReset)
	}

	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Println()
}
