// sheetcheck is an operator diagnostic: it verifies the spreadsheet is
// reachable, lists its tabs, and cross-checks the bulk-record API
// against the raw grid to surface silently dropped rows.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/config"
	"github.com/pephaul/orderdesk/internal/normalize"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	tabFlag := flag.String("tab", "", "tab to inspect (defaults to the orders tab)")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := sheetdb.NewRESTClient(cfg.Sheets.APIKey)
	table, err := client.OpenTable(ctx, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Spreadsheet unreachable")
	}

	names, err := table.ListSubtables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list tabs")
	}
	log.Info().Strs("tabs", names).Msg("Spreadsheet reachable")

	tabName := *tabFlag
	if tabName == "" {
		tabName = cfg.Sheets.OrdersTab
	}
	tab := table.Subtable(tabName)

	grid, err := tab.Rows(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("tab", tabName).Msg("Failed to read raw grid")
	}
	if len(grid) == 0 {
		log.Warn().Str("tab", tabName).Msg("Tab is empty")
		return
	}
	log.Info().
		Str("tab", tabName).
		Int("data_rows", len(grid)-1).
		Strs("headers", normalize.Headers(grid[0])).
		Msg("Raw grid read")

	records, err := tab.Records(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("tab", tabName).Msg("Failed to read records")
	}

	if len(records) != len(grid)-1 {
		rebuilt := normalize.RecordsFromGrid(grid)
		log.Warn().
			Int("records", len(records)).
			Int("data_rows", len(grid)-1).
			Int("rebuilt", len(rebuilt)).
			Msg("Record count mismatch: the bulk-record API is dropping rows; grid rebuild recovers them")
		return
	}
	log.Info().Int("records", len(records)).Msg("Record counts agree")
}
