package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uiprogress"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
	"github.com/darwin-homes/pynonymizer/internal/engine"
	"github.com/darwin-homes/pynonymizer/internal/fake"
	"github.com/darwin-homes/pynonymizer/internal/schema"
	"github.com/darwin-homes/pynonymizer/internal/strategy"
	"github.com/darwin-homes/pynonymizer/internal/strategyfile"
)

var (
	strategyFile  string
	seedRows      int
	dryRun        bool
	skipPreflight bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Anonymize a database according to a strategy file",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := GetActiveDBConfig()
		if err != nil {
			return err
		}

		// Strategy path: Flag > Config
		path := strategyFile
		if path == "" {
			path = viper.GetString("settings.strategy")
		}
		if path == "" {
			return fmt.Errorf("strategy file is required (use -s or set settings.strategy in config)")
		}

		doc, err := strategyfile.Load(path)
		if err != nil {
			return err
		}
		strat, err := strategy.NewParser(fake.NewCatalog()).ParseConfig(doc)
		if err != nil {
			return fmt.Errorf("invalid strategy %s: %w", path, err)
		}

		// Dry Run
		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			printPlan(strat)
			return nil
		}

		fmt.Printf("🎭 Connected via %s (database %q)\n", config.Driver, config.Name)

		db, err := sql.Open(config.Driver, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		// 0. Get Dialect
		d := dialect.GetDialect(config.Driver)
		log.Infof("Using Dialect: %s", config.Driver)

		target, err := resolveSchemaName(db, config.Driver, config.Schema)
		if err != nil {
			return err
		}

		// 1. Preflight: refuse to run a strategy that names unknown objects
		if skipPreflight {
			log.Warn("Skipping preflight checks")
		} else {
			log.Println("Checking strategy against the live schema...")
			if err := engine.Preflight(db, d, target, strat); err != nil {
				return err
			}
		}

		// Fetch seed row count from Viper (Flag > Config > Default)
		targetSeedRows := viper.GetInt("settings.seed_rows")
		if seedRows > 0 { // Flag override
			targetSeedRows = seedRows
		}

		tableCount := len(strat.TableNames())
		log.Infof("Starting anonymization of %d tables...", tableCount)
		start := time.Now()

		// 2. Setup Progress Bar
		uiprogress.Start()
		bar := uiprogress.AddBar(max(tableCount, 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Anonymizing: "
		})

		// 3. Anonymize
		results, err := engine.Anonymize(db, d, strat, targetSeedRows, func(table string) {
			bar.Incr()
		})

		uiprogress.Stop()

		elapsed := time.Since(start)
		printReport(results)

		if err != nil {
			return err
		}

		log.Infof("Anonymization Done! Time Elapsed: %s", elapsed)
		return nil
	},
}

func printReport(results []schema.Result) {
	if len(results) == 0 {
		return
	}

	fmt.Println("\n📊 Summary Report:")
	var total int64
	for i, r := range results {
		icon := color.GreenString("✓")
		if r.Status != "OK" {
			icon = color.RedString("!")
		}
		fmt.Printf("[%s] [%02d/%02d] %-20s : %-14s %d rows - %s\n",
			icon, i+1, len(results), r.Table, r.Action, r.Rows, r.Status)
		if r.ErrorMsg != "" {
			fmt.Printf("    └ Error: %s\n", r.ErrorMsg)
		}
		total += r.Rows
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Rows Affected: %d\n", total)
}

func init() {
	RootCmd.AddCommand(runCmd)

	// CLI Flags
	runCmd.Flags().StringVarP(&strategyFile, "strategy", "s", "", "Strategy file describing what to anonymize (overrides config)")
	runCmd.Flags().IntVar(&seedRows, "seed-rows", 0, "Number of fake rows to seed per category (overrides config)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the parsed strategy without touching the database")
	runCmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip checking the strategy against the live schema")

	viper.BindPFlag("settings.seed_rows", runCmd.Flags().Lookup("seed-rows"))
	viper.SetDefault("settings.seed_rows", engine.DefaultSeedRows)
	// Strategy path precedence is handled in code: Flag > Config.
}
