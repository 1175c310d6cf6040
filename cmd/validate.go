package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/darwin-homes/pynonymizer/internal/fake"
	"github.com/darwin-homes/pynonymizer/internal/strategy"
	"github.com/darwin-homes/pynonymizer/internal/strategyfile"
)

var (
	validateFile string
	dumpStrategy bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a strategy file and report problems, without a database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateFile == "" {
			return fmt.Errorf("strategy file is required (use -s)")
		}

		doc, err := strategyfile.Load(validateFile)
		if err != nil {
			return err
		}
		strat, err := strategy.NewParser(fake.NewCatalog()).ParseConfig(doc)
		if err != nil {
			return fmt.Errorf("invalid strategy %s: %w", validateFile, err)
		}

		fmt.Println(color.GreenString("Strategy OK"))
		printPlan(strat)

		if dumpStrategy {
			spew.Dump(strat)
		}
		return nil
	},
}

// printPlan lists what a strategy would do, in the order tables are applied.
func printPlan(strat *strategy.DatabaseStrategy) {
	names := strat.TableNames()
	fmt.Printf("Tables (%d):\n", len(names))
	for _, name := range names {
		switch ts := strat.Tables[name].(type) {
		case *strategy.TruncateTable:
			fmt.Printf("  %s: truncate\n", name)
		case *strategy.UpdateColumnsTable:
			fmt.Printf("  %s: update columns\n", name)
			for _, col := range ts.ColumnNames() {
				fmt.Printf("    %-24s %s\n", col, describeColumn(ts.Columns[col]))
			}
		}
	}
	fmt.Printf("Scripts: %d before, %d after\n",
		len(strat.Scripts[strategy.ScriptBefore]), len(strat.Scripts[strategy.ScriptAfter]))
}

func describeColumn(cs strategy.ColumnStrategy) string {
	desc := cs.Type().String()
	if fc, ok := cs.(*strategy.FakeColumn); ok {
		desc = fmt.Sprintf("%s (%s)", desc, fc.Category.Name)
	}
	if where := cs.RowFilter(); where != "" {
		desc += " where " + where
	}
	return desc
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFile, "strategy", "s", "", "Strategy file to validate")
	validateCmd.Flags().BoolVar(&dumpStrategy, "dump", false, "Dump the parsed strategy graph")
}
