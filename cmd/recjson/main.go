package main

//
// Main
//

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/recjson"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose bool
	driver  string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "recjson",
		Short:         "Convert JSON to typed records and query JSON documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return g.apply()
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log decoder decisions at debug level")
	root.PersistentFlags().StringVar(&g.driver, "driver", "gojson", "JSON tokenizer: gojson, std or jsoniter")
	root.AddCommand(decodeSubcommand(), querySubcommand(), typesSubcommand())
	return root
}

func (g *globalFlags) apply() error {
	switch g.driver {
	case "gojson", "":
		recjson.UseDefaultJSONDriver()
	case "std":
		recjson.UseStdlibJSONDriver()
	case "jsoniter":
		recjson.UseJSONIterDriver()
	default:
		return fmt.Errorf("unknown driver %q (want gojson, std or jsoniter)", g.driver)
	}
	var (
		logger *zap.Logger
		err    error
	)
	if g.verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	recjson.SetLogger(logger)
	return nil
}
