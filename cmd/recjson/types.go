package main

//
// types subcommand
//

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/schema"
	"github.com/reoring/recjson/value"
)

func typesSubcommand() *cobra.Command {
	var schemaFile, schemaName string
	cmd := &cobra.Command{
		Use:   "types [DESCRIPTOR]",
		Short: "Print the normalized form and default JSON value of a type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   *value.Type
				err error
			)
			switch {
			case len(args) == 1:
				t, err = schema.ParseType(args[0])
			case schemaFile != "":
				t, err = schema.LoadFile(schemaFile, schemaName)
			default:
				return fmt.Errorf("a descriptor argument or --schema is required")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			fmt.Fprintln(cmd.OutOrStdout(), recjson.Encode(value.New(t), ""))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "YAML schema file")
	cmd.Flags().StringVar(&schemaName, "name", "", "schema name inside a multi-document YAML file")
	return cmd
}
