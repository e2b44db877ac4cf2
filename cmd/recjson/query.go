package main

//
// query subcommand
//

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/cobra"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/schema"
	"github.com/reoring/recjson/value"
)

type queryConfig struct {
	paths []string
	as    string
	def   string
}

func querySubcommand() *cobra.Command {
	cfg := &queryConfig{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Parse a JSON document from stdin and print the values at the given pointers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringArrayVar(&cfg.paths, "path", nil, "JSON pointer to query (repeatable)")
	cmd.Flags().StringVar(&cfg.as, "as", "string", "target: bool, int64, uint64, float64, decimal, string, list<T> or a type descriptor")
	cmd.Flags().StringVar(&cfg.def, "default", "", "default value printed when the query fails")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func (c *queryConfig) run(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	doc := recjson.NewDocument()
	if err := doc.Parse(data); err != nil {
		return err
	}
	q, err := c.querier()
	if err != nil {
		return err
	}
	for _, p := range c.paths {
		text, st := q(doc, p)
		fmt.Fprintf(out, "%s\t%s\t%s\n", p, text, st)
	}
	return nil
}

type querier func(doc *recjson.Document, path string) (string, recjson.Status)

func (c *queryConfig) querier() (querier, error) {
	as := strings.TrimSpace(c.as)
	if inner, ok := strings.CutPrefix(as, "list<"); ok && strings.HasSuffix(inner, ">") {
		elem := strings.TrimSuffix(inner, ">")
		if q, ok := listQuerier(elem); ok {
			return q, nil
		}
	}
	switch as {
	case "bool":
		def, _ := strconv.ParseBool(c.def)
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			v, st := d.QueryBool(p, def)
			return strconv.FormatBool(v), st
		}, nil
	case "int64":
		def, _ := strconv.ParseInt(c.def, 10, 64)
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			v, st := d.QueryInt64(p, def)
			return strconv.FormatInt(v, 10), st
		}, nil
	case "uint64":
		def, _ := strconv.ParseUint(c.def, 10, 64)
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			v, st := d.QueryUint64(p, def)
			return strconv.FormatUint(v, 10), st
		}, nil
	case "float64":
		def, _ := strconv.ParseFloat(c.def, 64)
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			v, st := d.QueryFloat64(p, def)
			return strconv.FormatFloat(v, 'g', -1, 64), st
		}, nil
	case "decimal":
		def, _, err := apd.NewFromString(c.def)
		if err != nil {
			def = apd.New(0, 0)
		}
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			v, st := d.QueryDecimal(p, def, 0)
			return v.String(), st
		}, nil
	case "string":
		return func(d *recjson.Document, p string) (string, recjson.Status) {
			return d.QueryString(p, c.def)
		}, nil
	}
	t, err := schema.ParseType(as)
	if err != nil {
		return nil, fmt.Errorf("--as: %w", err)
	}
	def := value.New(t)
	if c.def != "" {
		w := value.New(value.Record(value.F("v", t)))
		if _, err := recjson.Decode([]byte(`{"v":`+c.def+`}`), w); err != nil {
			return nil, fmt.Errorf("--default: %w", err)
		}
		def = w.FieldAt(0)
	}
	return func(d *recjson.Document, p string) (string, recjson.Status) {
		v, st := d.QueryValue(p, t, def)
		return recjson.Encode(v, ""), st
	}, nil
}

func listQuerier(elem string) (querier, bool) {
	switch elem {
	case "bool":
		return listOf(recjson.Bool(), strconv.FormatBool), true
	case "int64":
		return listOf(recjson.Int[int64](), func(v int64) string { return strconv.FormatInt(v, 10) }), true
	case "uint64":
		return listOf(recjson.Uint[uint64](), func(v uint64) string { return strconv.FormatUint(v, 10) }), true
	case "float64":
		return listOf(recjson.Float[float64](), func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }), true
	case "decimal":
		return listOf(recjson.Decimal(0), (*apd.Decimal).String), true
	case "string":
		return listOf(recjson.String(), strconv.Quote), true
	}
	return nil, false
}

func listOf[T any](elem recjson.Coercer[T], format func(T) string) querier {
	return func(d *recjson.Document, p string) (string, recjson.Status) {
		vs, st := recjson.Query(d, p, nil, recjson.ListOf(elem))
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = format(v)
		}
		return "[" + strings.Join(parts, ",") + "]", st
	}
}
