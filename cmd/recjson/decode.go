package main

//
// decode subcommand
//

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/codec"
	"github.com/reoring/recjson/schema"
	"github.com/reoring/recjson/value"
)

type decodeConfig struct {
	schemaFile string
	schemaName string
	typ        string
	strip      string
	timestamps string
	maxDepth   int
	strictKeys bool
	array      bool
}

func decodeSubcommand() *cobra.Command {
	cfg := &decodeConfig{}
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode JSON lines (or one JSON array) from stdin into records and print their canonical encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cfg.schemaFile, "schema", "", "YAML schema file")
	cmd.Flags().StringVar(&cfg.schemaName, "name", "", "schema name inside a multi-document YAML file")
	cmd.Flags().StringVar(&cfg.typ, "type", "", "record type descriptor, e.g. 'tuple<int32 id>'")
	cmd.Flags().StringVar(&cfg.strip, "strip", "", "attribute name prefix removed on output")
	cmd.Flags().StringVar(&cfg.timestamps, "timestamps", "rfc3339", "timestamp layout: rfc3339 or ctime")
	cmd.Flags().IntVar(&cfg.maxDepth, "max-depth", 0, "maximum nesting depth, 0 = unlimited")
	cmd.Flags().BoolVar(&cfg.strictKeys, "strict-keys", false, "fail on duplicate object keys")
	cmd.Flags().BoolVar(&cfg.array, "array", false, "read a single JSON array and decode each element")
	return cmd
}

func (c *decodeConfig) recordType() (*value.Type, error) {
	switch {
	case c.schemaFile != "" && c.typ != "":
		return nil, errors.New("--schema and --type are mutually exclusive")
	case c.schemaFile != "":
		return schema.LoadFile(c.schemaFile, c.schemaName)
	case c.typ != "":
		return schema.ParseType(c.typ)
	}
	return nil, errors.New("one of --schema or --type is required")
}

func (c *decodeConfig) run(in io.Reader, out io.Writer) error {
	t, err := c.recordType()
	if err != nil {
		return err
	}
	if t.Base().Kind() != value.KindRecord {
		return fmt.Errorf("type %s is not a record", t)
	}
	ts, ok := codec.ByName(c.timestamps)
	if !ok {
		return fmt.Errorf("unknown timestamp layout %q", c.timestamps)
	}
	opt := recjson.DecodeOpt{MaxDepth: c.maxDepth, Timestamps: ts}
	if c.strictKeys {
		opt.OnDuplicateKey = recjson.Error
	}
	w := bufio.NewWriter(out)
	err = c.decodeAll(in, t, opt, func(rec *value.Value) error {
		b := recjson.AppendEncode(nil, rec, c.strip, recjson.EncodeOpt{Timestamps: ts})
		_, err := w.Write(append(b, '\n'))
		return err
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (c *decodeConfig) decodeAll(in io.Reader, t *value.Type, opt recjson.DecodeOpt, emit func(*value.Value) error) error {
	if c.array {
		return recjson.DecodeArray(recjson.JSONReader(in), t, func(_ int, rec *value.Value) error {
			return emit(rec)
		}, opt)
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(data) == 0 {
			continue
		}
		rec, err := recjson.Decode(data, value.New(t), opt)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}
