package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/psds-microservice/search-client/internal/validator"
	"github.com/spf13/cobra"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// clientCmds are one-shot commands: each runs a single client operation and prints the reply.
func (a *app) clientCmds() []*cobra.Command {
	v := validator.New()

	status := &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Args:  cobra.NoArgs,
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			return es.Status(ctx)
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create the index, optionally with a mapping (--data)",
		Args:  cobra.NoArgs,
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			data, err := readData(cmd, v, true)
			if err != nil {
				return nil, err
			}
			if data == nil {
				return es.Create(ctx, nil)
			}
			return es.Create(ctx, data)
		}),
	}
	dataFlag(create)

	count := &cobra.Command{
		Use:   "count TYPE",
		Short: "Count documents of a type",
		Args:  cobra.ExactArgs(1),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateType(args[0]); err != nil {
				return nil, err
			}
			return es.Count(ctx, args[0])
		}),
	}

	mapping := &cobra.Command{
		Use:   "mapping TYPE",
		Short: "Set the mapping of a type (--data)",
		Args:  cobra.ExactArgs(1),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateType(args[0]); err != nil {
				return nil, err
			}
			data, err := readData(cmd, v, false)
			if err != nil {
				return nil, err
			}
			return es.SetMapping(ctx, args[0], data)
		}),
	}
	dataFlag(mapping)

	get := &cobra.Command{
		Use:   "get TYPE ID",
		Short: "Fetch a document",
		Args:  cobra.ExactArgs(2),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateDocument(args[0], args[1]); err != nil {
				return nil, err
			}
			return es.Get(ctx, args[0], args[1])
		}),
	}

	add := &cobra.Command{
		Use:   "add TYPE ID",
		Short: "Index a document (--data)",
		Args:  cobra.ExactArgs(2),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateDocument(args[0], args[1]); err != nil {
				return nil, err
			}
			data, err := readData(cmd, v, false)
			if err != nil {
				return nil, err
			}
			return es.Add(ctx, args[0], args[1], data)
		}),
	}
	dataFlag(add)

	del := &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateDocument(args[0], args[1]); err != nil {
				return nil, err
			}
			return es.Delete(ctx, args[0], args[1])
		}),
	}

	search := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Query-string search; with --data posts a query DSL body to --type",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			typ, _ := cmd.Flags().GetString("type")
			size, _ := cmd.Flags().GetInt("size")
			if err := v.ValidateSize(size); err != nil {
				return nil, err
			}
			if typ != "" {
				if err := v.ValidateType(typ); err != nil {
					return nil, err
				}
			}
			data, err := readData(cmd, v, true)
			if err != nil {
				return nil, err
			}
			if data != nil {
				if typ == "" {
					return nil, fmt.Errorf("search: --data requires --type")
				}
				return es.AdvancedQuery(ctx, typ, data)
			}
			q := strings.Join(args, " ")
			switch {
			case typ != "" && size > 0:
				return es.QueryWithSize(ctx, typ, q, size)
			case typ != "":
				return es.Query(ctx, typ, q)
			case size > 0:
				return es.QueryAllWithSize(ctx, q, size)
			default:
				return es.QueryAll(ctx, q)
			}
		}),
	}
	search.Flags().String("type", "", "restrict the search to one type")
	search.Flags().Int("size", 0, "result size; 0 leaves it to the engine (the client default is "+strconv.Itoa(elasticsearch.DefaultResultSize)+")")
	dataFlag(search)

	similar := &cobra.Command{
		Use:   "similar TYPE ID",
		Short: "Find documents similar to TYPE/ID",
		Args:  cobra.ExactArgs(2),
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			if err := v.ValidateDocument(args[0], args[1]); err != nil {
				return nil, err
			}
			fields, _ := cmd.Flags().GetString("fields")
			opts := elasticsearch.MoreLikeThisOptions{Fields: fields}
			data, err := readData(cmd, v, true)
			if err != nil {
				return nil, err
			}
			if data != nil {
				opts.Data = data
			}
			return es.MoreLikeThis(ctx, args[0], args[1], opts)
		}),
	}
	similar.Flags().String("fields", "", "raw query string, e.g. mlt_fields=title,body")
	dataFlag(similar)

	suggest := &cobra.Command{
		Use:   "suggest",
		Short: "Run a suggest request (--data)",
		Args:  cobra.NoArgs,
		RunE: a.do(func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error) {
			data, err := readData(cmd, v, false)
			if err != nil {
				return nil, err
			}
			return es.Suggest(ctx, data)
		}),
	}
	dataFlag(suggest)

	return []*cobra.Command{status, create, count, mapping, get, add, del, search, similar, suggest}
}

type clientFunc func(ctx context.Context, es *elasticsearch.Client, cmd *cobra.Command, args []string) (elasticsearch.Result, error)

// do wraps fn with client construction and pretty-printing of the reply.
func (a *app) do(fn clientFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		es, err := elasticsearch.NewClient(a.cfg.ClientConfig())
		if err != nil {
			return fmt.Errorf("elasticsearch client: %w", err)
		}
		res, err := fn(cmd.Context(), es, cmd, args)
		if err != nil {
			return err
		}
		out, err := jsonIter.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
}

func dataFlag(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "JSON body: inline, @file, or @- for stdin")
}

// readData resolves --data; nil means the flag was not given.
func readData(cmd *cobra.Command, v *validator.Validator, optional bool) ([]byte, error) {
	raw, _ := cmd.Flags().GetString("data")
	var body []byte
	switch {
	case raw == "@-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		body = b
	case strings.HasPrefix(raw, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		body = b
	default:
		body = []byte(raw)
	}
	if err := v.ValidateJSONBody(body, optional); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	return body, nil
}
