package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"entity-graph/backend/internal/dataset"
	"entity-graph/backend/internal/graph"
)

type rootOptions struct {
	file   string
	sheet  string
	output string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "graphctl",
		Short: "Inspect the entity relationship dataset offline",
		Long: `graphctl loads a relationship spreadsheet (.xlsx or .csv) and prints the
same views the HTTP API serves, without starting a server.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "path to the .xlsx or .csv dataset")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "dataset",
			Short: "Print every record",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := opts.deriver()
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), recordList(d.Dataset()))
			},
		},
		&cobra.Command{
			Use:   "graph",
			Short: "Print the parent-level nodes and edges",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := opts.deriver()
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), d.Graph())
			},
		},
		&cobra.Command{
			Use:   "children [parent]",
			Short: "Print the name/type child nodes of a parent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := opts.deriver()
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), d.ChildNodes(args[0]))
			},
		},
		&cobra.Command{
			Use:   "connected [parent]",
			Short: "Print the parents directly connected to a parent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := opts.deriver()
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), d.ConnectedParents(args[0]))
			},
		},
	)

	return rootCmd
}

func (o *rootOptions) deriver() (*graph.Deriver, error) {
	if o.output != "json" && o.output != "yaml" {
		return nil, fmt.Errorf("unknown output format %q", o.output)
	}

	var loadOpts []dataset.Option
	if o.sheet != "" {
		loadOpts = append(loadOpts, dataset.WithSheet(o.sheet))
	}
	store, err := dataset.Load(o.file, loadOpts...)
	if err != nil {
		return nil, err
	}
	return graph.NewDeriver(store), nil
}

func (o *rootOptions) print(w io.Writer, v any) error {
	if o.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// recordList keeps source column order in both output formats
type recordList []dataset.Record

// MarshalYAML renders each record as a mapping in column order
func (l recordList) MarshalYAML() (interface{}, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range l {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range r.Fields() {
			key := &yaml.Node{}
			if err := key.Encode(f.Name); err != nil {
				return nil, err
			}
			val := &yaml.Node{}
			if err := val.Encode(f.Value); err != nil {
				return nil, err
			}
			m.Content = append(m.Content, key, val)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq, nil
}
