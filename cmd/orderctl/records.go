package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"orderkit/pkg/record"
)

func (c *cli) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Read and convert CSV files",
	}

	var emptyAsAbsent bool
	read := &cobra.Command{
		Use:   "read [path]",
		Short: "Print each record of a CSV file as a JSON line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []record.ReadOption
			if emptyAsAbsent {
				opts = append(opts, record.WithEmptyAsAbsent())
			}
			recs, err := record.ReadFile(args[0], opts...)
			if err != nil {
				return err
			}
			c.log.Debug(cmd.Context(), "records read", "path", args[0], "count", len(recs))
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range recs {
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("encode record: %w", err)
				}
			}
			return nil
		},
	}
	read.Flags().BoolVar(&emptyAsAbsent, "empty-as-absent", false, "treat empty fields as missing")

	var legacyTrim bool
	convert := &cobra.Command{
		Use:   "convert [path]",
		Short: "Read a CSV file and print it back as headers and lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := record.ReadFile(args[0])
			if err != nil {
				return err
			}
			var opts []record.ConvertOption
			if legacyTrim {
				opts = append(opts, record.WithLegacyTrim())
			}
			doc := record.Convert(recs, opts...)
			_, err = doc.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	convert.Flags().BoolVar(&legacyTrim, "legacy-trim", false, "drop the last character of every line")

	cmd.AddCommand(read, convert)
	return cmd
}
