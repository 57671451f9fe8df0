// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.yaml.in/yaml/v3"
)

// Format selects how records are written by Write.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// Write renders recs to w in the given format.
func Write(w io.Writer, recs []Record, format Format) error {
	switch format {
	case FormatTable, "":
		return writeTable(w, recs)
	case FormatYAML:
		if recs == nil {
			recs = []Record{}
		}
		data, err := yaml.Marshal(recs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		if recs == nil {
			recs = []Record{}
		}
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want table, yaml, or json)", format)
	}
}

func writeTable(w io.Writer, recs []Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tMODE\tINPUT\tOUTPUT\tDURATION")
	for _, r := range recs {
		status := string(r.Status)
		if r.ErrorKind != "" {
			status += " (" + string(r.ErrorKind) + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			status,
			r.Mode,
			r.InputPath,
			r.OutputPath,
			r.Duration().Round(time.Millisecond),
		)
	}
	return tw.Flush()
}
