package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/transform"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the attributes of every resource for a schema version",
	Long: `List the attributes of every resource for a schema version.

With --rules, list the transformation rules instead. A rule applies when
downgrading to a version older than BELOW.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rules, _ := cmd.Flags().GetBool("rules"); rules {
			return printRules(cmd.OutOrStdout())
		}
		raw, _ := cmd.Flags().GetString("schema-version")
		v, err := schema.ParseVersion(raw)
		if err != nil {
			return err
		}
		gen, err := schema.GenerationFor(v)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RESOURCE\tATTRIBUTE\tTYPE\tDEFAULT\tEXPRESSIONS")
		for _, kind := range schema.ResourceKinds() {
			for _, def := range gen.Attributes(kind) {
				dflt := "-"
				if def.HasDefault() {
					dflt = def.DefaultValue.Text()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", kind, def.Name, def.Type, dflt, def.AllowExpression)
			}
		}
		return w.Flush()
	},
}

func printRules(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tATTRIBUTE\tBELOW\tACTION")
	for _, r := range transform.Rules() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Resource, r.Attribute, r.Below, r.Actions())
	}
	return w.Flush()
}
