package main

import (
	"fmt"
	"os"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/management"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply management operations from a YAML file",
	Long: `Apply a list of management operations to a subsystem file.

The operations file is a YAML list:

  - operation: add
    params:
      proxy-list: 10.0.0.1:6666
  - operation: add-custom-metric
    params:
      class: org.example.QueueLength
      weight: 2
      property: {name: queue, value: jms}
  - operation: read-resource
    params:
      include-defaults: true

Examples:
  # Start from an existing file and write the result in the current layout
  modcluster apply -f ops.yaml --input standalone-modcluster.xml -o out.xml`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML file with operations (required)")
	applyCmd.Flags().String("input", "", "Subsystem file to start from (default empty)")
	applyCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %v", err)
	}
	var requests []management.Request
	if err := yaml.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("failed to parse YAML: %v", err)
	}

	ctrl := management.NewController(nil)
	if input != "" {
		doc, err := parseFile(input)
		if err != nil {
			return err
		}
		ctrl.Load(doc.Tree)
	}

	for i, r := range requests {
		tree, err := ctrl.Execute(r)
		if err != nil {
			return fmt.Errorf("operation %d (%s): %w", i+1, r.Operation, err)
		}
		if tree != nil {
			fmt.Fprintf(os.Stderr, "# %s\n", r.Operation)
			enc := yaml.NewEncoder(os.Stderr)
			enc.SetIndent(2)
			if err := enc.Encode(tree); err != nil {
				return err
			}
			_ = enc.Close()
		}
	}
	fmt.Fprintf(os.Stderr, "✓ %d operations applied\n", len(requests))

	w := codec.NewWriter(codec.WithIndent(settings.Output.Indent))
	return writeDocument(output, w, &codec.Document{Tree: ctrl.Subsystem()})
}
