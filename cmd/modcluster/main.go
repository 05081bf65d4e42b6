package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/config"
	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/transform"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// settings is loaded before any subcommand runs.
var settings *config.Settings

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modcluster",
	Short: "Read, convert and manage mod_cluster subsystem configuration",
	Long: `modcluster reads mod_cluster subsystem XML of every schema
generation (1.0, 1.1 and 1.2), writes it in the current layout, downgrades
it for older cluster members and applies management operations to it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		s, err := config.Load(path)
		if err != nil {
			return err
		}
		settings = s

		logCfg := s.LogConfig()
		logCfg.Output = os.Stderr
		log.Init(logCfg)
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"modcluster version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))
	rootCmd.PersistentFlags().String("config", "", "Settings file (YAML)")

	parseCmd.Flags().Bool("operations", false, "Print the management operations instead of the tree")
	normalizeCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	transformCmd.Flags().String("target", "", "Target schema version (default from settings)")
	transformCmd.Flags().Bool("xml", false, "Preview the target layout as XML instead of the tree")
	checkOpCmd.Flags().Bool("list", false, "List the runtime operations")
	schemaCmd.Flags().String("schema-version", schema.Current.String(), "Schema version")
	schemaCmd.Flags().Bool("rules", false, "List the transformation rules instead of the attributes")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(checkOpCmd)
	rootCmd.AddCommand(schemaCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a subsystem file and print its configuration tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# namespace: %s\n# version: %s\n", doc.Namespace, doc.Version)

		showOps, _ := cmd.Flags().GetBool("operations")
		if showOps {
			for _, op := range doc.Operations() {
				fmt.Fprintf(out, "%s:%s %s\n", op.Address, op.Name, compactYAML(op.Params))
			}
			return nil
		}
		return printYAML(out, doc.Tree)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Rewrite a subsystem file of any generation in the current layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseFile(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return writeDocument(out, codec.NewWriter(codec.WithIndent(settings.Output.Indent)), doc)
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform FILE",
	Short: "Downgrade a configuration for an older cluster member",
	Long: `Downgrade a configuration to the layout an older cluster member
understands and print the resulting tree. The command fails without
output when a value cannot be represented in the target version.

Older layouts are only ever sent to older members, so nothing is written
to disk. --xml previews the document such a member would receive.

Examples:
  # Show the tree a 1.0 member receives
  modcluster transform --target 1.0.0 standalone-modcluster.xml

  # Preview it in the 1.0 layout
  modcluster transform --target 1.0.0 --xml standalone-modcluster.xml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := settings.TargetVersion()
		if err != nil {
			return err
		}
		if flag, _ := cmd.Flags().GetString("target"); flag != "" {
			if target, err = schema.ParseVersion(flag); err != nil {
				return err
			}
		}

		doc, err := parseFile(args[0])
		if err != nil {
			return err
		}
		tree, err := transform.Transform(doc.Tree, target)
		if err != nil {
			var rejected *transform.RejectedError
			if errors.As(err, &rejected) {
				logger := log.WithTarget(target.String())
				logger.Warn().
					Str("resource", rejected.Resource.String()).
					Str("attribute", rejected.Attribute).
					Msg("Transformation rejected")
			}
			return err
		}

		out := cmd.OutOrStdout()
		if preview, _ := cmd.Flags().GetBool("xml"); preview {
			w := codec.NewWriter(codec.WithVersion(target), codec.WithIndent(settings.Output.Indent))
			data, err := w.Marshal(tree)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# preview of the %s layout, not saved\n", target)
			_, err = out.Write(data)
			return err
		}
		return printYAML(out, tree)
	},
}

var checkOpCmd = &cobra.Command{
	Use:   "check-op OPERATION [name=value ...]",
	Short: "Validate a runtime operation payload",
	Long: `Validate the payload of a runtime proxy or context operation.

Examples:
  modcluster check-op add-proxy host=10.0.0.1 port=6666
  modcluster check-op stop-context virtualhost=default-host context=/ waittime=5
  modcluster check-op --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, op := range codec.RuntimeOperations() {
				fmt.Fprintln(out, op)
			}
			return nil
		}

		params := make(map[string]string, len(args)-1)
		for _, kv := range args[1:] {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("parameter %q must be name=value", kv)
			}
			params[k] = v
		}
		req, err := codec.ParseOperation(args[0], params)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "operation: %s\n", req.Name)
		if req.Proxy != nil {
			fmt.Fprintf(out, "proxy: %s\n", req.Proxy)
		}
		if req.Context != nil {
			fmt.Fprintf(out, "virtualhost: %s\ncontext: %q\n", req.Context.VirtualHost, req.Context.Context)
		}
		if req.Name == codec.OpStop || req.Name == codec.OpStopContext {
			fmt.Fprintf(out, "waittime: %ds\n", req.WaitTime)
		}
		return nil
	},
}

func parseFile(path string) (*codec.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	doc, err := codec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger := log.WithNamespace(doc.Namespace)
	logger.Debug().Str("path", path).Msg("Parsed subsystem")
	return doc, nil
}

func writeDocument(path string, w *codec.Writer, doc *codec.Document) error {
	data, err := w.Marshal(doc.Tree)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	log.Info(fmt.Sprintf("Wrote %s layout to %s", w.Version(), path))
	return nil
}

func printYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func compactYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return strings.TrimSpace(strings.ReplaceAll(string(data), "\n", "; "))
}
