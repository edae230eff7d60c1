package classifico

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	root "github.com/soundprediction/classifico"
	"github.com/soundprediction/classifico/pkg/config"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [subjects...]",
	Short: "Classify one or more subjects against the taxonomy",
	Long: `Classify free-form subject strings into the configured taxonomy and
print the ranked candidate paths.

Examples:
  classifico classify "Stanford University"
  classifico classify --kind organization "Stanford University" "Port of Oakland"
  classifico classify --json "Stanford University"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var (
	classifyKind string
	classifyJSON bool
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyKind, "kind", "", "Coarse kind tag passed to hint extraction")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print raw candidate JSON")

	classifyCmd.Flags().String("store-driver", "yaml", "Taxonomy store driver (yaml, badger, neo4j)")
	classifyCmd.Flags().String("store-path", "./taxonomy.yaml", "Taxonomy file or data directory")
	classifyCmd.Flags().Int64("root-id", 1, "Taxonomy root node id")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("store-driver") {
		cfg.Store.Driver, _ = cmd.Flags().GetString("store-driver")
	}
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}
	if cmd.Flags().Changed("root-id") {
		cfg.Store.RootID, _ = cmd.Flags().GetInt64("root-id")
	}

	log := buildLogger(cfg)

	client, _, err := buildClassifier(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	defer client.Close()

	subjects := make([]root.Subject, len(args))
	for i, label := range args {
		subjects[i] = root.Subject{Label: label, Kind: classifyKind}
	}

	results, errs := client.ClassifyBatch(cmd.Context(), subjects)

	var failed int
	for i, subject := range subjects {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", subject.Label, errs[i])
			failed++
			continue
		}
		if classifyJSON {
			payload, err := json.MarshalIndent(results[i], "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", payload)
			continue
		}

		fmt.Printf("%s\n", subject.Label)
		if len(results[i]) == 0 {
			fmt.Println("  (no candidates)")
			continue
		}
		for rank, candidate := range results[i] {
			fmt.Printf("  %d. %-60s score=%.3f depth=%d\n",
				rank+1, strings.Join(candidate.Labels, " > "), candidate.FinalScore, candidate.Depth)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d subjects failed", failed, len(subjects))
	}
	return nil
}
