package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ontograph-ai/ontograph"
	"github.com/ontograph-ai/ontograph/contract"
	"github.com/ontograph-ai/ontograph/ontology"
)

func ingestCmd(configPath *string) *cobra.Command {
	var (
		force bool
		phase string
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest documents into the knowledge graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			var opts []ontograph.IngestOption
			if force {
				opts = append(opts, ontograph.WithForceReparse())
			}
			switch phase {
			case "":
			case "parse":
				opts = append(opts, ontograph.WithPhase(ontograph.PhaseParse))
			case "extract":
				opts = append(opts, ontograph.WithPhase(ontograph.PhaseExtract))
			case "index":
				opts = append(opts, ontograph.WithPhase(ontograph.PhaseIndex))
			default:
				return fmt.Errorf("unknown phase %q (want parse, extract, or index)", phase)
			}

			ctx := cmd.Context()
			for _, path := range args {
				start := time.Now()
				id, err := engine.Ingest(ctx, path, opts...)
				if err != nil {
					return fmt.Errorf("ingesting %s: %w", path, err)
				}
				fmt.Printf("ingested %s (document %d, %s)\n", path, id, time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-parse even if content hash is unchanged")
	cmd.Flags().StringVar(&phase, "phase", "", "Stop after a pipeline phase (parse, extract, index)")
	return cmd
}

func queryCmd(configPath *string) *cobra.Command {
	var (
		maxResults int
		maxRounds  int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question over the ingested corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			var opts []ontograph.QueryOption
			if maxResults > 0 {
				opts = append(opts, ontograph.WithMaxResults(maxResults))
			}
			if maxRounds > 0 {
				opts = append(opts, ontograph.WithMaxRounds(maxRounds))
			}

			answer, err := engine.Query(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(answer)
			}

			fmt.Println(answer.Text)
			fmt.Printf("\nconfidence: %.2f  rounds: %d  model: %s\n", answer.Confidence, answer.Rounds, answer.ModelUsed)
			if len(answer.Sources) > 0 {
				fmt.Println("sources:")
				for _, s := range answer.Sources {
					loc := s.Filename
					if s.PageNumber > 0 {
						loc = fmt.Sprintf("%s p.%d", s.Filename, s.PageNumber)
					}
					fmt.Printf("  [%d] %s — %s\n", s.ChunkID, loc, s.Heading)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum retrieval results")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "Maximum reasoning rounds")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full answer as JSON")
	return cmd
}

func documentsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage ingested documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			docs, err := engine.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range docs {
				fmt.Printf("%d\t%s\t%s\t%s\n", d.ID, d.Filename, d.Format, d.Status)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document and its derived data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document id %q", args[0])
			}

			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("deleted document %d\n", id)
			return nil
		},
	})

	return cmd
}

func updateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "update [file]",
		Short: "Re-check documents for changes and re-ingest as needed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			ctx := cmd.Context()
			if len(args) == 1 {
				changed, err := engine.Update(ctx, args[0])
				if err != nil {
					return err
				}
				if changed {
					fmt.Printf("%s: re-ingested\n", args[0])
				} else {
					fmt.Printf("%s: unchanged\n", args[0])
				}
				return nil
			}

			results, err := engine.UpdateAll(ctx)
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "unchanged"
				if r.Error != nil {
					status = "error: " + r.Error.Error()
				} else if r.Changed {
					status = "re-ingested"
				}
				fmt.Printf("%s: %s\n", r.Path, status)
			}
			return nil
		},
	}
}

func validateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate extractions and tool contracts",
	}

	cmd.AddCommand(validateOntologyCmd())
	cmd.AddCommand(validateContractCmd(configPath))
	return cmd
}

func validateOntologyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extraction <file.json>",
		Short: "Validate an extraction result against the ontology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var in ontology.ExtractionInput
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parsing extraction: %w", err)
			}

			report := ontology.ValidateExtraction(in)
			for _, line := range report.Strings() {
				fmt.Println(line)
			}
			if !report.Valid() {
				return fmt.Errorf("extraction failed ontology validation")
			}
			fmt.Println("extraction is valid")
			return nil
		},
	}
}

func validateContractCmd(configPath *string) *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "contract <name> <payload.json>",
		Short: "Validate a JSON payload against a tool contract schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.ContractsDir == "" {
				return fmt.Errorf("no contracts directory configured (set contracts_dir or ONTOGRAPH_CONTRACTS_DIR)")
			}

			reg, err := contract.LoadDir(cfg.ContractsDir)
			if err != nil {
				return err
			}
			c, ok := reg.Get(args[0])
			if !ok {
				return fmt.Errorf("contract %q not found (available: %v)", args[0], reg.Names())
			}

			payload, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			var report ontology.Report
			switch side {
			case "input":
				report, err = c.ValidateInput(payload)
			case "output":
				report, err = c.ValidateOutput(payload)
			default:
				return fmt.Errorf("side must be input or output, got %q", side)
			}
			if err != nil {
				return err
			}

			for _, line := range report.Strings() {
				fmt.Println(line)
			}
			if !report.Valid() {
				return fmt.Errorf("payload failed contract validation")
			}
			fmt.Println("payload is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "input", "Schema side to validate against (input, output)")
	return cmd
}

func ontologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Inspect the built-in ontology",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Export the ontology taxonomy as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ontology.Snapshot())
		},
	})

	return cmd
}
