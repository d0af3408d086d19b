package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/internal/pipeline"
)

// pipelineCmd represents the pipeline command.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the data pipeline once",
	Long: `Run the full data pipeline without scoring.

Ingests the raw data directory, cleans, validates, preprocesses and
derives features, then reports the resulting shape. Useful for checking
data quality before serving forecasts.

Example:
  go run ./cmd/powercast pipeline
  go run ./cmd/powercast pipeline --lazy`,
	RunE: runPipeline,
}

var pipelineLazy bool

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().BoolVar(&pipelineLazy, "lazy", false, "process the data in chunks")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if pipelineLazy {
		cfg.Data.Lazy = true
	}

	p := pipeline.New(cfg, log)

	ctx := context.Background()
	data, err := p.Run(ctx)
	if err != nil {
		return err
	}

	switch v := data.(type) {
	case frame.Materialized:
		fmt.Printf("Pipeline complete: %d rows, %d columns\n", v.Frame.Len(), v.Frame.NumCols())
	case frame.Streaming:
		rows, chunks := 0, 0
		cols := 0
		for {
			chunk, err := v.Stream.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			rows += chunk.Len()
			cols = chunk.NumCols()
			chunks++
		}
		fmt.Printf("Pipeline complete: %d rows, %d columns in %d chunks\n", rows, cols, chunks)
	}
	return nil
}
