package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

// predictCmd represents the predict command.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the forecast once and print it",
	Long: `Run the pipeline, score it with the trained model and print the
forecast as JSON to stdout.

Example:
  go run ./cmd/powercast predict
  go run ./cmd/powercast predict --tail 24`,
	RunE: runPredict,
}

var predictTail int

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().IntVar(&predictTail, "tail", 0, "print only the last N predictions (0 = all)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	preds, err := a.service.Run(context.Background())
	if err != nil {
		return err
	}

	if predictTail > 0 && predictTail < len(preds) {
		preds = preds[len(preds)-predictTail:]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(preds)
}
