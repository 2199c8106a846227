package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vantrel/medscan/internal/imaging"
	"github.com/vantrel/medscan/internal/inference"
)

type analyzeOptions struct {
	file     string
	category string
	frame    int
	baseURL  string
	model    string
	timeout  int
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one frame of a medical image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "image file to analyze (required)")
	cmd.Flags().StringVarP(&opts.category, "category", "c", string(inference.GeneralDescription), "analysis category")
	cmd.Flags().IntVar(&opts.frame, "frame", 0, "frame index for multi-frame sources")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "model runtime base URL")
	cmd.Flags().StringVar(&opts.model, "model", "", "model identifier")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "request timeout in seconds")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	category, err := inference.ParseCategory(opts.category)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.file, err)
	}

	seq, err := imaging.Decode(data, imaging.KindFromFilename(opts.file))
	if err != nil {
		return err
	}

	frame, err := seq.Frame(opts.frame)
	if err != nil {
		return err
	}

	config := inference.Config{
		BaseURL:        opts.baseURL,
		Model:          opts.model,
		TimeoutSeconds: opts.timeout,
	}
	if err := config.Finalize(&inference.Env{
		BaseURL: "MEDSCAN_INFERENCE_BASE_URL",
		Model:   "MEDSCAN_INFERENCE_MODEL",
		Timeout: "MEDSCAN_INFERENCE_TIMEOUT",
	}); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := inference.NewClient(config, logger)

	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(cmd.OutOrStdout(), "%s · %s · frame %d/%d\n\n",
		opts.file, category, opts.frame, seq.Len())

	wait := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(cmd.ErrOrStderr()))
	wait.Suffix = " waiting for model..."
	wait.Start()

	var once sync.Once
	result, err := client.AnalyzeStream(cmd.Context(), frame, category, func(delta string) {
		once.Do(wait.Stop)
		fmt.Fprint(cmd.OutOrStdout(), delta)
	})
	once.Do(wait.Stop)

	if err != nil {
		return err
	}

	if result == "" {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("model returned no content"))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
