package main

import (
	"strings"

	"realty-insights-backend/service"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <query>",
	Short: "Answer a question such as \"Compare Wakad and Aundh over the last 3 years\"",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cache, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		svc := service.NewAnalysisService(service.WithDatasetProvider(cache))
		result, err := svc.Analyze(ctx, service.AnalyzeRequest{Query: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), result.Result)
	},
}
