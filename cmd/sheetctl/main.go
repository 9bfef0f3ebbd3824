package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"realty-insights-backend/config"
	"realty-insights-backend/service"
	"realty-insights-backend/storage"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile      string
	sheetFile    string
	sheetURL     string
	outputFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sheetctl",
	Short: "Query the market sheet from the command line",
	Long:  `sheetctl loads the market sheet from a local file or URL and runs the same analysis as the server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		switch outputFormat {
		case "json", "yaml":
		default:
			return fmt.Errorf("unsupported --output: %s (use json|yaml)", outputFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&sheetFile, "file", "", "local CSV or XLSX sheet")
	rootCmd.PersistentFlags().StringVar(&sheetURL, "url", "", "sheet CSV URL (overrides SHEET_CSV_URL)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json|yaml")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// newSource picks the sheet source from flags, falling back to the configured URL
func newSource() (service.SheetSource, error) {
	if sheetFile != "" {
		abs, err := filepath.Abs(sheetFile)
		if err != nil {
			return nil, fmt.Errorf("resolve --file: %w", err)
		}
		store, err := storage.NewLocalStorage(filepath.Dir(abs))
		if err != nil {
			return nil, err
		}
		return service.NewStorageSource(store, filepath.Base(abs)), nil
	}

	url := cfg.SheetCSVURL
	if sheetURL != "" {
		url = sheetURL
	}
	return service.NewHTTPSource(url, cfg.HTTPTimeout()), nil
}

func loadDataset(ctx context.Context) (*service.DatasetCache, error) {
	source, err := newSource()
	if err != nil {
		return nil, err
	}
	cache := service.NewDatasetCache(source)
	if _, err := cache.Get(ctx); err != nil {
		return nil, err
	}
	return cache, nil
}

// writeOutput renders v as indented JSON or as YAML with the same field names
func writeOutput(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if outputFormat == "json" {
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.HTTPTimeout()+10*time.Second)
}
