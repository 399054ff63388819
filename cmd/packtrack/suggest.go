package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"packtrack/internal/services"
	"packtrack/internal/validation"
)

func newSuggestCmd(root *rootOptions) *cobra.Command {
	var scanPath, contentsPath string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print the suggested column mapping for a scan and a contents file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := commandLogger(cmd, cfg)
			if err != nil {
				return err
			}

			validator := validation.NewFileValidator(logger)
			for _, path := range []string{scanPath, contentsPath} {
				if err := validator.ValidateSpreadsheet(path); err != nil {
					return err
				}
			}

			scan, err := readUpload(scanPath)
			if err != nil {
				return err
			}
			contents, err := readUpload(contentsPath)
			if err != nil {
				return err
			}

			svc := services.NewPackingService(cfg.Rules, nil, nil, nil, logger)
			suggestion, err := svc.Suggest(cmd.Context(), *scan, *contents)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(suggestion)
		},
	}

	cmd.Flags().StringVar(&scanPath, "scan", "", "scan log (.xlsx or .csv)")
	cmd.Flags().StringVar(&contentsPath, "contents", "", "contents log (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("scan")
	_ = cmd.MarkFlagRequired("contents")
	return cmd
}

// readUpload loads a file from disk; an empty path yields nil
func readUpload(path string) (*services.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &services.Upload{Name: filepath.Base(path), Data: data}, nil
}
