package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.xlsx>",
		Short: "Replace the fact tables with the contents of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read workbook: %w", err)
			}

			var svc ingestdomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				result, err := svc.Ingest(ctx, ingestdomain.IngestRequest{
					FileName: filepath.Base(args[0]),
					Content:  content,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			}, &svc)
		},
	}
}
