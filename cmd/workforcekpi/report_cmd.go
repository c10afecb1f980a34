package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sort"

	reportdomain "github.com/smallbiznis/workforcekpi/internal/report/domain"
	"github.com/spf13/cobra"
)

type reportOutput struct {
	File     string   `json:"file"`
	Bytes    int      `json:"bytes"`
	Sections []string `json:"sections"`
	Charts   []string `json:"charts"`
}

func newReportCmd() *cobra.Command {
	var (
		companyID   int64
		year        int
		companyName string
		fileType    string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an ESRS S1 report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := reportdomain.Request{
				CompanyID:   companyID,
				Year:        year,
				CompanyName: companyName,
				Type:        fileType,
			}

			var svc reportdomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				resp, err := svc.Generate(ctx, req)
				if err != nil {
					return err
				}
				content, err := base64.StdEncoding.DecodeString(resp.File.Base64)
				if err != nil {
					return fmt.Errorf("decode report file: %w", err)
				}
				path := out
				if path == "" {
					path = resp.File.Name
				}
				if err := os.WriteFile(path, content, 0o644); err != nil {
					return fmt.Errorf("write report file: %w", err)
				}

				summary := reportOutput{File: path, Bytes: len(content)}
				for key := range resp.Sections {
					summary.Sections = append(summary.Sections, key)
				}
				for key, chart := range resp.Charts {
					if chart != nil {
						summary.Charts = append(summary.Charts, key)
					}
				}
				sort.Strings(summary.Sections)
				sort.Strings(summary.Charts)
				return writeJSON(cmd.OutOrStdout(), summary)
			}, &svc)
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "Company id (required)")
	cmd.Flags().IntVar(&year, "year", 0, "Reporting year (required)")
	cmd.Flags().StringVar(&companyName, "name", "", "Company name used on the cover and in the file name")
	cmd.Flags().StringVar(&fileType, "type", string(reportdomain.TypePDF), "Output format: pdf, docx or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output path, defaults to the generated file name")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
