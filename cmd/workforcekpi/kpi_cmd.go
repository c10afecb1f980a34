package main

import (
	"context"
	"fmt"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/spf13/cobra"
)

func newKPICmd() *cobra.Command {
	var (
		companyID int64
		years     []int
		unitIDs   []int64
		countryID int64
		slug      string
	)

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Compute the KPI map for a company and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := kpidomain.Filter{
				CompanyID:             companyID,
				Years:                 years,
				OrganizationalUnitIDs: unitIDs,
			}
			if cmd.Flags().Changed("country") {
				filter.CountryID = &countryID
			}
			if slug != "" {
				if _, _, ok := (kpidomain.Data{}).Lookup(slug); !ok {
					return fmt.Errorf("%w: %s", kpidomain.ErrUnknownKPI, slug)
				}
			}

			var svc kpidomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				data, err := svc.Compute(ctx, filter)
				if err != nil {
					return err
				}
				data = data.Normalized()
				if slug == "" {
					return writeJSON(cmd.OutOrStdout(), data)
				}
				key, value, _ := data.Lookup(slug)
				return writeJSON(cmd.OutOrStdout(), map[string]any{key: value})
			}, &svc)
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "Company id (required)")
	cmd.Flags().IntSliceVar(&years, "year", nil, "Reporting year, repeatable or comma separated")
	cmd.Flags().Int64SliceVar(&unitIDs, "unit", nil, "Organizational unit id, repeatable or comma separated")
	cmd.Flags().Int64Var(&countryID, "country", 0, "Country id, 0 disables the filter")
	cmd.Flags().StringVar(&slug, "kpi", "", "Print a single KPI, e.g. turnover-rate")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
