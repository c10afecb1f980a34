package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workforcekpi",
		Short:         "Workforce (ESRS S1) KPI service and tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newIngestCmd(),
		newKPICmd(),
		newReportCmd(),
		newAPIKeyCmd(),
	)
	return cmd
}
