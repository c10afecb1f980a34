package main

import (
	"context"

	apikeydomain "github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	"github.com/spf13/cobra"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}
	cmd.AddCommand(newAPIKeyCreateCmd(), newAPIKeyListCmd(), newAPIKeyRevokeCmd())
	return cmd
}

func newAPIKeyCreateCmd() *cobra.Command {
	var name, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a key and print its secret once",
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc apikeydomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				resp, err := svc.Create(ctx, apikeydomain.CreateRequest{Name: name, Role: role})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			}, &svc)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name (required)")
	cmd.Flags().StringVar(&role, "role", string(apikeydomain.RoleViewer), "admin, analyst or viewer")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAPIKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc apikeydomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				keys, err := svc.List(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), keys)
			}, &svc)
		},
	}
}

func newAPIKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key_id>",
		Short: "Deactivate a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc apikeydomain.Service
			return runOnce(cmd.Context(), func(ctx context.Context) error {
				return svc.Revoke(ctx, args[0])
			}, &svc)
		},
	}
}
