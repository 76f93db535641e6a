package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/customer"
	"github.com/goliatone/go-formstate/pkg/openapi"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the customer form as an OpenAPI document",
		Long:  `Derives a JSON schema from the customer form tree and prints it as an OpenAPI 3 component.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.Document(cmd.Context(), "Customer", a.cfg.Render.Title, customer.NewForm())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
