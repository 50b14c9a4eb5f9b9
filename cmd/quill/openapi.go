package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/internal/api"
	"github.com/JaimeStill/quill/pkg/openapi"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Write the HTTP API's OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runtime := api.NewRuntime(a.cfg, a.infra)
			spec, err := api.NewSpec(a.cfg, api.Groups(api.NewDomain(runtime), runtime))
			if err != nil {
				return err
			}

			if outPath != "" {
				return openapi.WriteJSON(spec, outPath)
			}

			data, err := openapi.MarshalJSON(spec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")

	return cmd
}
