package main

import (
	"os"

	"github.com/spf13/cobra"

	sdk "github.com/meshfx-dev/meshfx-sdk"
	"github.com/meshfx-dev/meshfx-sdk/application/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mfxinfo",
		Short:         "Inspect the mesh effect plugin bundle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file (default: MFX_* environment)")

	root.AddCommand(newListCmd(opts), newManifestCmd(opts), newSmokeCmd(opts))
	return root
}

// bundle builds a bundle from --config, or from the environment.
func (o *rootOptions) bundle(opts ...sdk.BundleOption) (*sdk.Bundle, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = sdk.LoadConfigFile(o.configPath)
	} else {
		cfg, err = config.FromEnv(os.LookupEnv)
	}
	if err != nil {
		return nil, err
	}
	return sdk.NewBundle(cfg, opts...)
}
