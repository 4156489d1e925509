package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"offlinelicense/internal/config"
	"offlinelicense/internal/license"
	"offlinelicense/internal/logger"
)

type rootOptions struct {
	profile string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "keygen",
		Short: "Generate and validate offline license keys",
		Long: `keygen issues and checks license keys without a server or database.

Generation and validation must use the same profile: key size, magic table,
checksum magic, byte checks and hasher all have to match. Run 'keygen magic'
once to draw a table and paste it into the profile.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "License profile YAML (default: built-in demo profile)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newMagicCmd())
	return root
}

func (o *rootOptions) logger() *zap.SugaredLogger {
	if o.debug {
		return logger.New("debug")
	}
	return zap.NewNop().Sugar()
}

func (o *rootOptions) operator() (*license.Operator, error) {
	p, err := config.LoadProfile(o.profile)
	if err != nil {
		return nil, err
	}
	if p.RandomMagic() {
		return nil, fmt.Errorf("profile has no magic table; keys would not validate in another run (see 'keygen magic')")
	}
	return p.Operator(o.logger())
}
