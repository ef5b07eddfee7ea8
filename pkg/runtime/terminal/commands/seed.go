package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	file string
	load Loader
}

func NewSeedCmd(load Loader) *cobra.Command {
	sc := &SeedCmd{load: load}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load record documents into the store",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.file, "file", "", "JSON array of patient, visit, procedure, imaging and lab documents")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := sc.load(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.LoadDocuments(ctx, sc.file)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int("documents", n).Str("file", sc.file).Msg("documents loaded")
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d documents\n", n)
	return nil
}
