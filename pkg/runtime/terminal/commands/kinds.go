package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type KindsCmd struct {
	locale string
	load   Loader
}

func NewKindsCmd(load Loader) *cobra.Command {
	kc := &KindsCmd{load: load}
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the report kinds",
		RunE:  kc.run,
	}

	cmd.Flags().StringVar(&kc.locale, "locale", "", "Locale of the report titles")

	return cmd
}

func (kc *KindsCmd) run(cmd *cobra.Command, _ []string) error {
	a, err := kc.load(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	locale := kc.locale
	if locale == "" {
		locale = a.Locale()
	}
	types, err := a.Schemas.ReportTypes(locale)
	if err != nil {
		return fmt.Errorf("failed to list report kinds: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tTITLE")
	for _, t := range types {
		fmt.Fprintf(w, "%s\t%s\n", t.Kind, t.Title)
	}
	return w.Flush()
}
