package main

import (
	"fmt"

	"coal-site/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		file  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write seed content into empty tables",
		Long: "Loads the seed YAML (the built-in sample content by default) and inserts each section into its table when that table is empty. " +
			"A seed runs once per database; --force runs it again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			store, closeDB, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if file == "" {
				file = cfg.SeedFile
			}
			var opts []seed.ApplyOption
			if force {
				opts = append(opts, seed.Force())
			}
			if err := applySeed(cmd.Context(), store, file, log, opts...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "apply even if a seed ran before")
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file (defaults to SEED_FILE or the built-in content)")
	return cmd
}
