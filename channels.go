package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dmetrikx/shiva/internal/config"
	"github.com/Dmetrikx/shiva/internal/store"
)

// cliActor is recorded as enabled_by for channels switched on from the CLI
const cliActor = "cli"

func newChannelsCommand() *cobra.Command {
	var dbPath string

	channelsRoot := &cobra.Command{
		Use:   "channels",
		Short: "Manage channels where AI chat is enabled",
		Long:  "Inspect and edit the channel activation database without connecting to Discord. A running bot picks up changes once its cache entry expires.",
	}
	channelsRoot.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (defaults to DATABASE_PATH)")

	openStore := func() (*store.Store, error) {
		path := dbPath
		if path == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, err
			}
			if err := cfg.ValidateStorage(); err != nil {
				return nil, err
			}
			path = cfg.DatabasePath
		}
		return store.New(path)
	}

	enableCmd := &cobra.Command{
		Use:     "enable <guild-id> <channel-id>",
		Short:   "Enable AI chat in a channel",
		Example: "  shiva channels enable 123456789 987654321",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.EnableChannel(cmd.Context(), args[0], args[1], cliActor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enabled AI chat in channel %s (guild %s)\n", args[1], args[0])
			return nil
		},
	}

	disableCmd := &cobra.Command{
		Use:     "disable <guild-id> <channel-id>",
		Short:   "Disable AI chat in a channel",
		Example: "  shiva channels disable 123456789 987654321",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			err = st.DisableChannel(cmd.Context(), args[0], args[1])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("channel %s in guild %s is not enabled", args[1], args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disabled AI chat in channel %s (guild %s)\n", args[1], args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:     "list [guild-id]",
		Short:   "List channels where AI chat is enabled",
		Example: "  shiva channels list\n  shiva channels list 123456789",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			guildID := ""
			if len(args) == 1 {
				guildID = strings.TrimSpace(args[0])
			}
			channels, err := st.ListChannels(cmd.Context(), guildID)
			if err != nil {
				return err
			}
			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels enabled.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GUILD\tCHANNEL\tENABLED BY\tENABLED AT")
			for _, ch := range channels {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ch.GuildID, ch.ChannelID, ch.EnabledBy, ch.EnabledAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	channelsRoot.AddCommand(enableCmd, disableCmd, listCmd)
	return channelsRoot
}
