package main

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiwari-pos/pricebook/internal/ingest"
	"github.com/kiwari-pos/pricebook/internal/tui"
	"github.com/kiwari-pos/pricebook/internal/ws"
)

const (
	watchDebounce  = 250 * time.Millisecond
	liveMaxBackoff = 30 * time.Second
)

func newBrowseCmd(v *viper.Viper) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Browse opens a terminal browser. Type to search the active collection,
tab and shift+tab switch collections, esc quits.

With --watch the catalog file is reloaded when it changes on disk. With
--live the browser follows a configuration host's change stream and
refetches the remote configuration whenever it is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.Close()

			// The alternate screen owns the terminal; keep log output off it.
			if dir := v.GetString("state_dir"); dir != "" {
				f, err := tea.LogToFile(filepath.Join(dir, "browse.log"), "browse")
				if err != nil {
					return err
				}
				defer f.Close()
			} else {
				log.SetOutput(io.Discard)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := tea.NewProgram(tui.New(s), tea.WithAltScreen(), tea.WithContext(ctx))

			if watch {
				go func() {
					err := ingest.Watch(ctx, v.GetString("catalog_path"), watchDebounce, func() {
						p.Send(tui.ReloadMsg{})
					})
					if err != nil {
						log.Printf("WARN: catalog watch stopped: %v", err)
					}
				}()
			}
			if url := v.GetString("live_url"); url != "" {
				go ws.SubscribeLoop(ctx, url, liveMaxBackoff, func(ev ws.Event) {
					if ev.Type == ws.EventConfigUpdated {
						p.Send(tui.RefreshMsg{})
					}
				})
			}

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog when the file changes")
	cmd.Flags().String("live", v.GetString("live_url"), "websocket URL of a configuration host's change stream")
	v.BindPFlag("live_url", cmd.Flags().Lookup("live"))
	return cmd
}
