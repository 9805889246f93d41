package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shikkq/4eremsha/internal/scrape"
)

func newFavoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage bookmarked shelters",
	}

	add := &cobra.Command{
		Use:   "add <user_id> <shelter_id>",
		Short: "Bookmark a shelter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			added, err := a.db.AddFavorite(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), "already in favorites")
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <user_id> <shelter_id>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.db.RemoveFavorite(cmd.Context(), args[0], args[1])
		},
	}

	var limit int
	posts := &cobra.Command{
		Use:   "posts <user_id>",
		Short: "Show recent posts of bookmarked shelters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.db.ListFavoritePosts(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Shelter", "Published", "Post"})
			for _, p := range items {
				t.AppendRow(table.Row{p.ShelterID, p.PublishedAt.Local().Format("02.01 15:04"), p.PostURL})
			}
			t.Render()
			return nil
		},
	}
	posts.Flags().IntVar(&limit, "limit", 20, "max posts")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch new posts of every bookmarked shelter now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, fetch, err := a.fetchers()
			if err != nil {
				return err
			}
			n, err := scrape.NewFavoritesRefresher(a.cfg, a.db, fetch, a.log).Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%d new posts\n", n)
			return err
		},
	}

	cmd.AddCommand(add, rm, posts, refresh)
	return cmd
}
