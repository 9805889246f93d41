package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/rank"
)

func newScoreCommand() *cobra.Command {
	var (
		city      string
		published string
	)
	cmd := &cobra.Command{
		Use:   "score [text...]",
		Short: "Score post text and show which signals fired",
		Long:  `Scores the given text (or stdin when no text is given) the way ingestion scores a post.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no text to score")
			}

			now := time.Now()
			post := domain.Post{Text: text}
			if published != "" {
				t, err := time.ParseInLocation("2006-01-02", published, time.Local)
				if err != nil {
					return fmt.Errorf("--published: %w", err)
				}
				post.PublishedAt = t
			}

			c, rej := rank.NewScorer(cfg).Score(post, city, now)
			renderScore(cmd.OutOrStdout(), c, rej, cfg.Scoring.MinScore, now)
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city the post must mention")
	cmd.Flags().StringVar(&published, "published", "", "publication date, YYYY-MM-DD")
	return cmd
}

func renderScore(w io.Writer, c rank.Candidate, rej rank.Rejection, minScore int, now time.Time) {
	if rej != rank.Accepted {
		fmt.Fprintf(w, "rejected: %s\n", rej)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Signal", "Points"})
	for _, s := range c.Signals {
		t.AppendRow(table.Row{s.Label, s.Points})
	}
	verdict := "accepted"
	if c.Score < minScore {
		verdict = fmt.Sprintf("below threshold %d", minScore)
	}
	t.AppendFooter(table.Row{"total (" + verdict + ")", c.Score})
	t.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, rank.FormatInfo(c, now))
}
