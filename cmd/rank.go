package main

import (
	"fmt"
	"strconv"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/internal/ranking"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTopCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "top <category>",
		Short: "Show the most voted works in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := category.Normalize(args[0])
			if err != nil {
				return err
			}

			engine, closeFn, err := ctx.rankingEngine(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			top, err := engine.TopN(cmd.Context(), c, limit)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, top)
			}
			if len(top) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s yet\n", c.Plural())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWorks(cmd.OutOrStdout(), "Top "+c.Label(), top))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", ranking.DefaultLimit, "Number of works to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newBestCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show the most voted work across every category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := ctx.rankingEngine(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			best, ok, err := engine.BestOverall(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				if !ok {
					return writeJSON(cmd, nil)
				}
				return writeJSON(cmd, best)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No works yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWorks(cmd.OutOrStdout(), "Media Spotlight", []model.Work{best}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (c *commandContext) rankingEngine(cmd *cobra.Command) (*ranking.Engine, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, nil, err
	}
	st, err := c.openStore(cmd.Context(), logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return ranking.NewEngine(st, cfg.TopLimit), closeFn, nil
}

func workRows(works []model.Work) [][]string {
	rows := make([][]string, 0, len(works))
	for i, w := range works {
		year := ""
		if w.PublicationYear != nil {
			year = strconv.Itoa(*w.PublicationYear)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(w.VoteCount),
			w.Title,
			w.Category.String(),
			w.Creator,
			year,
		})
	}
	return rows
}
