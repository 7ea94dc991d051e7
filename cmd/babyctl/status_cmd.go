package main

import (
	"context"

	"baby-care-tracker/internal/dashboard"

	"github.com/spf13/cobra"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Resumen de hoy: estado de cada bebé y totales de la familia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ov dashboard.Overview
			_, err := c.page(cmd.Context(), "dashboard", func(ctx context.Context, familyID string) error {
				var err error
				ov, err = c.app.Dashboard.Overview(ctx, familyID)
				return err
			})
			if err != nil {
				return err
			}
			c.printOverview(ov)
			return nil
		},
	}
}

func (c *cli) printOverview(ov dashboard.Overview) {
	t := ov.Totals
	c.printf("Babies: %d  Caregivers: %d  Feedings today: %d  Sleep today: %dh  Walks today: %d\n",
		t.Babies, t.Caregivers, t.FeedingsToday, t.SleepHoursToday, t.WalksToday)

	for _, b := range ov.Babies {
		c.printf("\n%s (%s)\n", b.Name, b.AgeLabel)
		if b.Degraded {
			c.printf("  some data could not be loaded\n")
		}
		if st := b.Status; st != nil {
			line := "  " + string(st.Status)
			if st.Since != nil {
				line += " since " + st.Since.Format("15:04")
			}
			c.printf("%s\n", line)
			if st.HoursSinceLastFeeding != nil {
				c.printf("  last feeding %.1fh ago (%s)\n", *st.HoursSinceLastFeeding, st.LastFeedingType)
			}
		}
		c.printf("  slept %d min today\n", b.SleepMinutesToday)
		if g := b.LatestGrowth; g != nil {
			c.printf("  latest weight %d g (%s)\n", g.WeightGrams, g.MeasuredAt.Format("2006-01-02"))
		}
	}
}
