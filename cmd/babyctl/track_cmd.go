package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/quickaction"

	"github.com/spf13/cobra"
)

func newBabiesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "babies",
		Short: "Lista los bebés activos de la familia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []babies.Baby
			_, err := c.page(cmd.Context(), "babies", func(ctx context.Context, familyID string) error {
				var err error
				list, err = c.app.Babies.ListActive(ctx, familyID)
				return err
			})
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.printf("No babies yet. Add one with: babyctl babies add NAME --birth YYYY-MM-DD\n")
				return nil
			}
			for _, b := range list {
				c.printf("%s\t%s\t%s\n", b.ID, b.Name, c.app.Babies.Age(b))
			}
			return nil
		},
	}

	var birth, gender string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Registra un bebé",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bd, err := time.Parse("2006-01-02", birth)
			if err != nil {
				return fmt.Errorf("--birth must be YYYY-MM-DD")
			}
			familyID, err := c.page(cmd.Context(), "babies-add", noLoad)
			if err != nil {
				return err
			}
			b, err := c.app.Babies.Create(cmd.Context(), familyID, babies.CreateInput{Name: args[0], BirthDate: bd, Gender: gender})
			if err != nil {
				return err
			}
			c.printf("Added %s (%s)\n", b.Name, b.ID)
			return nil
		},
	}
	add.Flags().StringVar(&birth, "birth", "", "fecha de nacimiento YYYY-MM-DD")
	add.Flags().StringVar(&gender, "gender", "", "male|female")
	_ = add.MarkFlagRequired("birth")

	cmd.AddCommand(add)
	return cmd
}

func newStartCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start BABY sleep|walk|breastfeeding",
		Short: "Inicia una actividad cronometrada",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := activities.ParseTimedActivity(args[1])
			if !ok {
				return fmt.Errorf("unknown activity %q (sleep|walk|breastfeeding)", args[1])
			}
			p, err := c.loadTimed(cmd.Context(), "start", args[0], a)
			if err != nil {
				return err
			}
			rec, err := c.app.QuickActions.Start(cmd.Context(), c.actor(p.familyID), p.loaded, p.baby.ID, a)
			if err != nil {
				return err
			}
			c.printf("%s started for %s at %s\n", a, p.baby.Name, rec.StartedAt.Format("15:04"))
			return nil
		},
	}
}

func newStopCmd(c *cli) *cobra.Command {
	var side string
	cmd := &cobra.Command{
		Use:   "stop BABY sleep|walk|breastfeeding",
		Short: "Detiene la actividad en curso",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := activities.ParseTimedActivity(args[1])
			if !ok {
				return fmt.Errorf("unknown activity %q (sleep|walk|breastfeeding)", args[1])
			}
			var opts quickaction.StopOptions
			if side != "" {
				s, ok := activities.ParseBreastSide(side)
				if !ok {
					return fmt.Errorf("--side must be left, right or both")
				}
				opts.Side = s
			}

			p, err := c.loadTimed(cmd.Context(), "stop", args[0], a)
			if err != nil {
				return err
			}
			current, ok := quickaction.FindInProgress(p.loaded, p.baby.ID, a)
			if !ok {
				return fmt.Errorf("%s is not in progress for %s", a, p.baby.Name)
			}
			rec, err := c.app.QuickActions.Stop(cmd.Context(), c.actor(p.familyID), p.loaded, current.ID, opts)
			if err != nil {
				return err
			}
			m, _ := rec.DurationMinutes()
			c.printf("%s stopped for %s: %d min\n", a, p.baby.Name, m)
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "", "lado final del amamantamiento (left|right|both)")
	return cmd
}

func newDiaperCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "diaper BABY gas|urine|liquid|mixed",
		Short: "Registra un pañal con valores por defecto",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := activities.ParseDiaperType(args[1])
			if !ok {
				return fmt.Errorf("unknown diaper type %q", args[1])
			}
			var list []babies.Baby
			familyID, err := c.page(cmd.Context(), "diaper", func(ctx context.Context, familyID string) error {
				var err error
				list, err = c.app.Babies.ListActive(ctx, familyID)
				return err
			})
			if err != nil {
				return err
			}
			b, err := findBaby(list, args[0])
			if err != nil {
				return err
			}
			if _, err := c.app.QuickActions.QuickDiaper(cmd.Context(), c.actor(familyID), b.ID, t); err != nil {
				return err
			}
			c.printf("%s diaper recorded for %s\n", t, b.Name)
			return nil
		},
	}
}

type timedPage struct {
	familyID string
	baby     babies.Baby
	loaded   []activities.Record
}

// loadTimed carga los bebés y los registros en curso de la actividad.
// La búsqueda del bebé va fuera del load: un nombre mal escrito no se reintenta.
func (c *cli) loadTimed(ctx context.Context, name, babyRef string, a activities.TimedActivity) (timedPage, error) {
	var (
		list   []babies.Baby
		loaded []activities.Record
	)
	familyID, err := c.page(ctx, name, func(ctx context.Context, familyID string) error {
		var err error
		if list, err = c.app.Babies.ListActive(ctx, familyID); err != nil {
			return err
		}
		loaded, err = c.app.Activities.List(ctx, activities.ListFilter{
			FamilyID:       familyID,
			Kinds:          []activities.Kind{a.Kind()},
			InProgressOnly: true,
		})
		return err
	})
	if err != nil {
		return timedPage{}, err
	}
	b, err := findBaby(list, babyRef)
	if err != nil {
		return timedPage{}, err
	}
	return timedPage{familyID: familyID, baby: b, loaded: loaded}, nil
}

// findBaby acepta el id o el nombre (sin distinguir mayúsculas).
func findBaby(list []babies.Baby, ref string) (babies.Baby, error) {
	for _, b := range list {
		if b.ID == ref || strings.EqualFold(b.Name, ref) {
			return b, nil
		}
	}
	return babies.Baby{}, fmt.Errorf("%w: %q", babies.ErrNotFound, ref)
}

func (c *cli) actor(familyID string) activities.Actor {
	return activities.Actor{FamilyID: familyID, CaregiverID: c.store.CaregiverID()}
}
