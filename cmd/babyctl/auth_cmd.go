package main

import (
	"context"

	"baby-care-tracker/internal/session"

	"github.com/spf13/cobra"
)

func newSignInCmd(c *cli) *cobra.Command {
	var phone, password string
	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Inicia sesión con teléfono y contraseña",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.store.SignIn(cmd.Context(), phone, password); err != nil {
				return err
			}
			return c.greet(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "teléfono registrado")
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignUpCmd(c *cli) *cobra.Command {
	var in session.SignUpInput
	cmd := &cobra.Command{
		Use:   "sign-up",
		Short: "Crea una cuenta de cuidador titular y su familia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.store.SignUp(cmd.Context(), in)
			if err != nil {
				return err
			}
			if res.Session.AccessToken == "" {
				c.printf("Account created for %s. Confirm it and run sign-in.\n", res.Caregiver.Name)
				return nil
			}
			return c.greet(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre del cuidador")
	cmd.Flags().StringVar(&in.FamilyName, "family", "", "nombre de la familia")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("family")
	return cmd
}

func newSignOutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sign-out",
		Short: "Cierra la sesión local",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.store.SignOut(cmd.Context())
			c.printf("Signed out.\n")
			return nil
		},
	}
}

func newWhoAmICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el cuidador y la familia de la sesión",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.greet(cmd.Context())
		},
	}
}

func (c *cli) greet(ctx context.Context) error {
	if _, err := c.page(ctx, "whoami", noLoad); err != nil {
		return err
	}
	st := c.store.State()
	c.printf("%s (%s)\n", st.Caregiver.Name, st.Caregiver.Phone)
	if st.Family != nil {
		c.printf("Family: %s\n", st.Family.Name)
	}
	return nil
}

func noLoad(context.Context, string) error { return nil }
