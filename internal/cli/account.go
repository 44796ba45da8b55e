package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/frame/internal/app"
	"github.com/five82/frame/internal/validate"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var form validate.LoginForm

	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in and remember the session",
		Example: `  frame login --email me@example.com --password 'S3cret!pass'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				s, err := deps.Session.Login(ctx, form)
				if err != nil {
					return err
				}
				deps.Gallery.SetUser(s.User)
				fmt.Fprint(cmd.OutOrStdout(), okStyle.Render("Signed in as "))
				printUser(cmd.OutOrStdout(), s.User)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(flags *globalFlags) *cobra.Command {
	var form validate.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Names use letters, numbers, spaces and underscores;
the phone number is 10 digits; passwords need at least 8 characters with
upper and lower case letters, a number and a special character.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				msg, err := deps.Session.Register(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(msg))
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Sign in with `frame login --email "+form.Email+"`."))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password again (defaults to --password)")
	for _, name := range []string{"name", "email", "phone", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				deps.Gallery.SignOut()
				if err := deps.Session.Logout(ctx); err != nil {
					printNotice(cmd.OutOrStdout(), "Signed out locally; the service did not confirm.")
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Signed out."))
				return nil
			})
		},
	}
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				s, err := requireSession(deps)
				if err != nil {
					return err
				}
				printUser(cmd.OutOrStdout(), s.User)
				return nil
			})
		},
	}
}

func newPasswdCmd(flags *globalFlags) *cobra.Command {
	var form validate.ChangePasswordForm

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				if _, err := requireSession(deps); err != nil {
					return err
				}
				msg, err := deps.Session.ChangePassword(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(msg))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.OldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&form.NewPassword, "new", "", "new password")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}
