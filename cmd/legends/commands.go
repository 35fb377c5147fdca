package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/brief"
	"github.com/naveenspark/legends/internal/browser"
	"github.com/naveenspark/legends/pkg/client"
	"github.com/naveenspark/legends/pkg/domain"
)

var errPasswordFlag = errors.New("password required: pipe it in with --password-stdin")

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "legends "+version)
		},
	}
}

type briefFlags struct {
	name     string
	devType  string
	idea     string
	audience string
	features string
	output   string
	file     string
	open     bool
}

func newBriefCmd(st *state) *cobra.Command {
	var f briefFlags
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Generate a project brief from flags",
		Long: `Generate a project brief without opening the app.

The brief is either saved as a markdown file (--output d) or copied to the
clipboard (--output c). Development types:
  ` + strings.Join(domain.DevTypes, "\n  "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrief(cmd, st, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "project name")
	fl.StringVar(&f.devType, "type", "", "development type")
	fl.StringVar(&f.idea, "idea", "", "project idea")
	fl.StringVar(&f.audience, "audience", "", "target audience")
	fl.StringVar(&f.features, "features", "", "comma separated key features")
	fl.StringVarP(&f.output, "output", "o", "", "output method: d (download) or c (clipboard)")
	fl.StringVar(&f.file, "file", "", "file name without extension (download only)")
	fl.BoolVar(&f.open, "open", false, "open the downloaded brief")
	return cmd
}

func runBrief(cmd *cobra.Command, st *state, f briefFlags) error {
	out, err := brief.ParseOutput(f.output)
	if err != nil {
		return err
	}
	if f.devType != "" && !domain.ValidDevType(f.devType) {
		return fmt.Errorf("unknown development type %q", f.devType)
	}

	fields := brief.Fields{
		ProjectName: f.name,
		DevType:     f.devType,
		Idea:        f.idea,
		Audience:    f.audience,
		Features:    f.features,
		Output:      out,
	}
	if out == brief.OutputDownload {
		fields.FileName = f.file
	}

	gen, _, err := st.generator()
	if err != nil {
		return err
	}
	res, err := gen.Generate(fields)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch res.Output {
	case brief.OutputDownload:
		fmt.Fprintf(w, "Downloaded %s\n", res.Path)
		if f.open {
			return browser.Open(res.Path)
		}
	case brief.OutputClipboard:
		fmt.Fprintln(w, "Prompt copied to clipboard!")
	}
	return nil
}

type credentialFlags struct {
	email         string
	passwordStdin bool
}

func (c *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().BoolVar(&c.passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above
}

func (c *credentialFlags) password(in io.Reader) (string, error) {
	if !c.passwordStdin {
		return "", errPasswordFlag
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errPasswordFlag
	}
	return pw, nil
}

func newLoginCmd() *cobra.Command {
	var c credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := c.password(cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := auth.MustFromContext(cmd.Context())
			if err := p.SignIn(cmd.Context(), c.email, pw); err != nil {
				return errors.New(client.Message(err))
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Signed in as %s\n", p.Snapshot().Identity.Email)
			if p.Mode() == auth.ModeDemo {
				fmt.Fprintln(w, "Demo mode: the session lasts until this command exits.")
			}
			return nil
		},
	}
	c.bind(cmd)
	return cmd
}

func newSignUpCmd() *cobra.Command {
	var c credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := c.password(cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := auth.MustFromContext(cmd.Context())
			user, err := p.SignUp(cmd.Context(), c.email, pw)
			if err != nil {
				return errors.New(client.Message(err))
			}
			w := cmd.OutOrStdout()
			if p.Snapshot().Session != nil {
				fmt.Fprintf(w, "Account created. Signed in as %s\n", user.Email)
				return nil
			}
			fmt.Fprintf(w, "Account created for %s. Confirm your email, then run: legends login\n", user.Email)
			return nil
		},
	}
	c.bind(cmd)
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := auth.MustFromContext(cmd.Context())
			p.Start(cmd.Context())
			p.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newResetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := auth.MustFromContext(cmd.Context())
			if err := p.ResetPassword(cmd.Context(), email); err != nil {
				return errors.New(client.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "If %s has an account, a reset link is on its way.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := auth.MustFromContext(cmd.Context())
			p.Start(cmd.Context())

			w := cmd.OutOrStdout()
			snap := p.Snapshot()
			if snap.Session == nil {
				printGreeting(w)
				return nil
			}
			fmt.Fprintf(w, "%s\n", snap.Identity.Email)
			fmt.Fprintf(w, "  id       %s\n", snap.Identity.ID)
			fmt.Fprintf(w, "  mode     %s\n", p.Mode())
			if exp := snap.Session.ExpiresAt; !exp.IsZero() {
				fmt.Fprintf(w, "  expires  %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
