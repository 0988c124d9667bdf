// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/validators"
)

const clientRole = "go-key-vault-client"

// BuildInfo is stamped into the binary by the linker.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", orNA(b.Version), orNA(b.Date), orNA(b.Commit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Opener builds an App for commands that talk to the server.
type Opener func(ctx context.Context, configPath string) (*App, error)

type cli struct {
	prompt     Prompter
	out        io.Writer
	open       Opener
	policy     validators.PasswordPolicy
	configPath string
}

// NewRootCommand returns the client command tree. Running the root command
// without a subcommand starts the TUI.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, NewTerminalPrompter(), os.Stdout, defaultOpener)
}

func newRootCommand(info BuildInfo, prompt Prompter, out io.Writer, open Opener) *cobra.Command {
	c := &cli{
		prompt: prompt,
		out:    out,
		open:   open,
		policy: validators.NewPasswordPolicy(),
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the vault in the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  c.runTUI,
	}

	root := &cobra.Command{
		Use:           "vault",
		Short:         "Zero-knowledge secrets vault client",
		Version:       info.String(),
		Args:          cobra.NoArgs,
		RunE:          c.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a JSON config file")

	root.AddCommand(
		tuiCmd,
		&cobra.Command{
			Use:   "register",
			Short: "Create an account and set the master secret",
			Args:  cobra.NoArgs,
			RunE:  c.runRegister,
		},
		&cobra.Command{
			Use:   "login",
			Short: "Log in and keep the token in the OS keyring",
			Args:  cobra.NoArgs,
			RunE:  c.runLogin,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the saved token",
			Args:  cobra.NoArgs,
			RunE:  c.runLogout,
		},
		&cobra.Command{
			Use:   "check-password",
			Short: "Check a candidate master secret against the password policy",
			Args:  cobra.NoArgs,
			RunE:  c.runCheckPassword,
		},
		c.generateCommand(),
	)

	return root
}

func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	return c.withApp(cmd, func(ctx context.Context, app *App) error {
		return app.Run(ctx)
	})
}

func (c *cli) runRegister(cmd *cobra.Command, _ []string) error {
	login, err := c.readRequired(c.prompt.ReadLine, "Login: ")
	if err != nil {
		return err
	}
	password, err := c.readRequired(c.prompt.ReadSecret, "Account password: ")
	if err != nil {
		return err
	}
	masterSecret, err := c.readRequired(c.prompt.ReadSecret, "Master secret: ")
	if err != nil {
		return err
	}

	if result := c.policy.Validate(masterSecret); !result.Valid {
		c.printViolations(result)
		return ErrWeakSecret
	}

	confirm, err := c.prompt.ReadSecret("Repeat master secret: ")
	if err != nil {
		return err
	}
	if confirm != masterSecret {
		return ErrSecretsDoNotMatch
	}

	return c.withApp(cmd, func(ctx context.Context, app *App) error {
		err := app.Auth().Register(ctx, login, password, masterSecret)
		var policyErr *validators.PolicyError
		if errors.As(err, &policyErr) {
			c.printViolations(validators.PolicyResult{Violations: policyErr.Violations})
			return ErrWeakSecret
		}
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(c.out, "Registered %s. Keep your master secret safe: it cannot be recovered.\n", login)
		return nil
	})
}

func (c *cli) runLogin(cmd *cobra.Command, _ []string) error {
	login, err := c.readRequired(c.prompt.ReadLine, "Login: ")
	if err != nil {
		return err
	}
	password, err := c.readRequired(c.prompt.ReadSecret, "Account password: ")
	if err != nil {
		return err
	}

	return c.withApp(cmd, func(ctx context.Context, app *App) error {
		if err := app.Auth().Login(ctx, login, password); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(c.out, "Logged in as %s.\n", login)
		return nil
	})
}

func (c *cli) runLogout(cmd *cobra.Command, _ []string) error {
	return c.withApp(cmd, func(ctx context.Context, app *App) error {
		if err := app.Auth().Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Logged out.")
		return nil
	})
}

func (c *cli) runCheckPassword(_ *cobra.Command, _ []string) error {
	candidate, err := c.prompt.ReadSecret("Candidate: ")
	if err != nil {
		return err
	}

	result := c.policy.Validate(candidate)
	if !result.Valid {
		c.printViolations(result)
		return ErrWeakSecret
	}

	color.New(color.FgGreen).Fprintln(c.out, "Secret satisfies the password policy.")
	return nil
}

func (c *cli) generateCommand() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random secret",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			secret, err := crypto.GenerateSecret(length)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, secret)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", crypto.DefaultGeneratedLength, "secret length")

	return cmd
}

func (c *cli) printViolations(result validators.PolicyResult) {
	red := color.New(color.FgRed)
	for _, v := range result.Violations {
		red.Fprintf(c.out, "  ✗ %s\n", v.Describe(c.policy))
	}
}

func (c *cli) readRequired(read func(string) (string, error), prompt string) (string, error) {
	value, err := read(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s %w", strings.TrimSuffix(prompt, ": "), ErrEmptyInput)
	}
	return value, nil
}

func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := c.open(ctx, c.configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}

func defaultOpener(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.GetClientConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewFileLogger(clientRole, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		return nil, fmt.Errorf("set log level: %w", err)
	}

	return OpenApp(ctx, cfg, log)
}
