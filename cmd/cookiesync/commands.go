package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/internal/client"
	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/filter"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/tui"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cli holds state shared by all commands.
type cli struct {
	flags *config.FlagValues
	noTUI bool
	out   io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "cookiesync",
		Short: "Encrypted cookie sync through a private GitHub gist",
		Long: `cookiesync keeps browser cookies in sync between machines.

Cookies are read from a local jar (cookies.txt or a Firefox cookies.sqlite),
filtered by your domain and cookie policies, encrypted with a passphrase
that never leaves this machine, and stored in a secret gist.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	c.flags = config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&c.noTUI, "plain", false, "Print progress as plain lines")

	root.AddCommand(
		c.syncCommand(),
		c.daemonCommand(),
		c.statusCommand(),
		c.resetCommand(),
		c.tokenCommand(),
		c.policyCommand(),
		versionCommand(),
	)
	return root
}

// withApp builds the app for one command and closes it afterwards.
func (c *cli) withApp(cmd *cobra.Command, opts client.Options, fn func(ctx context.Context, app *client.App) error) error {
	cfg, err := config.GetClientConfig(c.flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closer := logger.NewClientLogger(cfg.Log, "cookiesync")
	defer closer.Close()

	interactive := !c.noTUI && term.IsTerminal(int(os.Stdout.Fd()))
	ui := tui.New(c.out, interactive, log)

	app, err := client.NewApp(cmd.Context(), cfg, ui, opts, log)
	if err != nil {
		log.Err(err).Str("func", "withApp").Msg("init client app error")
		return err
	}
	defer app.Close()

	return fn(cmd.Context(), app)
}

func unlock(app *client.App) error {
	passphrase, err := client.NewPassphrasePrompt().Read()
	if err != nil {
		return err
	}
	return app.Unlock(passphrase)
}

func (c *cli) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "sync [push|pull|auto]",
		Short:     "Run one sync (default auto: pull, then push)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.SyncPush), string(models.SyncPull), string(models.SyncAuto)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := models.SyncAuto
			if len(args) == 1 {
				direction = models.SyncDirection(strings.ToLower(args[0]))
			}
			return c.withApp(cmd, client.Options{WithJar: true}, func(ctx context.Context, app *client.App) error {
				if err := unlock(app); err != nil {
					return err
				}
				_, err := app.Sync(ctx, direction)
				return err
			})
		},
	}
}

func (c *cli) daemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Sync on a schedule and, with --watch, whenever the jar changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{WithJar: true}, func(ctx context.Context, app *client.App) error {
				if err := unlock(app); err != nil {
					return err
				}
				return app.Daemon(ctx)
			})
		},
	}
}

func (c *cli) statusCommand() *cobra.Command {
	var copyID bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the remembered gist and whether a sync is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Status(ctx, copyID)
			})
		},
	}
	cmd.Flags().BoolVar(&copyID, "copy", false, "Copy the gist id to the clipboard")
	return cmd
}

func (c *cli) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the remembered gist, ETag and last pushed hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Reset(ctx)
			})
		},
	}
}

func (c *cli) tokenCommand() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage the GitHub token",
	}

	set := &cobra.Command{
		Use:   "set [TOKEN]",
		Short: "Save a token with the gist scope; read from stdin when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				var err error
				if value, err = client.ReadToken(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Services().CredentialService.SaveToken(ctx, value)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Services().CredentialService.ClearToken(ctx)
			})
		},
	}

	token.AddCommand(set, clearCmd)
	return token
}

func (c *cli) policyCommand() *cobra.Command {
	policy := &cobra.Command{
		Use:   "policy",
		Short: "Manage filters, domain and cookie policies, and the schedule",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.PrintPreferences(ctx)
			})
		},
	}

	policy.AddCommand(list, c.domainPolicyCommand(), c.cookiePolicyCommand(), c.filterCommand(), c.scheduleCommand())
	return policy
}

func (c *cli) domainPolicyCommand() *cobra.Command {
	domain := &cobra.Command{Use: "domain", Short: "Allow or block a domain and its subdomains"}

	add := &cobra.Command{
		Use:   "add PATTERN allow|block",
		Short: "Add or replace a domain policy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := filter.ParseMode(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				p, err := app.Services().PolicyService.SetDomainPolicy(ctx, args[0], mode)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s %s\n", p.Mode, p.Domain)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm PATTERN",
		Short: "Remove a domain policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				removed, err := app.Services().PolicyService.RemoveDomainPolicy(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no domain policy for %q", args[0])
				}
				return nil
			})
		},
	}

	domain.AddCommand(add, rm)
	return domain
}

func (c *cli) cookiePolicyCommand() *cobra.Command {
	cookie := &cobra.Command{Use: "cookie", Short: "Allow or block a single cookie, name@domain"}

	add := &cobra.Command{
		Use:   "add NAME@DOMAIN allow|block",
		Short: "Add or replace a cookie policy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := filter.ParseMode(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Services().PolicyService.SetCookiePolicy(ctx, args[0], mode)
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm NAME@DOMAIN",
		Short: "Remove a cookie policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				removed, err := app.Services().PolicyService.RemoveCookiePolicy(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no cookie policy for %q", args[0])
				}
				return nil
			})
		},
	}

	cookie.AddCommand(add, rm)
	return cookie
}

func (c *cli) filterCommand() *cobra.Command {
	var allow, block []string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Replace the exact-match allow and block domain lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Services().PolicyService.SetFilters(ctx, models.DomainFilters{Allow: allow, Block: block})
			})
		},
	}
	cmd.Flags().StringSliceVar(&allow, "allow", nil, "Only sync these domains")
	cmd.Flags().StringSliceVar(&block, "block", nil, "Never sync these domains")
	return cmd
}

func (c *cli) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule MINUTES",
		Short: "Set the daemon interval; 0 uses the configured default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
			return c.withApp(cmd, client.Options{}, func(ctx context.Context, app *client.App) error {
				return app.Services().PolicyService.SetSchedule(ctx, minutes)
			})
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderBuildInfo(info))
		},
	}
}
