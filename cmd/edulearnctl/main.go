// Command edulearnctl provisions and maintains an EduLearn installation.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/bootstrap"
	"github.com/edulearn/backend/internal/config"
	"github.com/edulearn/backend/internal/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "edulearnctl",
		Usage: "EduLearn maintenance tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration",
				Value:   bootstrap.ConfigPath(),
				EnvVars: []string{bootstrap.ConfigPathEnv},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "create-admin",
				Usage:  "create an admin account unless one with the email exists",
				Flags:  adminFlags(),
				Action: createAdmin,
			},
			{
				Name:   "reset-admin",
				Usage:  "delete every admin and create a single account",
				Flags:  adminFlags(),
				Action: resetAdmin,
			},
			{
				Name:   "clear-database",
				Usage:  "delete contents, topics, subjects and users (admins and notes are kept)",
				Action: clearDatabase,
			},
			{
				Name:  "import",
				Usage: "run a bulk upload payload from a JSON file",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "payload file", Required: true},
				},
				Action: importFile,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("edulearnctl failed")
		os.Exit(1)
	}
}

func adminFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username", Usage: "admin username (default: seed.admin_username)"},
		&cli.StringFlag{Name: "email", Usage: "admin email (default: seed.admin_email)"},
		&cli.StringFlag{Name: "password", Usage: "admin password (default: seed.admin_password)"},
		&cli.StringFlag{Name: "role", Usage: "admin or superadmin (default: seed.admin_role)"},
	}
}

// maintenance opens the configured store and returns the service plus a cleanup func
func maintenance(c *cli.Context) (*services.MaintenanceService, *config.Config, func(), error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	repos, pool, err := bootstrap.SetupDatabase(c.Context, cfg, lgr)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if pool != nil {
			pool.Close()
		}
	}

	deps, err := bootstrap.BuildDependencies(cfg, repos, pool, lgr)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return deps.Services.Maintenance, cfg, cleanup, nil
}

// accountFromFlags falls back to the seed section for every unset flag
func accountFromFlags(c *cli.Context, cfg *config.Config) services.AdminAccount {
	pick := func(flag, def string) string {
		if v := c.String(flag); v != "" {
			return v
		}
		return def
	}
	return services.AdminAccount{
		Username: pick("username", cfg.Seed.AdminUsername),
		Email:    pick("email", cfg.Seed.AdminEmail),
		Password: pick("password", cfg.Seed.AdminPassword),
		Role:     models.AdminRole(pick("role", cfg.Seed.AdminRole)),
	}
}

func createAdmin(c *cli.Context) error {
	svc, cfg, cleanup, err := maintenance(c)
	if err != nil {
		return err
	}
	defer cleanup()

	acct := accountFromFlags(c, cfg)
	created, err := svc.EnsureAdmin(c.Context, acct)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(c.App.Writer, "Admin created: %s\n", acct.Email)
	} else {
		fmt.Fprintf(c.App.Writer, "Admin already exists: %s\n", acct.Email)
	}
	return nil
}

func resetAdmin(c *cli.Context) error {
	svc, cfg, cleanup, err := maintenance(c)
	if err != nil {
		return err
	}
	defer cleanup()

	acct := accountFromFlags(c, cfg)
	removed, err := svc.ResetAdmins(c.Context, acct)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed %d admin(s), created %s\n", removed, acct.Email)
	return nil
}

func clearDatabase(c *cli.Context) error {
	svc, _, cleanup, err := maintenance(c)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.ClearContent(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d contents, %d topics, %d subjects, %d users\n",
		res.Contents, res.Topics, res.Subjects, res.Users)
	return nil
}

func importFile(c *cli.Context) error {
	raw, err := os.ReadFile(c.Path("file"))
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	svc, _, cleanup, err := maintenance(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := svc.Import(c.Context, raw)
	if err != nil {
		return err
	}
	for _, subject := range results {
		fmt.Fprintf(c.App.Writer, "%s (%s): %d topic(s)\n", subject.Subject, subject.Slug, len(subject.Topics))
	}
	return nil
}
