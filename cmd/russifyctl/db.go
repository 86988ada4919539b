package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"russify/internal/config"
	"russify/internal/database"
	"russify/internal/modules/auth"
	"russify/internal/modules/contact"
	"russify/internal/pkg/jwt"
	"russify/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a staff account",
	Long: `Create an admin account. Admins cannot register over HTTP; this is the
only way to create one.`,
	RunE: runCreateAdmin,
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List recent contact-form leads",
	RunE:  runLeads,
}

var (
	adminName     string
	adminPhone    string
	adminEmail    string
	adminPassword string
	leadsLimit    int
)

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name (required)")
	createAdminCmd.Flags().StringVar(&adminPhone, "phone", "", "Login phone (required)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password, at least 6 characters (required)")
	createAdminCmd.MarkFlagRequired("name")
	createAdminCmd.MarkFlagRequired("phone")
	createAdminCmd.MarkFlagRequired("password")

	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 20, "How many leads to show")
}

// openDB loads the server configuration and opens a migrated database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, _, err := openDB()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", redactDSN(cfg.DatabaseURL))
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg, db, err := openDB()
	if err != nil {
		return err
	}

	svc := auth.NewService(repository.NewUserRepository(db), jwt.New(cfg.JWTSecret, cfg.JWTTTL), logger)
	req := auth.CreateAdminRequest{Name: adminName, Phone: adminPhone, Password: adminPassword}
	if adminEmail != "" {
		req.Email = &adminEmail
	}
	user, err := svc.CreateAdmin(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin #%d created (%s)\n", user.ID, user.Phone)
	return nil
}

func runLeads(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	_, db, err := openDB()
	if err != nil {
		return err
	}

	leads, err := contact.NewService(repository.NewContactRepository(db), nil, logger).Recent(ctx, leadsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tTYPE\tNAME\tPHONE\tCAR\tRELAYED")
	for _, l := range leads {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
			l.ID, l.CreatedAt.Local().Format(time.DateTime), l.Type, l.Name, l.Phone, l.Car, l.Relayed)
	}
	return w.Flush()
}

// redactDSN hides the password of URL-style DSNs.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}
