package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"russify/internal/domain"
	"russify/internal/modules/auth"
	"russify/internal/modules/catalog"
	"russify/internal/modules/partner"
	"russify/internal/modules/upload"
	"russify/internal/pkg/jwt"
	"russify/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load accounts, requests and catalog content from a YAML file",
	Long: `Load fixtures from a YAML file. Accounts that already exist are left
alone together with their requests; catalog items are matched by type and
title and skipped when present.`,
	RunE: runSeed,
}

var seedFile string

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "Fixture file")
}

// SeedFile is the fixture format.
type SeedFile struct {
	Admins   []SeedAccount `yaml:"admins"`
	Partners []SeedPartner `yaml:"partners"`
	Catalog  []SeedItem    `yaml:"catalog"`
}

type SeedAccount struct {
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type SeedPartner struct {
	SeedAccount `yaml:",inline"`
	CompanyName string        `yaml:"company_name"`
	Requests    []SeedRequest `yaml:"requests"`
}

type SeedRequest struct {
	ClientName  string `yaml:"client_name"`
	ClientPhone string `yaml:"client_phone"`
	CarBrand    string `yaml:"car_brand"`
	CarModel    string `yaml:"car_model"`
	CarYear     int    `yaml:"car_year"`
	ServiceType string `yaml:"service_type"`
	Description string `yaml:"description"`
}

type SeedItem struct {
	Type          string   `yaml:"type"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	Price         *float64 `yaml:"price"`
	StockQuantity *int     `yaml:"stock_quantity"`
	GalleryURLs   []string `yaml:"gallery_urls"`
	DisplayOrder  int      `yaml:"display_order"`
	IsActive      *bool    `yaml:"is_active"`
}

// SeedReport counts what a seed run created.
type SeedReport struct {
	Admins   int
	Partners int
	Requests int
	Items    int
	Skipped  int
}

func decodeSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	fixtures, err := decodeSeed(f)
	if err != nil {
		return err
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}

	images := upload.NewService(repository.NewUploadRepository(db), cfg.UploadsDir, cfg.StaticURLBase, cfg.MaxAttachmentBytes, logger)
	report, err := seed(ctx, db, jwt.New(cfg.JWTSecret, cfg.JWTTTL), images, fixtures, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d admins, %d partners, %d requests, %d catalog items (%d skipped)\n",
		report.Admins, report.Partners, report.Requests, report.Items, report.Skipped)
	return nil
}

// seed applies fixtures through the same services the API uses, so every
// validation rule holds for seeded data too.
func seed(ctx context.Context, db *gorm.DB, tokens *jwt.Service, images catalog.ImageStore, fixtures *SeedFile, log *zap.Logger) (*SeedReport, error) {
	if log == nil {
		log = zap.NewNop()
	}

	users := repository.NewUserRepository(db)
	authSvc := auth.NewService(users, tokens, log)
	partnerSvc := partner.NewService(
		repository.NewRequestRepository(db),
		repository.NewWorkRepository(db),
		repository.NewBonusRepository(db),
		users,
		nil,
		log,
	)
	catalogSvc := catalog.NewService(repository.NewCatalogRepository(db), images, log)

	report := &SeedReport{}

	for _, a := range fixtures.Admins {
		req := auth.CreateAdminRequest{Name: a.Name, Phone: a.Phone, Password: a.Password, Email: optional(a.Email)}
		if _, err := authSvc.CreateAdmin(ctx, req); err != nil {
			if errors.Is(err, auth.ErrAccountExists) {
				report.Skipped++
				continue
			}
			return nil, fmt.Errorf("admin %s: %w", a.Phone, err)
		}
		report.Admins++
	}

	for _, p := range fixtures.Partners {
		res, err := authSvc.Register(ctx, auth.RegisterRequest{
			Name:            p.Name,
			CompanyName:     optional(p.CompanyName),
			Phone:           p.Phone,
			Email:           optional(p.Email),
			Password:        p.Password,
			PasswordConfirm: p.Password,
		})
		if err != nil {
			if errors.Is(err, auth.ErrAccountExists) {
				report.Skipped++
				continue
			}
			return nil, fmt.Errorf("partner %s: %w", p.Phone, err)
		}
		report.Partners++

		for _, r := range p.Requests {
			_, err := partnerSvc.CreateRequest(ctx, res.User.ID, partner.CreateRequestRequest{
				ClientName:  r.ClientName,
				ClientPhone: r.ClientPhone,
				CarBrand:    r.CarBrand,
				CarModel:    r.CarModel,
				CarYear:     r.CarYear,
				ServiceType: domain.ServiceType(r.ServiceType),
				Description: optional(r.Description),
			})
			if err != nil {
				return nil, fmt.Errorf("request %s %s for %s: %w", r.CarBrand, r.CarModel, p.Phone, err)
			}
			report.Requests++
		}
	}

	existing := make(map[string]bool)
	for _, item := range fixtures.Catalog {
		typ := domain.CatalogType(item.Type)
		if _, loaded := existing[string(typ)]; !loaded {
			current, err := catalogSvc.List(ctx, typ, true)
			if err != nil {
				return nil, fmt.Errorf("catalog %s: %w", item.Type, err)
			}
			existing[string(typ)] = true
			for _, c := range current {
				existing[catalogKey(typ, c.Title)] = true
			}
		}
		if existing[catalogKey(typ, item.Title)] {
			report.Skipped++
			continue
		}

		in := catalog.ContentRequest{
			Type:          typ,
			Title:         &item.Title,
			Description:   optional(item.Description),
			Category:      optional(item.Category),
			GalleryURLs:   item.GalleryURLs,
			Price:         item.Price,
			StockQuantity: item.StockQuantity,
			IsActive:      item.IsActive,
			DisplayOrder:  &item.DisplayOrder,
		}
		if _, err := catalogSvc.Create(ctx, 0, in); err != nil {
			return nil, fmt.Errorf("catalog %s %q: %w", item.Type, item.Title, err)
		}
		existing[catalogKey(typ, item.Title)] = true
		report.Items++
	}

	return report, nil
}

func catalogKey(typ domain.CatalogType, title string) string {
	return string(typ) + "\x00" + strings.ToLower(strings.TrimSpace(title))
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
