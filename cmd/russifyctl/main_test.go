package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"russify/internal/config"
	"russify/internal/database/dbtest"
	"russify/internal/domain"
	"russify/internal/modules/auth"
	"russify/internal/modules/upload"
	"russify/internal/pkg/jwt"
	"russify/internal/repository"
	"russify/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
admins:
  - name: Staff
    phone: "+70000000001"
    password: adminpass
partners:
  - name: Ivan
    company_name: AutoLab
    phone: "+70000000002"
    email: ivan@autolab.test
    password: partnerpass
    requests:
      - client_name: Petr
        client_phone: "+79990000000"
        car_brand: Toyota
        car_model: Camry
        car_year: 2020
        service_type: multimedia
catalog:
  - type: works
    title: Camry multimedia
    gallery_urls: [/static/a.jpg, /static/b.jpg]
    display_order: 1
  - type: products
    title: CAN adapter
    price: 4500
    stock_quantity: 3
`

func TestDecodeSeed(t *testing.T) {
	f, err := decodeSeed(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	require.Len(t, f.Admins, 1)
	require.Len(t, f.Partners, 1)
	assert.Equal(t, "Ivan", f.Partners[0].Name)
	assert.Equal(t, "+70000000002", f.Partners[0].Phone)
	assert.Equal(t, "AutoLab", f.Partners[0].CompanyName)
	require.Len(t, f.Partners[0].Requests, 1)
	require.Len(t, f.Catalog, 2)
	require.NotNil(t, f.Catalog[1].Price)
	assert.InDelta(t, 4500, *f.Catalog[1].Price, 0.001)
}

func TestDecodeSeed_EmptyAndUnknownFields(t *testing.T) {
	f, err := decodeSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Partners)

	_, err = decodeSeed(strings.NewReader("partners:\n  - nmae: typo\n"))
	require.Error(t, err)
}

func TestSeed_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	fixtures, err := decodeSeed(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	images := upload.NewService(repository.NewUploadRepository(db), t.TempDir(), "/static", 0, nil)
	tokens := jwt.New("seed-secret", time.Hour)
	ctx := context.Background()

	report, err := seed(ctx, db, tokens, images, fixtures, nil)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Admins: 1, Partners: 1, Requests: 1, Items: 2}, report)

	var works []domain.CatalogItem
	require.NoError(t, db.Where("type = ?", domain.CatalogWorks).Find(&works).Error)
	require.Len(t, works, 1)
	require.NotNil(t, works[0].ImageURL)
	assert.Equal(t, "/static/a.jpg", *works[0].ImageURL)

	again, err := seed(ctx, db, tokens, images, fixtures, nil)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Skipped: 4}, again)

	var requests int64
	require.NoError(t, db.Model(&domain.ServiceRequest{}).Count(&requests).Error)
	assert.EqualValues(t, 1, requests)
}

// execute runs the root command the way a shell would.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPortalCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          "cli-secret",
		JWTTTL:             time.Hour,
		UploadsDir:         t.TempDir(),
		StaticURLBase:      "/static",
		MaxAttachmentBytes: 10 * 1024 * 1024,
	}
	srv := server.New(cfg, db, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	authSvc := auth.NewService(repository.NewUserRepository(db), jwt.New(cfg.JWTSecret, cfg.JWTTTL), nil)
	_, err := authSvc.CreateAdmin(context.Background(), auth.CreateAdminRequest{
		Name: "Staff", Phone: "+70000000000", Password: "adminpass",
	})
	require.NoError(t, err)

	session := filepath.Join(t.TempDir(), "session.json")
	common := []string{"--api", ts.URL, "--session", session}

	_, err = execute(t, append(common, "dashboard")...)
	require.Error(t, err)

	_, err = execute(t, append(common, "login", "+70000000000", "--password", "wrong")...)
	require.Error(t, err)

	out, err := execute(t, append(common, "login", "+70000000000", "--password", "adminpass")...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Staff (admin)")

	out, err = execute(t, append(common, "dashboard")...)
	require.NoError(t, err)
	assert.Contains(t, out, "requests: 0")
	assert.Contains(t, out, "ID")

	_, err = execute(t, append(common, "thread", "show", "abc")...)
	require.Error(t, err)

	out, err = execute(t, append(common, "logout")...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = execute(t, append(common, "dashboard")...)
	require.Error(t, err)
}
