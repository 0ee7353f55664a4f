package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"resourceshop/internal/app/config"
	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/invoice"
	"resourceshop/internal/app/middleware"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/role"
	"resourceshop/internal/app/settings"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-secret"

type testAPI struct {
	router   *gin.Engine
	repo     *repository.Repository
	settings *settings.Store
	revoked  map[string]time.Duration
}

type memoryRevoker struct {
	revoked map[string]time.Duration
}

func (m *memoryRevoker) WriteJWTToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	m.revoked[token] = ttl
	return nil
}

func (m *memoryRevoker) IsJWTBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := m.revoked[token]
	return ok, nil
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithLinks(t, nil)
}

func newTestAPIWithLinks(t *testing.T, links InvoiceLinks) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: repository.NewGormLogger().LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))

	repo := repository.NewFromDB(db)
	st := settings.NewStore(repo, nil, 0)
	shop := purchase.NewService(purchase.Deps{
		Catalog:   repo,
		Credits:   repo,
		Resources: repo,
		History:   repo,
		Invoices:  invoice.NewService(repo, nil),
		Settings:  st,
	}, purchase.Options{})

	revoker := &memoryRevoker{revoked: map[string]time.Duration{}}
	am := middleware.NewAuthMiddleware(revoker, config.JWTConfig{Token: testSecret})
	h := NewAPIHandler(shop, repo, st, links, NewAuthHandler(revoker, am))

	router := gin.New()
	h.RegisterAPIRoutes(router, am)

	return &testAPI{router: router, repo: repo, settings: st, revoked: revoker.revoked}
}

func token(t *testing.T, userID uint, r role.Role) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		UserID:         userID,
		Role:           r,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type response struct {
	Status    string          `json:"status"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Required  *int64          `json:"required"`
	Available *int64          `json:"available"`
	Data      json.RawMessage `json:"data"`
}

func (a *testAPI) do(t *testing.T, method, path, tok string, body interface{}) (int, response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func (a *testAPI) seedPackage(t *testing.T) *ds.ResourcePackage {
	t.Helper()
	pkg := &ds.ResourcePackage{
		Name:      "Starter",
		Resources: ds.Resources{MemoryLimit: 1024, ServerLimit: 1},
		Price:     1000,
		Enabled:   true,
		Discount:  ds.Discount{DiscountPercentage: 20, DiscountEnabled: true},
	}
	require.NoError(t, a.repo.CreatePackage(context.Background(), pkg))
	return pkg
}

func TestPurchaseFlow(t *testing.T) {
	api := newTestAPI(t)
	pkg := api.seedPackage(t)
	buyer := token(t, 5, role.Buyer)
	admin := token(t, 1, role.Admin)

	status, resp := api.do(t, http.MethodPost, "/api/purchase", buyer, gin.H{"package_id": pkg.ID})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INSUFFICIENT_CREDITS", resp.Code)
	require.NotNil(t, resp.Required)
	assert.Equal(t, int64(800), *resp.Required)
	assert.Equal(t, int64(0), *resp.Available)

	status, _ = api.do(t, http.MethodPost, "/api/admin/credits/5", admin, gin.H{"amount": 1000})
	require.Equal(t, http.StatusOK, status)

	status, resp = api.do(t, http.MethodPost, "/api/purchase", buyer, gin.H{"package_id": pkg.ID})
	require.Equal(t, http.StatusOK, status, resp.Message)
	var receipt purchase.PackageReceipt
	require.NoError(t, json.Unmarshal(resp.Data, &receipt))
	assert.Equal(t, int64(800), receipt.PricePaid)
	assert.Equal(t, int64(200), receipt.CreditsRemaining)
	assert.Equal(t, int64(1024), receipt.Resources[ds.MemoryLimit])
	assert.Nil(t, receipt.InvoiceID)

	status, resp = api.do(t, http.MethodGet, "/api/purchases?page=1&limit=10", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var page purchase.PurchasePage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Pages)
	require.Len(t, page.Purchases, 1)
	assert.Equal(t, "Starter", page.Purchases[0].PackageName)

	status, resp = api.do(t, http.MethodGet, "/api/profile", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		Credits   int64        `json:"credits"`
		Resources ds.Resources `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, int64(200), profile.Credits)
	assert.Equal(t, int64(1024), profile.Resources.MemoryLimit)
}

func TestPurchaseErrors(t *testing.T) {
	api := newTestAPI(t)
	pkg := api.seedPackage(t)
	buyer := token(t, 5, role.Buyer)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing package id", "/api/purchase", gin.H{}, http.StatusBadRequest, "INVALID_PACKAGE_ID"},
		{"package id of wrong type", "/api/purchase", gin.H{"package_id": "one"}, http.StatusBadRequest, "INVALID_PACKAGE_ID"},
		{"unknown package", "/api/purchase", gin.H{"package_id": pkg.ID + 100}, http.StatusNotFound, "PACKAGE_NOT_FOUND"},
		{"individual purchases off", "/api/individual-resources/purchase", gin.H{"resource_id": 1, "amount": 1}, http.StatusServiceUnavailable, "INDIVIDUAL_PURCHASES_DISABLED"},
		{"missing resource id", "/api/individual-resources/purchase", gin.H{"amount": 1}, http.StatusBadRequest, "INVALID_RESOURCE_ID"},
		{"zero amount", "/api/individual-resources/purchase", gin.H{"resource_id": 1, "amount": 0}, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"negative amount", "/api/individual-resources/purchase", gin.H{"resource_id": 1, "amount": -2}, http.StatusBadRequest, "INVALID_AMOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := api.do(t, http.MethodPost, tt.path, buyer, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "fail", resp.Status)
		})
	}
}

func TestStoreDisabled(t *testing.T) {
	api := newTestAPI(t)
	pkg := api.seedPackage(t)
	admin := token(t, 1, role.Admin)

	status, _ := api.do(t, http.MethodPut, "/api/admin/settings", admin, gin.H{
		"store_enabled":       false,
		"maintenance_message": "Inventory in progress",
	})
	require.Equal(t, http.StatusOK, status)

	status, resp := api.do(t, http.MethodPost, "/api/purchase", token(t, 5, role.Buyer), gin.H{"package_id": pkg.ID})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_DISABLED", resp.Code)
	assert.Equal(t, "Inventory in progress", resp.Message)
}

func TestIndividualResourceFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := token(t, 1, role.Admin)
	buyer := token(t, 9, role.Buyer)

	status, resp := api.do(t, http.MethodGet, "/api/individual-resources", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"resources":[],"enabled":false}`, string(resp.Data))

	status, _ = api.do(t, http.MethodPut, "/api/admin/settings", admin, gin.H{
		"individual_purchases_enabled":  true,
		"invoice_generation_enabled":    true,
		"invoice_generation_individual": true,
	})
	require.Equal(t, http.StatusOK, status)

	status, resp = api.do(t, http.MethodPost, "/api/admin/resources", admin, gin.H{
		"name":           "Extra RAM",
		"resource_type":  "memory_limit",
		"unit":           "GB",
		"price_per_unit": 100,
		"minimum_amount": 1,
		"maximum_amount": 8,
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var res ds.IndividualResource
	require.NoError(t, json.Unmarshal(resp.Data, &res))

	require.NoError(t, api.repo.Credit(context.Background(), 9, 500))
	status, _ = api.do(t, http.MethodPut, "/api/admin/billing/9", admin, gin.H{"invoicing_enabled": true})
	require.Equal(t, http.StatusOK, status)

	status, resp = api.do(t, http.MethodPost, "/api/individual-resources/purchase", buyer, gin.H{"resource_id": res.ID, "amount": 9})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ABOVE_MAXIMUM", resp.Code)
	assert.Equal(t, "Maximum purchase amount is 8 GB", resp.Message)

	status, resp = api.do(t, http.MethodPost, "/api/individual-resources/purchase", buyer, gin.H{"resource_id": res.ID, "amount": 2})
	require.Equal(t, http.StatusOK, status, resp.Message)
	var receipt purchase.ResourceReceipt
	require.NoError(t, json.Unmarshal(resp.Data, &receipt))
	assert.Equal(t, int64(200), receipt.PricePaid)
	assert.Equal(t, int64(300), receipt.CreditsRemaining)
	require.NotNil(t, receipt.InvoiceID)

	granted, err := api.repo.UserResources(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), granted.MemoryLimit)

	status, resp = api.do(t, http.MethodGet, "/api/invoices/"+itoa(*receipt.InvoiceID), buyer, nil)
	require.Equal(t, http.StatusOK, status)
	var inv ds.Invoice
	require.NoError(t, json.Unmarshal(resp.Data, &inv))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Extra RAM (2 GB)", inv.Items[0].Description)

	status, _ = api.do(t, http.MethodGet, "/api/invoices/"+itoa(*receipt.InvoiceID), token(t, 10, role.Buyer), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

type archiveLinks struct {
	objects map[string]bool
	signed  []string
}

func (a *archiveLinks) Exists(_ context.Context, key string) (bool, error) {
	return a.objects[key], nil
}

func (a *archiveLinks) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	a.signed = append(a.signed, key)
	return "https://files.example.com/" + key, nil
}

func TestInvoiceDownloadLink(t *testing.T) {
	links := &archiveLinks{objects: map[string]bool{"invoices/INV-20260101-AAAA0001.json": true}}
	api := newTestAPIWithLinks(t, links)
	buyer := token(t, 4, role.Buyer)
	ctx := context.Background()

	archived := &ds.Invoice{Number: "INV-20260101-AAAA0001", UserID: 4, Status: "paid", ArchiveKey: "invoices/INV-20260101-AAAA0001.json"}
	missing := &ds.Invoice{Number: "INV-20260101-AAAA0002", UserID: 4, Status: "paid", ArchiveKey: "invoices/INV-20260101-AAAA0002.json"}
	require.NoError(t, api.repo.CreateInvoice(ctx, archived))
	require.NoError(t, api.repo.CreateInvoice(ctx, missing))

	var body struct {
		DownloadURL string `json:"download_url"`
	}

	status, resp := api.do(t, http.MethodGet, "/api/invoices/"+itoa(archived.ID), buyer, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "https://files.example.com/invoices/INV-20260101-AAAA0001.json", body.DownloadURL)

	body.DownloadURL = ""
	status, resp = api.do(t, http.MethodGet, "/api/invoices/"+itoa(missing.ID), buyer, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Empty(t, body.DownloadURL)

	assert.Equal(t, []string{"invoices/INV-20260101-AAAA0001.json"}, links.signed)
}

func TestAdminCatalog(t *testing.T) {
	api := newTestAPI(t)
	admin := token(t, 1, role.Admin)

	status, _ := api.do(t, http.MethodGet, "/api/admin/packages", token(t, 2, role.Buyer), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp := api.do(t, http.MethodPost, "/api/admin/packages", admin, gin.H{"name": "Pro", "price": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)

	status, resp = api.do(t, http.MethodPost, "/api/admin/packages", admin, gin.H{
		"name":         "Pro",
		"price":        2500,
		"memory_limit": 4096,
		"enabled":      false,
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var pkg ds.ResourcePackage
	require.NoError(t, json.Unmarshal(resp.Data, &pkg))
	assert.False(t, pkg.Enabled)

	status, resp = api.do(t, http.MethodPut, "/api/admin/packages/"+itoa(pkg.ID), admin, gin.H{"enabled": true, "price": 2000})
	require.Equal(t, http.StatusOK, status, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &pkg))
	assert.True(t, pkg.Enabled)
	assert.Equal(t, int64(2000), pkg.Price)
	assert.Equal(t, int64(4096), pkg.MemoryLimit)

	status, resp = api.do(t, http.MethodGet, "/api/packages", token(t, 2, role.Buyer), nil)
	require.Equal(t, http.StatusOK, status)
	var offers []purchase.PackageOffer
	require.NoError(t, json.Unmarshal(resp.Data, &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, int64(2000), offers[0].FinalPrice)

	status, _ = api.do(t, http.MethodDelete, "/api/admin/packages/"+itoa(pkg.ID), admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, resp = api.do(t, http.MethodDelete, "/api/admin/packages/"+itoa(pkg.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestAdminResourceBounds(t *testing.T) {
	api := newTestAPI(t)
	admin := token(t, 1, role.Admin)

	status, resp := api.do(t, http.MethodPost, "/api/admin/resources", admin, gin.H{
		"name": "Disk", "resource_type": "disk_limit", "unit": "GB", "price_per_unit": 10,
		"minimum_amount": 5, "maximum_amount": 2,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)

	status, resp = api.do(t, http.MethodPost, "/api/admin/resources", admin, gin.H{
		"name": "Disk", "resource_type": "gpu_limit", "unit": "GB", "price_per_unit": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = api.do(t, http.MethodPost, "/api/admin/resources", admin, gin.H{
		"name": "Disk", "resource_type": "disk_limit", "unit": "GB", "price_per_unit": 10, "maximum_amount": 10,
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var res ds.IndividualResource
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, int64(1), res.MinimumAmount)

	status, _ = api.do(t, http.MethodPut, "/api/admin/resources/"+itoa(res.ID), admin, gin.H{"minimum_amount": 20})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = api.do(t, http.MethodPut, "/api/admin/resources/"+itoa(res.ID), admin, gin.H{"minimum_amount": 20, "clear_maximum_amount": true})
	require.Equal(t, http.StatusOK, status, resp.Message)
	res = ds.IndividualResource{}
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, int64(20), res.MinimumAmount)
	assert.Nil(t, res.MaximumAmount)
}

func TestAdminSettingsValidation(t *testing.T) {
	api := newTestAPI(t)
	admin := token(t, 1, role.Admin)

	status, resp := api.do(t, http.MethodPut, "/api/admin/settings", admin, gin.H{"max_discount": 150})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)

	status, resp = api.do(t, http.MethodPut, "/api/admin/settings", admin, gin.H{
		"global_discount": 5,
		"bulk_discounts":  []gin.H{{"threshold": 5000, "percent": 10}, {"threshold": 1000, "percent": 5}},
	})
	require.Equal(t, http.StatusOK, status, resp.Message)

	st, err := api.settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5.0, st.GlobalDiscount)
	require.Len(t, st.BulkDiscounts, 2)
	assert.Equal(t, int64(1000), st.BulkDiscounts[0].Threshold)
	assert.True(t, st.StoreEnabled)
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	buyer := token(t, 3, role.Buyer)

	status, _ := api.do(t, http.MethodPost, "/api/auth/logout", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, api.revoked, buyer)

	status, _ = api.do(t, http.MethodGet, "/api/credits", buyer, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPing(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
