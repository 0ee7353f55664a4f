package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/dto"
	"resourceshop/internal/app/middleware"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/role"
	"resourceshop/internal/app/settings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const invoiceLinkTTL = time.Hour

// Shop is the storefront used by the user endpoints.
type Shop interface {
	ListPackages(ctx context.Context) ([]purchase.PackageOffer, error)
	ListResources(ctx context.Context) (*purchase.ResourceCatalog, error)
	PurchasePackage(ctx context.Context, userID, packageID uint) (*purchase.PackageReceipt, error)
	PurchaseResource(ctx context.Context, userID, resourceID uint, amount int64) (*purchase.ResourceReceipt, error)
	ListPurchases(ctx context.Context, userID uint, page, limit int) (*purchase.PurchasePage, error)
	Credits(ctx context.Context, userID uint) (int64, error)
}

// Store is the persistence used by the admin and account endpoints.
type Store interface {
	ListPackages(ctx context.Context, enabledOnly bool) ([]ds.ResourcePackage, error)
	CreatePackage(ctx context.Context, pkg *ds.ResourcePackage) error
	UpdatePackage(ctx context.Context, id uint, columns map[string]interface{}) (*ds.ResourcePackage, error)
	DeletePackage(ctx context.Context, id uint) error

	ListResources(ctx context.Context, enabledOnly bool) ([]ds.IndividualResource, error)
	GetResource(ctx context.Context, id uint) (*ds.IndividualResource, error)
	CreateResource(ctx context.Context, res *ds.IndividualResource) error
	UpdateResource(ctx context.Context, id uint, columns map[string]interface{}) (*ds.IndividualResource, error)
	DeleteResource(ctx context.Context, id uint) error

	Balance(ctx context.Context, userID uint) (int64, error)
	Credit(ctx context.Context, userID uint, amount int64) error
	UserResources(ctx context.Context, userID uint) (ds.Resources, error)
	SaveBillingProfile(ctx context.Context, profile *ds.BillingProfile) error
	GetInvoice(ctx context.Context, id uint) (*ds.Invoice, error)
}

// InvoiceLinks signs download links of archived invoices.
type InvoiceLinks interface {
	Exists(ctx context.Context, key string) (bool, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// APIHandler serves the REST API.
type APIHandler struct {
	Shop        Shop
	Store       Store
	Settings    settings.Provider
	Links       InvoiceLinks
	AuthHandler *AuthHandler
}

// NewAPIHandler builds the handler. links may be nil when MinIO is not configured.
func NewAPIHandler(shop Shop, store Store, settingsProvider settings.Provider, links InvoiceLinks, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Shop:        shop,
		Store:       store,
		Settings:    settingsProvider,
		Links:       links,
		AuthHandler: authHandler,
	}
}

var purchaseStatus = map[purchase.Code]int{
	purchase.CodePackageNotFound:             http.StatusNotFound,
	purchase.CodePackageDisabled:             http.StatusForbidden,
	purchase.CodeStoreDisabled:               http.StatusServiceUnavailable,
	purchase.CodeInvalidPackagePrice:         http.StatusBadRequest,
	purchase.CodeIndividualPurchasesDisabled: http.StatusServiceUnavailable,
	purchase.CodeResourceNotFound:            http.StatusNotFound,
	purchase.CodeInvalidAmount:               http.StatusBadRequest,
	purchase.CodeBelowMinimum:                http.StatusBadRequest,
	purchase.CodeAboveMaximum:                http.StatusBadRequest,
	purchase.CodeInsufficientCredits:         http.StatusForbidden,
	purchase.CodeCreditDeductionFailed:       http.StatusInternalServerError,
	purchase.CodeResourceAdditionFailed:      http.StatusInternalServerError,
	purchase.CodePurchaseFailed:              http.StatusInternalServerError,
}

// ============ Helpers ============

func (h *APIHandler) getUserFromContext(c *gin.Context) (uint, role.Role, error) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return 0, role.Buyer, fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get(middleware.ContextUserRole)
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok || id == 0 {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, r, fmt.Errorf("invalid user ID")
	}

	return id, r, nil
}

// currentUser writes a 401 and returns false when the request carries no user.
func (h *APIHandler) currentUser(c *gin.Context) (uint, role.Role, bool) {
	id, r, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		return 0, r, false
	}
	return id, r, true
}

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Code:    code,
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// purchaseErrorResponse maps purchase errors to their HTTP status. Server side
// failures are logged with their cause and answered with the generic message.
func (h *APIHandler) purchaseErrorResponse(c *gin.Context, err error) {
	var pe *purchase.Error
	if !errors.As(err, &pe) {
		pe = &purchase.Error{Code: purchase.CodePurchaseFailed, Message: "Purchase failed", Err: err}
	}

	status, ok := purchaseStatus[pe.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
	}

	response := dto.ErrorResponse{
		Status:  "fail",
		Code:    string(pe.Code),
		Message: pe.Message,
	}
	if pe.Code == purchase.CodeInsufficientCredits {
		response.Required = &pe.Required
		response.Available = &pe.Available
	}
	c.JSON(status, response)
}

// storeErrorResponse maps repository errors of the admin endpoints.
func (h *APIHandler) storeErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.Is(err, repository.ErrInUse):
		h.errorResponse(c, http.StatusConflict, "IN_USE", err.Error())
	default:
		logrus.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		h.errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ============ Catalog ============

// GetPackages returns the enabled packages with current prices
// @Summary Package catalog
// @Description Enabled packages ordered by sort order, priced with the active discounts
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]purchase.PackageOffer}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/packages [get]
func (h *APIHandler) GetPackages(c *gin.Context) {
	offers, err := h.Shop.ListPackages(c.Request.Context())
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", offers)
}

// GetIndividualResources returns the resources sold per unit
// @Summary Individual resource catalog
// @Description Empty list with enabled=false while individual purchases are switched off
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=purchase.ResourceCatalog}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/individual-resources [get]
func (h *APIHandler) GetIndividualResources(c *gin.Context) {
	catalog, err := h.Shop.ListResources(c.Request.Context())
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", catalog)
}

// ============ Purchases ============

// PurchasePackage buys a package with credits
// @Summary Buy a package
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchasePackageRequest true "Package"
// @Success 200 {object} dto.SuccessResponse{data=purchase.PackageReceipt}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/purchase [post]
func (h *APIHandler) PurchasePackage(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	var request dto.PurchasePackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_PACKAGE_ID", "package_id must be a positive integer")
		return
	}

	receipt, err := h.Shop.PurchasePackage(c.Request.Context(), userID, request.PackageID)
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Package purchased", receipt)
}

// PurchaseIndividualResource buys units of a single resource
// @Summary Buy an individual resource
// @Tags Store
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchaseResourceRequest true "Resource and amount"
// @Success 200 {object} dto.SuccessResponse{data=purchase.ResourceReceipt}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/individual-resources/purchase [post]
func (h *APIHandler) PurchaseIndividualResource(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	var request dto.PurchaseResourceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		if !fieldFailed(err, "ResourceID", "resource_id") && fieldFailed(err, "Amount", "amount") {
			h.errorResponse(c, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive integer")
			return
		}
		h.errorResponse(c, http.StatusBadRequest, "INVALID_RESOURCE_ID", "resource_id must be a positive integer")
		return
	}

	receipt, err := h.Shop.PurchaseResource(c.Request.Context(), userID, request.ResourceID, request.Amount)
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Resource purchased", receipt)
}

// GetPurchases returns the purchase history of the user
// @Summary Purchase history
// @Tags Store
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1-100, default 50"
// @Success 200 {object} dto.SuccessResponse{data=purchase.PurchasePage}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/purchases [get]
func (h *APIHandler) GetPurchases(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	var query dto.PurchaseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_QUERY", "page and limit must be integers")
		return
	}

	page, err := h.Shop.ListPurchases(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", page)
}

// ============ Account ============

// GetCredits returns the credit balance
// @Summary Credit balance
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=dto.CreditsResponse}
// @Router /api/credits [get]
func (h *APIHandler) GetCredits(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	balance, err := h.Shop.Credits(c.Request.Context(), userID)
	if err != nil {
		h.purchaseErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", dto.CreditsResponse{Balance: balance})
}

// GetProfile returns the balance and granted limits of the user
// @Summary Account profile
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=dto.ProfileResponse}
// @Router /api/profile [get]
func (h *APIHandler) GetProfile(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	balance, err := h.Store.Balance(ctx, userID)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	resources, err := h.Store.UserResources(ctx, userID)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.ProfileResponse{
		UserID:    userID,
		Role:      userRole.String(),
		Credits:   balance,
		Resources: resources,
	})
}

// GetInvoice returns an invoice of the user
// @Summary Invoice
// @Description Admins may read any invoice. download_url is set while the archived copy exists.
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.InvoiceResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/invoices/{id} [get]
func (h *APIHandler) GetInvoice(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	inv, err := h.Store.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	if inv.UserID != userID && userRole != role.Admin {
		h.errorResponse(c, http.StatusNotFound, "NOT_FOUND", "record not found")
		return
	}

	response := dto.InvoiceResponse{Invoice: inv}
	if h.Links != nil && inv.ArchiveKey != "" {
		response.DownloadURL = h.invoiceLink(c.Request.Context(), inv)
	}
	h.successResponse(c, http.StatusOK, "", response)
}

// invoiceLink signs a download link for an archived invoice, or returns ""
// when the archive copy is gone or the storage cannot be reached.
func (h *APIHandler) invoiceLink(ctx context.Context, inv *ds.Invoice) string {
	log := logrus.WithField("invoice", inv.Number)

	exists, err := h.Links.Exists(ctx, inv.ArchiveKey)
	if err != nil {
		log.WithError(err).Warn("failed to check invoice archive")
		return ""
	}
	if !exists {
		log.Warnf("archive %s is missing", inv.ArchiveKey)
		return ""
	}

	url, err := h.Links.PresignedURL(ctx, inv.ArchiveKey, invoiceLinkTTL)
	if err != nil {
		log.WithError(err).Warn("failed to sign invoice link")
		return ""
	}
	return url
}

// Ping checks that the API is up
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}
