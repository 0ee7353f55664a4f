package handler

import (
	"errors"
	"fmt"
	"net/http"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/dto"
	"resourceshop/internal/app/settings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ Packages ============

// GetAdminPackages lists every package, disabled ones included
// @Summary All packages
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]ds.ResourcePackage}
// @Router /api/admin/packages [get]
func (h *APIHandler) GetAdminPackages(c *gin.Context) {
	packages, err := h.Store.ListPackages(c.Request.Context(), false)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", packages)
}

// CreatePackage adds a package to the catalog
// @Summary Create package
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePackageRequest true "Package"
// @Success 201 {object} dto.SuccessResponse{data=ds.ResourcePackage}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/packages [post]
func (h *APIHandler) CreatePackage(c *gin.Context) {
	var request dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	pkg := request.Model()
	if err := h.Store.CreatePackage(c.Request.Context(), pkg); err != nil {
		h.storeErrorResponse(c, err)
		return
	}

	logrus.Infof("package %d %q created", pkg.ID, pkg.Name)
	h.successResponse(c, http.StatusCreated, "Package created", pkg)
}

// UpdatePackage changes the given fields of a package
// @Summary Update package
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Param request body dto.UpdatePackageRequest true "Fields to change"
// @Success 200 {object} dto.SuccessResponse{data=ds.ResourcePackage}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/packages/{id} [put]
func (h *APIHandler) UpdatePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_PACKAGE_ID", "invalid package id")
		return
	}

	var request dto.UpdatePackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	pkg, err := h.Store.UpdatePackage(c.Request.Context(), id, request.Columns())
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Package updated", pkg)
}

// DeletePackage removes a package that was never sold
// @Summary Delete package
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/admin/packages/{id} [delete]
func (h *APIHandler) DeletePackage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_PACKAGE_ID", "invalid package id")
		return
	}

	if err := h.Store.DeletePackage(c.Request.Context(), id); err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Package deleted", nil)
}

// ============ Individual resources ============

// GetAdminResources lists every individual resource
// @Summary All individual resources
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]ds.IndividualResource}
// @Router /api/admin/resources [get]
func (h *APIHandler) GetAdminResources(c *gin.Context) {
	resources, err := h.Store.ListResources(c.Request.Context(), false)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", resources)
}

// CreateResource adds an individual resource
// @Summary Create individual resource
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResourceRequest true "Resource"
// @Success 201 {object} dto.SuccessResponse{data=ds.IndividualResource}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/resources [post]
func (h *APIHandler) CreateResource(c *gin.Context) {
	var request dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	res := request.Model()
	if err := checkBounds(res.MinimumAmount, res.MaximumAmount); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	if err := h.Store.CreateResource(c.Request.Context(), res); err != nil {
		h.storeErrorResponse(c, err)
		return
	}

	logrus.Infof("resource %d %q created", res.ID, res.Name)
	h.successResponse(c, http.StatusCreated, "Resource created", res)
}

// UpdateResource changes the given fields of an individual resource
// @Summary Update individual resource
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.UpdateResourceRequest true "Fields to change"
// @Success 200 {object} dto.SuccessResponse{data=ds.IndividualResource}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/resources/{id} [put]
func (h *APIHandler) UpdateResource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_RESOURCE_ID", "invalid resource id")
		return
	}

	var request dto.UpdateResourceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	ctx := c.Request.Context()
	current, err := h.Store.GetResource(ctx, id)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	if err := checkBounds(request.Bounds(current)); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	res, err := h.Store.UpdateResource(ctx, id, request.Columns())
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Resource updated", res)
}

// DeleteResource removes an individual resource
// @Summary Delete individual resource
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/resources/{id} [delete]
func (h *APIHandler) DeleteResource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_RESOURCE_ID", "invalid resource id")
		return
	}

	if err := h.Store.DeleteResource(c.Request.Context(), id); err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Resource deleted", nil)
}

func checkBounds(minimum int64, maximum *int64) error {
	if maximum != nil && minimum > *maximum {
		return fmt.Errorf("minimum_amount %d exceeds maximum_amount %d", minimum, *maximum)
	}
	return nil
}

// ============ Settings ============

// GetSettings returns the store settings
// @Summary Store settings
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=settings.StoreSettings}
// @Router /api/admin/settings [get]
func (h *APIHandler) GetSettings(c *gin.Context) {
	st, err := h.Settings.Load(c.Request.Context())
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "", st)
}

// UpdateSettings overlays the given fields on the current settings
// @Summary Update store settings
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body settings.StoreSettings true "Fields to change"
// @Success 200 {object} dto.SuccessResponse{data=settings.StoreSettings}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/settings [put]
func (h *APIHandler) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.Settings.Load(ctx)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}

	if err := c.ShouldBindJSON(&st); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	if err := h.Settings.Save(ctx, st); err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		h.storeErrorResponse(c, err)
		return
	}

	logrus.Info("store settings updated")
	h.successResponse(c, http.StatusOK, "Settings updated", st)
}

// ============ Users ============

// GrantCredits adds credits to a user balance
// @Summary Grant credits
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param request body dto.GrantCreditsRequest true "Amount"
// @Success 200 {object} dto.SuccessResponse{data=dto.CreditsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/credits/{user_id} [post]
func (h *APIHandler) GrantCredits(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_USER_ID", "invalid user id")
		return
	}

	var request dto.GrantCreditsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_AMOUNT", validationMessage(err))
		return
	}

	ctx := c.Request.Context()
	if err := h.Store.Credit(ctx, userID, request.Amount); err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	balance, err := h.Store.Balance(ctx, userID)
	if err != nil {
		h.storeErrorResponse(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "amount": request.Amount}).Info("credits granted")
	h.successResponse(c, http.StatusOK, "Credits granted", dto.CreditsResponse{Balance: balance})
}

// UpdateBillingProfile sets whether a user receives invoices
// @Summary Update billing profile
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param request body dto.BillingProfileRequest true "Profile"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/billing/{user_id} [put]
func (h *APIHandler) UpdateBillingProfile(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "INVALID_USER_ID", "invalid user id")
		return
	}

	var request dto.BillingProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", validationMessage(err))
		return
	}

	profile := &ds.BillingProfile{
		UserID:           userID,
		Email:            request.Email,
		CompanyName:      request.CompanyName,
		InvoicingEnabled: request.InvoicingEnabled,
	}
	if err := h.Store.SaveBillingProfile(c.Request.Context(), profile); err != nil {
		h.storeErrorResponse(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Billing profile saved", nil)
}
