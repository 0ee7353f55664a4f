package dto

import "resourceshop/internal/app/ds"

// ============ Common ============

type ErrorResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	Required  *int64 `json:"required,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Purchases ============

type PurchasePackageRequest struct {
	PackageID uint `json:"package_id" binding:"required"`
}

type PurchaseResourceRequest struct {
	ResourceID uint  `json:"resource_id" binding:"required"`
	Amount     int64 `json:"amount" binding:"required,gt=0"`
}

type PurchaseListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type CreditsResponse struct {
	Balance int64 `json:"balance"`
}

type ProfileResponse struct {
	UserID    uint         `json:"user_id"`
	Role      string       `json:"role"`
	Credits   int64        `json:"credits"`
	Resources ds.Resources `json:"resources"`
}

type InvoiceResponse struct {
	*ds.Invoice
	DownloadURL string `json:"download_url,omitempty"`
}

// ============ Admin: packages ============

type ResourcesFields struct {
	MemoryLimit     int64 `json:"memory_limit" binding:"gte=0"`
	CPULimit        int64 `json:"cpu_limit" binding:"gte=0"`
	DiskLimit       int64 `json:"disk_limit" binding:"gte=0"`
	ServerLimit     int64 `json:"server_limit" binding:"gte=0"`
	DatabaseLimit   int64 `json:"database_limit" binding:"gte=0"`
	BackupLimit     int64 `json:"backup_limit" binding:"gte=0"`
	AllocationLimit int64 `json:"allocation_limit" binding:"gte=0"`
}

func (f ResourcesFields) Model() ds.Resources {
	return ds.Resources{
		MemoryLimit:     f.MemoryLimit,
		CPULimit:        f.CPULimit,
		DiskLimit:       f.DiskLimit,
		ServerLimit:     f.ServerLimit,
		DatabaseLimit:   f.DatabaseLimit,
		BackupLimit:     f.BackupLimit,
		AllocationLimit: f.AllocationLimit,
	}
}

type DiscountFields struct {
	DiscountPercentage float64 `json:"discount_percentage" binding:"gte=0,lte=100"`
	DiscountStartDate  string  `json:"discount_start_date" binding:"max=40"`
	DiscountEndDate    string  `json:"discount_end_date" binding:"max=40"`
	DiscountEnabled    bool    `json:"discount_enabled"`
}

func (f DiscountFields) Model() ds.Discount {
	return ds.Discount{
		DiscountPercentage: f.DiscountPercentage,
		DiscountStartDate:  f.DiscountStartDate,
		DiscountEndDate:    f.DiscountEndDate,
		DiscountEnabled:    f.DiscountEnabled,
	}
}

type CreatePackageRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	ResourcesFields
	Price     int64 `json:"price" binding:"required,gt=0"`
	Enabled   *bool `json:"enabled"`
	SortOrder int   `json:"sort_order"`
	DiscountFields
}

// Model builds the package to insert; packages are enabled unless stated otherwise.
func (r CreatePackageRequest) Model() *ds.ResourcePackage {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &ds.ResourcePackage{
		Name:        r.Name,
		Description: r.Description,
		Resources:   r.ResourcesFields.Model(),
		Price:       r.Price,
		Enabled:     enabled,
		SortOrder:   r.SortOrder,
		Discount:    r.DiscountFields.Model(),
	}
}

// UpdatePackageRequest changes only the fields that are present.
type UpdatePackageRequest struct {
	Name               *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description        *string  `json:"description"`
	MemoryLimit        *int64   `json:"memory_limit" binding:"omitempty,gte=0"`
	CPULimit           *int64   `json:"cpu_limit" binding:"omitempty,gte=0"`
	DiskLimit          *int64   `json:"disk_limit" binding:"omitempty,gte=0"`
	ServerLimit        *int64   `json:"server_limit" binding:"omitempty,gte=0"`
	DatabaseLimit      *int64   `json:"database_limit" binding:"omitempty,gte=0"`
	BackupLimit        *int64   `json:"backup_limit" binding:"omitempty,gte=0"`
	AllocationLimit    *int64   `json:"allocation_limit" binding:"omitempty,gte=0"`
	Price              *int64   `json:"price" binding:"omitempty,gt=0"`
	Enabled            *bool    `json:"enabled"`
	SortOrder          *int     `json:"sort_order"`
	DiscountPercentage *float64 `json:"discount_percentage" binding:"omitempty,gte=0,lte=100"`
	DiscountStartDate  *string  `json:"discount_start_date" binding:"omitempty,max=40"`
	DiscountEndDate    *string  `json:"discount_end_date" binding:"omitempty,max=40"`
	DiscountEnabled    *bool    `json:"discount_enabled"`
}

// Columns maps the present fields to their database columns.
func (r UpdatePackageRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", r.Name)
	setString(cols, "description", r.Description)
	setInt64(cols, "memory_limit", r.MemoryLimit)
	setInt64(cols, "cpu_limit", r.CPULimit)
	setInt64(cols, "disk_limit", r.DiskLimit)
	setInt64(cols, "server_limit", r.ServerLimit)
	setInt64(cols, "database_limit", r.DatabaseLimit)
	setInt64(cols, "backup_limit", r.BackupLimit)
	setInt64(cols, "allocation_limit", r.AllocationLimit)
	setInt64(cols, "price", r.Price)
	setBool(cols, "enabled", r.Enabled)
	if r.SortOrder != nil {
		cols["sort_order"] = *r.SortOrder
	}
	setDiscount(cols, r.DiscountPercentage, r.DiscountStartDate, r.DiscountEndDate, r.DiscountEnabled)
	return cols
}

// ============ Admin: individual resources ============

type CreateResourceRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Description   *string         `json:"description"`
	ResourceType  ds.ResourceType `json:"resource_type" binding:"required,oneof=memory_limit cpu_limit disk_limit server_limit database_limit backup_limit allocation_limit"`
	Unit          string          `json:"unit" binding:"required,max=20"`
	PricePerUnit  int64           `json:"price_per_unit" binding:"required,gt=0"`
	MinimumAmount int64           `json:"minimum_amount" binding:"omitempty,gte=1"`
	MaximumAmount *int64          `json:"maximum_amount" binding:"omitempty,gte=1"`
	Enabled       *bool           `json:"enabled"`
	SortOrder     int             `json:"sort_order"`
	DiscountFields
}

func (r CreateResourceRequest) Model() *ds.IndividualResource {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	minimum := r.MinimumAmount
	if minimum == 0 {
		minimum = 1
	}
	return &ds.IndividualResource{
		Name:          r.Name,
		Description:   r.Description,
		ResourceType:  r.ResourceType,
		Unit:          r.Unit,
		PricePerUnit:  r.PricePerUnit,
		MinimumAmount: minimum,
		MaximumAmount: r.MaximumAmount,
		Discount:      r.DiscountFields.Model(),
		Enabled:       enabled,
		SortOrder:     r.SortOrder,
	}
}

type UpdateResourceRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string          `json:"description"`
	ResourceType  *ds.ResourceType `json:"resource_type" binding:"omitempty,oneof=memory_limit cpu_limit disk_limit server_limit database_limit backup_limit allocation_limit"`
	Unit          *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	PricePerUnit  *int64           `json:"price_per_unit" binding:"omitempty,gt=0"`
	MinimumAmount *int64           `json:"minimum_amount" binding:"omitempty,gte=1"`
	MaximumAmount *int64           `json:"maximum_amount" binding:"omitempty,gte=1"`
	// ClearMaximum removes the upper bound.
	ClearMaximum       bool     `json:"clear_maximum_amount"`
	Enabled            *bool    `json:"enabled"`
	SortOrder          *int     `json:"sort_order"`
	DiscountPercentage *float64 `json:"discount_percentage" binding:"omitempty,gte=0,lte=100"`
	DiscountStartDate  *string  `json:"discount_start_date" binding:"omitempty,max=40"`
	DiscountEndDate    *string  `json:"discount_end_date" binding:"omitempty,max=40"`
	DiscountEnabled    *bool    `json:"discount_enabled"`
}

// Bounds returns the amount limits that result from applying the update to current.
func (r UpdateResourceRequest) Bounds(current *ds.IndividualResource) (int64, *int64) {
	minimum := current.MinimumAmount
	if r.MinimumAmount != nil {
		minimum = *r.MinimumAmount
	}
	maximum := current.MaximumAmount
	if r.MaximumAmount != nil {
		maximum = r.MaximumAmount
	}
	if r.ClearMaximum {
		maximum = nil
	}
	return minimum, maximum
}

func (r UpdateResourceRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", r.Name)
	setString(cols, "description", r.Description)
	if r.ResourceType != nil {
		cols["resource_type"] = string(*r.ResourceType)
	}
	setString(cols, "unit", r.Unit)
	setInt64(cols, "price_per_unit", r.PricePerUnit)
	setInt64(cols, "minimum_amount", r.MinimumAmount)
	setInt64(cols, "maximum_amount", r.MaximumAmount)
	if r.ClearMaximum {
		cols["maximum_amount"] = nil
	}
	setBool(cols, "enabled", r.Enabled)
	if r.SortOrder != nil {
		cols["sort_order"] = *r.SortOrder
	}
	setDiscount(cols, r.DiscountPercentage, r.DiscountStartDate, r.DiscountEndDate, r.DiscountEnabled)
	return cols
}

// ============ Admin: users ============

type GrantCreditsRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type BillingProfileRequest struct {
	Email            string `json:"email" binding:"omitempty,email,max=100"`
	CompanyName      string `json:"company_name" binding:"max=100"`
	InvoicingEnabled bool   `json:"invoicing_enabled"`
}

func setString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func setInt64(cols map[string]interface{}, column string, v *int64) {
	if v != nil {
		cols[column] = *v
	}
}

func setBool(cols map[string]interface{}, column string, v *bool) {
	if v != nil {
		cols[column] = *v
	}
}

func setDiscount(cols map[string]interface{}, percentage *float64, start, end *string, enabled *bool) {
	if percentage != nil {
		cols["discount_percentage"] = *percentage
	}
	setString(cols, "discount_start_date", start)
	setString(cols, "discount_end_date", end)
	setBool(cols, "discount_enabled", enabled)
}
