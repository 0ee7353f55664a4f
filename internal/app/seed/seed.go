// Package seed loads a YAML description of the catalog and applies it to the store.
// Packages and resources are matched by name, so running a file twice updates rows in place.
// Credits are added on every run.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/pricing"
	"resourceshop/internal/app/settings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type File struct {
	Settings        map[string]string      `yaml:"settings"`
	BulkDiscounts   []pricing.BulkDiscount `yaml:"bulk_discounts" validate:"dive"`
	Packages        []Package              `yaml:"packages" validate:"dive"`
	Resources       []Resource             `yaml:"resources" validate:"dive"`
	Credits         []Credit               `yaml:"credits" validate:"dive"`
	BillingProfiles []BillingProfile       `yaml:"billing_profiles" validate:"dive"`
}

type Discount struct {
	Percentage float64 `yaml:"percentage" validate:"gte=0,lte=100"`
	Start      string  `yaml:"start"`
	End        string  `yaml:"end"`
	Enabled    bool    `yaml:"enabled"`
}

type Package struct {
	Name        string                    `yaml:"name" validate:"required,max=100"`
	Description string                    `yaml:"description"`
	Price       int64                     `yaml:"price" validate:"gt=0"`
	Enabled     *bool                     `yaml:"enabled"`
	SortOrder   int                       `yaml:"sort_order"`
	Resources   map[ds.ResourceType]int64 `yaml:"resources" validate:"dive,keys,resource_type,endkeys,gte=0"`
	Discount    Discount                  `yaml:"discount"`
}

type Resource struct {
	Name          string          `yaml:"name" validate:"required,max=100"`
	Description   string          `yaml:"description"`
	ResourceType  ds.ResourceType `yaml:"resource_type" validate:"resource_type"`
	Unit          string          `yaml:"unit" validate:"required,max=20"`
	PricePerUnit  int64           `yaml:"price_per_unit" validate:"gt=0"`
	MinimumAmount int64           `yaml:"minimum_amount" validate:"gte=0"`
	MaximumAmount *int64          `yaml:"maximum_amount" validate:"omitempty,gte=1"`
	Enabled       *bool           `yaml:"enabled"`
	SortOrder     int             `yaml:"sort_order"`
	Discount      Discount        `yaml:"discount"`
}

type Credit struct {
	UserID uint  `yaml:"user_id" validate:"required"`
	Amount int64 `yaml:"amount" validate:"gt=0"`
}

type BillingProfile struct {
	UserID           uint   `yaml:"user_id" validate:"required"`
	Email            string `yaml:"email" validate:"omitempty,email"`
	CompanyName      string `yaml:"company_name"`
	InvoicingEnabled bool   `yaml:"invoicing_enabled"`
}

// Target is the storage the seed is applied to.
type Target interface {
	ListPackages(ctx context.Context, enabledOnly bool) ([]ds.ResourcePackage, error)
	CreatePackage(ctx context.Context, pkg *ds.ResourcePackage) error
	UpdatePackage(ctx context.Context, id uint, columns map[string]interface{}) (*ds.ResourcePackage, error)
	ListResources(ctx context.Context, enabledOnly bool) ([]ds.IndividualResource, error)
	CreateResource(ctx context.Context, res *ds.IndividualResource) error
	UpdateResource(ctx context.Context, id uint, columns map[string]interface{}) (*ds.IndividualResource, error)
	Credit(ctx context.Context, userID uint, amount int64) error
	SaveBillingProfile(ctx context.Context, profile *ds.BillingProfile) error
}

type SettingsStore interface {
	Load(ctx context.Context) (settings.StoreSettings, error)
	Save(ctx context.Context, st settings.StoreSettings) error
}

// Report counts what Apply changed.
type Report struct {
	PackagesCreated  int
	PackagesUpdated  int
	ResourcesCreated int
	ResourcesUpdated int
	CreditsGranted   int64
	ProfilesSaved    int
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
		return ds.ResourceType(fl.Field().String()).Valid()
	})
	return v
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a seed document, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	for _, res := range file.Resources {
		if res.MaximumAmount != nil && res.minimum() > *res.MaximumAmount {
			return nil, fmt.Errorf("invalid seed: resource %q: minimum_amount exceeds maximum_amount", res.Name)
		}
	}
	return &file, nil
}

type Seeder struct {
	Target   Target
	Settings SettingsStore
}

func NewSeeder(target Target, st SettingsStore) *Seeder {
	return &Seeder{
		Target:   target,
		Settings: st,
	}
}

// Apply writes the file to the store. It stops at the first failure; rows written before it stay.
func (s *Seeder) Apply(ctx context.Context, file *File) (Report, error) {
	var report Report

	if err := s.applySettings(ctx, file); err != nil {
		return report, err
	}
	if err := s.applyPackages(ctx, file.Packages, &report); err != nil {
		return report, err
	}
	if err := s.applyResources(ctx, file.Resources, &report); err != nil {
		return report, err
	}

	for _, profile := range file.BillingProfiles {
		err := s.Target.SaveBillingProfile(ctx, &ds.BillingProfile{
			UserID:           profile.UserID,
			Email:            profile.Email,
			CompanyName:      profile.CompanyName,
			InvoicingEnabled: profile.InvoicingEnabled,
		})
		if err != nil {
			return report, fmt.Errorf("billing profile of user %d: %w", profile.UserID, err)
		}
		report.ProfilesSaved++
	}

	for _, credit := range file.Credits {
		if err := s.Target.Credit(ctx, credit.UserID, credit.Amount); err != nil {
			return report, fmt.Errorf("credits of user %d: %w", credit.UserID, err)
		}
		report.CreditsGranted += credit.Amount
	}

	logrus.WithFields(logrus.Fields{
		"packages_created":  report.PackagesCreated,
		"packages_updated":  report.PackagesUpdated,
		"resources_created": report.ResourcesCreated,
		"resources_updated": report.ResourcesUpdated,
		"credits_granted":   report.CreditsGranted,
		"profiles_saved":    report.ProfilesSaved,
	}).Info("seed applied")

	return report, nil
}

func (s *Seeder) applySettings(ctx context.Context, file *File) error {
	if len(file.Settings) == 0 && file.BulkDiscounts == nil {
		return nil
	}

	current, err := s.Settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	kv := settings.Encode(current)
	for k, v := range file.Settings {
		kv[k] = v
	}
	if file.BulkDiscounts != nil {
		kv[settings.KeyBulkDiscounts] = settings.EncodeBulkDiscounts(file.BulkDiscounts)
	}

	if err := s.Settings.Save(ctx, settings.Decode(kv)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Seeder) applyPackages(ctx context.Context, packages []Package, report *Report) error {
	existing, err := s.Target.ListPackages(ctx, false)
	if err != nil {
		return fmt.Errorf("list packages: %w", err)
	}
	byName := make(map[string]uint, len(existing))
	for _, pkg := range existing {
		byName[pkg.Name] = pkg.ID
	}

	for _, p := range packages {
		model := p.model()
		if id, ok := byName[p.Name]; ok {
			if _, err := s.Target.UpdatePackage(ctx, id, packageColumns(model)); err != nil {
				return fmt.Errorf("update package %q: %w", p.Name, err)
			}
			report.PackagesUpdated++
			continue
		}
		if err := s.Target.CreatePackage(ctx, model); err != nil {
			return fmt.Errorf("create package %q: %w", p.Name, err)
		}
		byName[p.Name] = model.ID
		report.PackagesCreated++
	}
	return nil
}

func (s *Seeder) applyResources(ctx context.Context, resources []Resource, report *Report) error {
	existing, err := s.Target.ListResources(ctx, false)
	if err != nil {
		return fmt.Errorf("list resources: %w", err)
	}
	byName := make(map[string]uint, len(existing))
	for _, res := range existing {
		byName[res.Name] = res.ID
	}

	for _, r := range resources {
		model := r.model()
		if id, ok := byName[r.Name]; ok {
			if _, err := s.Target.UpdateResource(ctx, id, resourceColumns(model)); err != nil {
				return fmt.Errorf("update resource %q: %w", r.Name, err)
			}
			report.ResourcesUpdated++
			continue
		}
		if err := s.Target.CreateResource(ctx, model); err != nil {
			return fmt.Errorf("create resource %q: %w", r.Name, err)
		}
		byName[r.Name] = model.ID
		report.ResourcesCreated++
	}
	return nil
}

func (d Discount) model() ds.Discount {
	return ds.Discount{
		DiscountPercentage: d.Percentage,
		DiscountStartDate:  d.Start,
		DiscountEndDate:    d.End,
		DiscountEnabled:    d.Enabled,
	}
}

func (p Package) model() *ds.ResourcePackage {
	pkg := &ds.ResourcePackage{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Enabled:     p.Enabled == nil || *p.Enabled,
		SortOrder:   p.SortOrder,
		Discount:    p.Discount.model(),
	}
	for t, amount := range p.Resources {
		pkg.Resources.Set(t, amount)
	}
	return pkg
}

func (r Resource) minimum() int64 {
	if r.MinimumAmount == 0 {
		return 1
	}
	return r.MinimumAmount
}

func (r Resource) model() *ds.IndividualResource {
	res := &ds.IndividualResource{
		Name:          r.Name,
		ResourceType:  r.ResourceType,
		Unit:          r.Unit,
		PricePerUnit:  r.PricePerUnit,
		MinimumAmount: r.minimum(),
		MaximumAmount: r.MaximumAmount,
		Enabled:       r.Enabled == nil || *r.Enabled,
		SortOrder:     r.SortOrder,
		Discount:      r.Discount.model(),
	}
	if r.Description != "" {
		res.Description = &r.Description
	}
	return res
}

func discountColumns(cols map[string]interface{}, d ds.Discount) {
	cols["discount_percentage"] = d.DiscountPercentage
	cols["discount_start_date"] = d.DiscountStartDate
	cols["discount_end_date"] = d.DiscountEndDate
	cols["discount_enabled"] = d.DiscountEnabled
}

func packageColumns(pkg *ds.ResourcePackage) map[string]interface{} {
	cols := map[string]interface{}{
		"description": pkg.Description,
		"price":       pkg.Price,
		"enabled":     pkg.Enabled,
		"sort_order":  pkg.SortOrder,
	}
	for _, t := range ds.ResourceTypes {
		cols[string(t)] = pkg.Resources.Get(t)
	}
	discountColumns(cols, pkg.Discount)
	return cols
}

func resourceColumns(res *ds.IndividualResource) map[string]interface{} {
	cols := map[string]interface{}{
		"description":    res.Description,
		"resource_type":  string(res.ResourceType),
		"unit":           res.Unit,
		"price_per_unit": res.PricePerUnit,
		"minimum_amount": res.MinimumAmount,
		"maximum_amount": res.MaximumAmount,
		"enabled":        res.Enabled,
		"sort_order":     res.SortOrder,
	}
	discountColumns(cols, res.Discount)
	return cols
}
