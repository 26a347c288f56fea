package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an asset.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusAssigned    Status = "assigned"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusAvailable, StatusAssigned, StatusMaintenance, StatusRetired}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// ParseStatus converts a raw query or payload value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Asset is one tracked physical item.
//
// AssignedTo is the stored reference; Assignee is its resolved view and is
// what clients see as "assignedTo".
type Asset struct {
	ID             uuid.UUID  `json:"id"`
	AssetTag       *string    `json:"assetTag"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Manufacturer   *string    `json:"manufacturer"`
	Model          *string    `json:"model"`
	SerialNumber   *string    `json:"serialNumber"`
	Location       *string    `json:"location"`
	Description    *string    `json:"description"`
	PurchaseDate   *Date      `json:"purchaseDate"`
	PurchaseCost   *float64   `json:"purchaseCost"`
	WarrantyExpiry *Date      `json:"warrantyExpiry"`
	Status         Status     `json:"status"`
	AssignedTo     *uuid.UUID `json:"-"`
	Assignee       *UserRef   `json:"assignedTo"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// MaxPurchaseCost is the largest value purchase_cost NUMERIC(12, 2) holds.
const MaxPurchaseCost = 9999999999.99

// AssetInput is the create payload.
type AssetInput struct {
	AssetTag       *string    `json:"assetTag" validate:"omitempty,max=64"`
	Name           string     `json:"name" validate:"required,max=255"`
	Category       string     `json:"category" validate:"required,max=100"`
	Manufacturer   *string    `json:"manufacturer" validate:"omitempty,max=255"`
	Model          *string    `json:"model" validate:"omitempty,max=255"`
	SerialNumber   *string    `json:"serialNumber" validate:"omitempty,max=255"`
	Location       *string    `json:"location" validate:"omitempty,max=255"`
	Description    *string    `json:"description" validate:"omitempty,max=2000"`
	PurchaseDate   *Date      `json:"purchaseDate"`
	PurchaseCost   *float64   `json:"purchaseCost" validate:"omitempty,gte=0,lte=9999999999.99"`
	WarrantyExpiry *Date      `json:"warrantyExpiry"`
	Status         Status     `json:"status" validate:"omitempty,oneof=available assigned maintenance retired"`
	AssignedTo     *uuid.UUID `json:"assignedTo"`
}

// Validate trims text fields and checks the payload.
func (in *AssetInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.AssetTag = trimOptional(in.AssetTag)
	in.Manufacturer = trimOptional(in.Manufacturer)
	in.Model = trimOptional(in.Model)
	in.SerialNumber = trimOptional(in.SerialNumber)
	in.Location = trimOptional(in.Location)
	in.Description = trimOptional(in.Description)
	return validateStruct(in)
}

// NewAsset builds the record for a validated input. Status and assignment are
// left to the lifecycle rules.
func (in AssetInput) NewAsset(id uuid.UUID) Asset {
	return Asset{
		ID:             id,
		AssetTag:       in.AssetTag,
		Name:           in.Name,
		Category:       in.Category,
		Manufacturer:   in.Manufacturer,
		Model:          in.Model,
		SerialNumber:   in.SerialNumber,
		Location:       in.Location,
		Description:    in.Description,
		PurchaseDate:   in.PurchaseDate,
		PurchaseCost:   in.PurchaseCost,
		WarrantyExpiry: in.WarrantyExpiry,
	}
}

// AssetPatch is the update payload. Absent fields stay as they are, null
// clears the stored value.
type AssetPatch struct {
	AssetTag       Field[string]    `json:"assetTag"`
	Name           Field[string]    `json:"name"`
	Category       Field[string]    `json:"category"`
	Manufacturer   Field[string]    `json:"manufacturer"`
	Model          Field[string]    `json:"model"`
	SerialNumber   Field[string]    `json:"serialNumber"`
	Location       Field[string]    `json:"location"`
	Description    Field[string]    `json:"description"`
	PurchaseDate   Field[Date]      `json:"purchaseDate"`
	PurchaseCost   Field[float64]   `json:"purchaseCost"`
	WarrantyExpiry Field[Date]      `json:"warrantyExpiry"`
	Status         Field[Status]    `json:"status"`
	AssignedTo     Field[uuid.UUID] `json:"assignedTo"`
}

// Validate checks the fields that are present.
func (p *AssetPatch) Validate() map[string]string {
	fields := make(map[string]string)

	for name, f := range map[string]*Field[string]{"name": &p.Name, "category": &p.Category} {
		if !f.Set {
			continue
		}
		f.Value = strings.TrimSpace(f.Value)
		if f.Null || f.Value == "" {
			fields[name] = "required"
		}
	}
	if p.Name.Set && len(p.Name.Value) > 255 {
		fields["name"] = "must be at most 255 characters"
	}
	if p.Category.Set && len(p.Category.Value) > 100 {
		fields["category"] = "must be at most 100 characters"
	}
	if p.AssetTag.Set && len(strings.TrimSpace(p.AssetTag.Value)) > 64 {
		fields["assetTag"] = "must be at most 64 characters"
	}
	if p.PurchaseCost.Set && !p.PurchaseCost.Null {
		switch v := p.PurchaseCost.Value; {
		case v < 0:
			fields["purchaseCost"] = "must be >= 0"
		case v > MaxPurchaseCost:
			fields["purchaseCost"] = "must be <= 9999999999.99"
		}
	}
	if p.Status.Set {
		if p.Status.Null {
			fields["status"] = "cannot be null"
		} else if !p.Status.Value.Valid() {
			fields["status"] = "must be one of: available assigned maintenance retired"
		}
	}
	return fields
}

// ApplyDetails copies the descriptive, financial and tag fields onto a. Status
// and assignment are handled by the lifecycle rules.
func (p AssetPatch) ApplyDetails(a *Asset) {
	if p.Name.Set {
		a.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Category.Set {
		a.Category = strings.TrimSpace(p.Category.Value)
	}
	applyText(&a.AssetTag, p.AssetTag)
	applyText(&a.Manufacturer, p.Manufacturer)
	applyText(&a.Model, p.Model)
	applyText(&a.SerialNumber, p.SerialNumber)
	applyText(&a.Location, p.Location)
	applyText(&a.Description, p.Description)
	if p.PurchaseDate.Set {
		a.PurchaseDate = p.PurchaseDate.Ptr()
	}
	if p.PurchaseCost.Set {
		a.PurchaseCost = p.PurchaseCost.Ptr()
	}
	if p.WarrantyExpiry.Set {
		a.WarrantyExpiry = p.WarrantyExpiry.Ptr()
	}
}

func applyText(dst **string, f Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	*dst = trimOptional(&f.Value)
}

// trimOptional trims s and maps blank text to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
