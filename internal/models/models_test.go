package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/google/uuid"
)

func TestAssetPatch_UnmarshalTriState(t *testing.T) {
	var p AssetPatch
	body := `{"name":"New name","location":null,"purchaseDate":"2024-02-29","assignedTo":null}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !p.Name.Set || p.Name.Null || p.Name.Value != "New name" {
		t.Errorf("name = %+v", p.Name)
	}
	if !p.Location.Set || !p.Location.Null {
		t.Errorf("location should be an explicit null: %+v", p.Location)
	}
	if p.Category.Set || p.Status.Set {
		t.Errorf("absent fields marked set: category=%+v status=%+v", p.Category, p.Status)
	}
	if !p.AssignedTo.Set || !p.AssignedTo.Null || p.AssignedTo.Ptr() != nil {
		t.Errorf("assignedTo = %+v", p.AssignedTo)
	}
	if d := p.PurchaseDate.Ptr(); d == nil || !d.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("purchaseDate = %v", d)
	}

	loc := "HQ"
	a := Asset{Name: "Old", Location: &loc}
	p.ApplyDetails(&a)
	if a.Name != "New name" || a.Location != nil {
		t.Errorf("ApplyDetails: %+v", a)
	}
}

func TestDate(t *testing.T) {
	for in, want := range map[string]string{
		"2023-05-04":                "2023-05-04",
		"2023-05-04T23:30:00Z":      "2023-05-04",
		"2023-05-04T23:30:00-02:00": "2023-05-05",
	} {
		d, err := ParseDate(in)
		if err != nil || d.String() != want {
			t.Errorf("ParseDate(%q) = %v, %v; want %s", in, d, err, want)
		}
	}
	if _, err := ParseDate("04/05/2023"); err == nil {
		t.Error("expected error for non-ISO date")
	}

	b, _ := json.Marshal(struct {
		D *Date `json:"d"`
	}{D: &Date{NewDate(2024, 1, 2).Time}})
	if string(b) != `{"d":"2024-01-02"}` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestAssetInput_Validate(t *testing.T) {
	blank := "   "
	in := AssetInput{Name: " Laptop ", Category: "IT", AssetTag: &blank}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Name != "Laptop" || in.AssetTag != nil {
		t.Errorf("not normalised: %+v", in)
	}

	cost := -5.0
	bad := AssetInput{Category: "IT", PurchaseCost: &cost, Status: "lost"}
	err := bad.Validate()
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"name", "purchaseCost", "status"} {
		if verr.Fields[f] == "" {
			t.Errorf("missing error for %s: %v", f, verr.Fields)
		}
	}
}

func TestPurchaseCostUpperBound(t *testing.T) {
	over := 1e10
	in := AssetInput{Name: "Laptop", Category: "IT", PurchaseCost: &over}
	var verr *apperr.ValidationError
	if err := in.Validate(); !errors.As(err, &verr) || verr.Fields["purchaseCost"] == "" {
		t.Errorf("create: expected purchaseCost error, got %v", err)
	}

	ceiling := MaxPurchaseCost
	in.PurchaseCost = &ceiling
	if err := in.Validate(); err != nil {
		t.Errorf("create at ceiling: %v", err)
	}

	var p AssetPatch
	if err := json.Unmarshal([]byte(`{"purchaseCost":12345678901}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields := p.Validate(); fields["purchaseCost"] == "" {
		t.Errorf("patch: expected purchaseCost error, got %v", fields)
	}
}

func TestAsset_JSONShape(t *testing.T) {
	userID := uuid.New()
	a := Asset{ID: uuid.New(), Name: "Laptop", Status: StatusAssigned, AssignedTo: &userID,
		Assignee: &UserRef{ID: userID, Name: "Jane", Email: "jane@example.com"}}
	var out map[string]any
	b, _ := json.Marshal(a)
	json.Unmarshal(b, &out)

	ref, _ := out["assignedTo"].(map[string]any)
	if ref["name"] != "Jane" || ref["id"] != userID.String() {
		t.Errorf("assignedTo = %v", out["assignedTo"])
	}
	if _, ok := ref["department"]; ok {
		t.Error("empty department should be omitted")
	}
	if v, ok := out["manufacturer"]; !ok || v != nil {
		t.Errorf("manufacturer should be null, got %v", v)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Assigned "); err != nil || s != StatusAssigned {
		t.Errorf("ParseStatus = %q, %v", s, err)
	}
	if _, err := ParseStatus("lost"); err == nil {
		t.Error("expected error")
	}
}
