package crm

import (
	"reflect"
	"testing"
)

func TestNormalizeLeadDefaults(t *testing.T) {
	lead, verr := NormalizeLead(map[string]any{
		"name":  "Ana",
		"email": "ana@x.com",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if lead.Name != "Ana" || lead.Email != "ana@x.com" {
		t.Fatalf("unexpected identity fields: %+v", lead)
	}
	if lead.Status != "new" {
		t.Fatalf("status = %q, want new", lead.Status)
	}
	if lead.Source != "Webhook" {
		t.Fatalf("source = %q, want Webhook", lead.Source)
	}
	if lead.Value != 0 {
		t.Fatalf("value = %v, want 0", lead.Value)
	}
	if lead.Phone != nil || lead.Company != nil || lead.Notes != nil {
		t.Fatalf("optional fields should be nil: %+v", lead)
	}
}

func TestNormalizeLeadCoercion(t *testing.T) {
	lead, verr := NormalizeLead(map[string]any{
		"name":   "  Bruno  ",
		"email":  " bruno@x.com ",
		"status": "Qualified",
		"value":  "1500.50",
		"phone":  "11 99999-0000",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if lead.Name != "Bruno" || lead.Email != "bruno@x.com" {
		t.Fatalf("strings not trimmed: %+v", lead)
	}
	if lead.Status != "qualified" {
		t.Fatalf("status = %q, want qualified", lead.Status)
	}
	if lead.Value != 1500.50 {
		t.Fatalf("value = %v, want 1500.50", lead.Value)
	}
	if lead.Phone == nil || *lead.Phone != "11 99999-0000" {
		t.Fatalf("phone = %v", lead.Phone)
	}
}

func TestNormalizeLeadMissingFields(t *testing.T) {
	_, verr := NormalizeLead(map[string]any{
		"name":  "   ",
		"phone": "123",
	})
	if verr == nil {
		t.Fatalf("expected validation error")
	}
	if !reflect.DeepEqual(verr.Missing, []string{"name", "email"}) {
		t.Fatalf("missing = %v, want [name email]", verr.Missing)
	}
	if !reflect.DeepEqual(verr.Required, LeadRequired) {
		t.Fatalf("required = %v", verr.Required)
	}
}

func TestNormalizeClientDefaults(t *testing.T) {
	client, verr := NormalizeClient(map[string]any{
		"name":     "Carla",
		"email":    "carla@x.com",
		"cpf_cnpj": "123.456.789-00",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if client.Phone != "" || client.Address != "" || client.City != "" || client.State != "" || client.ZipCode != "" {
		t.Fatalf("address block should default to empty strings: %+v", client)
	}
	if client.Observations != nil {
		t.Fatalf("observations should be nil")
	}
}

func TestNormalizeClientStateUppercased(t *testing.T) {
	client, verr := NormalizeClient(map[string]any{
		"name":     "Carla",
		"email":    "carla@x.com",
		"cpf_cnpj": "123",
		"state":    "rj",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if client.State != "RJ" {
		t.Fatalf("state = %q, want RJ", client.State)
	}
}

func TestNormalizeClientMissingAll(t *testing.T) {
	_, verr := NormalizeClient(map[string]any{})
	if verr == nil {
		t.Fatalf("expected validation error")
	}
	if !reflect.DeepEqual(verr.Missing, []string{"name", "email", "cpf_cnpj"}) {
		t.Fatalf("missing = %v", verr.Missing)
	}
}

func TestNormalizePropertyDefaults(t *testing.T) {
	prop, verr := NormalizeProperty(map[string]any{
		"title":   "Casa",
		"address": "Rua A, 1",
		"city":    "Campinas",
		"state":   "SP",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if prop.PropertyType != "casa" {
		t.Fatalf("property_type = %q, want casa", prop.PropertyType)
	}
	if prop.ParkingSpaces != 0 {
		t.Fatalf("parking_spaces = %d, want 0", prop.ParkingSpaces)
	}
	if prop.Furnished {
		t.Fatalf("furnished should default false")
	}
	if !prop.Available {
		t.Fatalf("available should default true")
	}
	if prop.Price != nil || prop.Bedrooms != nil || prop.Bathrooms != nil || prop.AreaM2 != nil {
		t.Fatalf("numeric optionals should be nil: %+v", prop)
	}
	if prop.Images != nil {
		t.Fatalf("images should be nil when absent")
	}
}

func TestNormalizePropertyCoercion(t *testing.T) {
	prop, verr := NormalizeProperty(map[string]any{
		"title":          "  Apartamento Centro  ",
		"address":        "Av. B, 22",
		"city":           "São Paulo",
		"state":          "sp",
		"property_type":  "Apartamento",
		"price":          "350000.90",
		"bedrooms":       "3",
		"bathrooms":      float64(2),
		"area_m2":        "87.5",
		"parking_spaces": "2",
		"furnished":      "true",
		"available":      "false",
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if prop.Title != "Apartamento Centro" {
		t.Fatalf("title not trimmed: %q", prop.Title)
	}
	if prop.State != "SP" {
		t.Fatalf("state = %q, want SP", prop.State)
	}
	if prop.PropertyType != "apartamento" {
		t.Fatalf("property_type = %q", prop.PropertyType)
	}
	if prop.Price == nil || *prop.Price != 350000.90 {
		t.Fatalf("price = %v", prop.Price)
	}
	if prop.Bedrooms == nil || *prop.Bedrooms != 3 {
		t.Fatalf("bedrooms = %v", prop.Bedrooms)
	}
	if prop.Bathrooms == nil || *prop.Bathrooms != 2 {
		t.Fatalf("bathrooms = %v", prop.Bathrooms)
	}
	if prop.AreaM2 == nil || *prop.AreaM2 != 87.5 {
		t.Fatalf("area_m2 = %v", prop.AreaM2)
	}
	if prop.ParkingSpaces != 2 {
		t.Fatalf("parking_spaces = %d", prop.ParkingSpaces)
	}
	if !prop.Furnished {
		t.Fatalf("furnished should be true")
	}
	if prop.Available {
		t.Fatalf("available should be false")
	}
}

func TestNormalizePropertyMissingFields(t *testing.T) {
	_, verr := NormalizeProperty(map[string]any{"title": "Casa"})
	if verr == nil {
		t.Fatalf("expected validation error")
	}
	if !reflect.DeepEqual(verr.Missing, []string{"address", "city", "state"}) {
		t.Fatalf("missing = %v, want [address city state]", verr.Missing)
	}
	if !reflect.DeepEqual(verr.Required, PropertyRequired) {
		t.Fatalf("required = %v", verr.Required)
	}
}

func TestNormalizePropertyImagesFiltering(t *testing.T) {
	prop, verr := NormalizeProperty(map[string]any{
		"title":   "Casa",
		"address": "Rua A",
		"city":    "Campinas",
		"state":   "SP",
		"images":  []any{"https://x/1.jpg", 42, nil, "", "https://x/2.jpg", true},
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	want := []string{"https://x/1.jpg", "https://x/2.jpg"}
	if !reflect.DeepEqual(prop.Images, want) {
		t.Fatalf("images = %v, want %v", prop.Images, want)
	}
}

func TestNormalizePropertyImagesAllInvalid(t *testing.T) {
	prop, verr := NormalizeProperty(map[string]any{
		"title":   "Casa",
		"address": "Rua A",
		"city":    "Campinas",
		"state":   "SP",
		"images":  []any{1, false, nil},
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if prop.Images != nil {
		t.Fatalf("images = %v, want nil", prop.Images)
	}
}

func TestNormalizePropertyInvalidNumericInput(t *testing.T) {
	prop, verr := NormalizeProperty(map[string]any{
		"title":    "Casa",
		"address":  "Rua A",
		"city":     "Campinas",
		"state":    "SP",
		"price":    "not-a-number",
		"bedrooms": "many",
	})
	if verr != nil {
		t.Fatalf("unparseable numbers must not reject the payload: %v", verr)
	}
	if prop.Price != nil {
		t.Fatalf("price = %v, want nil", prop.Price)
	}
	if prop.Bedrooms != nil {
		t.Fatalf("bedrooms = %v, want nil", prop.Bedrooms)
	}
}

func TestKindTable(t *testing.T) {
	cases := map[Kind]string{
		KindLead:     "leads",
		KindClient:   "clients",
		KindProperty: "properties",
	}
	for kind, want := range cases {
		if got := kind.Table(); got != want {
			t.Fatalf("Table(%s) = %q, want %q", kind, got, want)
		}
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	if _, verr := Normalize(Kind("ticket"), map[string]any{}); verr == nil {
		t.Fatalf("expected validation error for unknown kind")
	}
}
