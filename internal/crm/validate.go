package crm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Required field sets per entity.
var (
	LeadRequired     = []string{"name", "email"}
	ClientRequired   = []string{"name", "email", "cpf_cnpj"}
	PropertyRequired = []string{"title", "address", "city", "state"}
)

// ValidationError names every missing required field, not just the first, and
// echoes the full required list so the caller can self-correct in one round
// trip.
type ValidationError struct {
	Missing  []string
	Required []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Normalize validates the decoded payload for the given kind and coerces it
// into the canonical insert shape.
func Normalize(kind Kind, body map[string]any) (any, *ValidationError) {
	switch kind {
	case KindLead:
		return NormalizeLead(body)
	case KindClient:
		return NormalizeClient(body)
	case KindProperty:
		return NormalizeProperty(body)
	}
	return nil, &ValidationError{Missing: []string{"unknown entity"}}
}

// NormalizeLead shapes a lead payload. Status and source default rather than
// reject; the hosted store owns the status enum constraint.
func NormalizeLead(body map[string]any) (Lead, *ValidationError) {
	if verr := checkRequired(body, LeadRequired); verr != nil {
		return Lead{}, verr
	}

	lead := Lead{
		Name:    mustStr(body, "name"),
		Email:   mustStr(body, "email"),
		Phone:   optStr(body, "phone"),
		Company: optStr(body, "company"),
		Status:  strings.ToLower(strOrDefault(body, "status", "new")),
		Source:  strOrDefault(body, "source", "Webhook"),
		Value:   floatOrDefault(body, "value", 0),
		Notes:   optStr(body, "notes"),
	}
	return lead, nil
}

// NormalizeClient shapes a client payload. Address fields default to empty
// strings, not nulls.
func NormalizeClient(body map[string]any) (Client, *ValidationError) {
	if verr := checkRequired(body, ClientRequired); verr != nil {
		return Client{}, verr
	}

	client := Client{
		Name:         mustStr(body, "name"),
		Email:        mustStr(body, "email"),
		CpfCnpj:      mustStr(body, "cpf_cnpj"),
		Phone:        strOrDefault(body, "phone", ""),
		Address:      strOrDefault(body, "address", ""),
		City:         strOrDefault(body, "city", ""),
		State:        strings.ToUpper(strOrDefault(body, "state", "")),
		ZipCode:      strOrDefault(body, "zip_code", ""),
		Observations: optStr(body, "observations"),
	}
	return client, nil
}

// NormalizeProperty shapes a property payload: trimmed strings, lower-cased
// property_type, upper-cased UF state, numeric/bool coercion from string
// input, and an images list reduced to its string entries.
func NormalizeProperty(body map[string]any) (Property, *ValidationError) {
	if verr := checkRequired(body, PropertyRequired); verr != nil {
		return Property{}, verr
	}

	prop := Property{
		Title:         mustStr(body, "title"),
		Description:   optStr(body, "description"),
		PropertyType:  strings.ToLower(strOrDefault(body, "property_type", "casa")),
		Price:         optFloat(body, "price"),
		Address:       mustStr(body, "address"),
		City:          mustStr(body, "city"),
		State:         strings.ToUpper(mustStr(body, "state")),
		Zipcode:       optStr(body, "zipcode"),
		Bedrooms:      optInt(body, "bedrooms"),
		Bathrooms:     optInt(body, "bathrooms"),
		AreaM2:        optFloat(body, "area_m2"),
		ParkingSpaces: intOrDefault(body, "parking_spaces", 0),
		Furnished:     boolOrDefault(body, "furnished", false),
		Available:     boolOrDefault(body, "available", true),
		Images:        stringList(body["images"]),
	}
	return prop, nil
}

// checkRequired treats a field as missing when it is absent, null, or
// whitespace-only after stringification.
func checkRequired(body map[string]any, required []string) *ValidationError {
	var missing []string
	for _, f := range required {
		if stringify(body[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing, Required: required}
	}
	return nil
}

// stringify renders a loosely-typed value as a trimmed string; nil and empty
// both come back as "".
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func mustStr(body map[string]any, key string) string {
	return stringify(body[key])
}

func optStr(body map[string]any, key string) *string {
	s := stringify(body[key])
	if s == "" {
		return nil
	}
	return &s
}

func strOrDefault(body map[string]any, key, def string) string {
	if s := stringify(body[key]); s != "" {
		return s
	}
	return def
}

// toFloat coerces number or numeric-string input. Unparseable input is
// treated as absent rather than rejecting the whole payload.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func optFloat(body map[string]any, key string) *float64 {
	if f, ok := toFloat(body[key]); ok {
		return &f
	}
	return nil
}

func floatOrDefault(body map[string]any, key string, def float64) float64 {
	if f, ok := toFloat(body[key]); ok {
		return f
	}
	return def
}

func toInt(v any) (int, bool) {
	if f, ok := toFloat(v); ok {
		return int(f), true
	}
	return 0, false
}

func optInt(body map[string]any, key string) *int {
	if n, ok := toInt(body[key]); ok {
		return &n
	}
	return nil
}

func intOrDefault(body map[string]any, key string, def int) int {
	if n, ok := toInt(body[key]); ok {
		return n
	}
	return def
}

// boolOrDefault accepts literal booleans and the strings "true"/"false";
// anything else resolves to the default.
func boolOrDefault(body map[string]any, key string, def bool) bool {
	switch x := body[key].(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return def
}

// stringList keeps only non-empty string entries; an all-invalid or non-array
// input normalizes to nil, never an error.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
