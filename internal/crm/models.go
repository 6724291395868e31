package crm

// Kind identifies one webhook-ingestable entity.
type Kind string

const (
	KindLead     Kind = "lead"
	KindClient   Kind = "client"
	KindProperty Kind = "property"
)

// Table is the hosted table the kind is inserted into.
func (k Kind) Table() string {
	switch k {
	case KindLead:
		return "leads"
	case KindClient:
		return "clients"
	case KindProperty:
		return "properties"
	}
	return string(k)
}

// Lead is the normalized insert shape for the leads table. Field names match
// the hosted columns exactly; pointers are nullable columns.
type Lead struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Status  string  `json:"status"`
	Source  string  `json:"source"`
	Value   float64 `json:"value"`
	Notes   *string `json:"notes"`
}

// Client is the normalized insert shape for the clients table. The address
// block defaults to empty strings rather than nulls, matching the table's
// not-null text columns.
type Client struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	CpfCnpj      string  `json:"cpf_cnpj"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zip_code"`
	Observations *string `json:"observations"`
}

// Property is the normalized insert shape for the properties table.
type Property struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	PropertyType  string   `json:"property_type"`
	Price         *float64 `json:"price"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Zipcode       *string  `json:"zipcode"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	AreaM2        *float64 `json:"area_m2"`
	ParkingSpaces int      `json:"parking_spaces"`
	Furnished     bool     `json:"furnished"`
	Available     bool     `json:"available"`
	Images        []string `json:"images"`
}
