package printify

// Product is a shop product as returned by the fulfillment platform.
type Product struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Visible     *bool          `json:"visible,omitempty"`
	IsLocked    bool           `json:"is_locked,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
	Variants    []Variant      `json:"variants,omitempty"`
}

// IsVisible treats an absent visible flag as visible, matching the platform's
// listing semantics.
func (p Product) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// FindVariant returns the variant with the given id, if present.
func (p Product) FindVariant(id int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type ProductImage struct {
	Src        string  `json:"src"`
	VariantIDs []int64 `json:"variant_ids,omitempty"`
}

// Variant is a purchasable size/color option. Price is in minor currency
// units (cents).
type Variant struct {
	ID        int64             `json:"id"`
	Price     int               `json:"price"`
	IsEnabled *bool             `json:"is_enabled,omitempty"`
	IsDefault bool              `json:"is_default,omitempty"`
	Title     string            `json:"title,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

// Shop identifies a storefront registered with the platform.
type Shop struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Address is the shipping destination for an order.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country"`
	Region    string `json:"region,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type OrderLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest places a manufacturing order with a shipping address.
type OrderRequest struct {
	ExternalID               string          `json:"external_id"`
	LineItems                []OrderLineItem `json:"line_items"`
	AddressTo                Address         `json:"address_to"`
	SendShippingNotification bool            `json:"send_shipping_notification,omitempty"`
}

// ProductDefinition is the payload for product creation: a template
// (blueprint) manufactured by a provider, one or more priced variants, and
// print-area placements positioning an uploaded asset on the product.
type ProductDefinition struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	BlueprintID     int                 `json:"blueprint_id"`
	PrintProviderID int                 `json:"print_provider_id"`
	Variants        []DefinitionVariant `json:"variants"`
	PrintAreas      []PrintArea         `json:"print_areas"`
	Visible         bool                `json:"visible"`
}

type DefinitionVariant struct {
	ID        int  `json:"id"`
	Price     int  `json:"price"`
	IsEnabled bool `json:"is_enabled"`
}

type PrintArea struct {
	VariantIDs   []int         `json:"variant_ids"`
	Placeholders []Placeholder `json:"placeholders"`
}

type Placeholder struct {
	Position string           `json:"position"`
	Images   []PlacementImage `json:"images"`
}

// PlacementImage positions an uploaded asset within a print area.
type PlacementImage struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

// publishFields selects which product fields are marked ready for the sales
// channel. All are included on publish.
type publishFields struct {
	Title            bool `json:"title"`
	Description      bool `json:"description"`
	Images           bool `json:"images"`
	Variants         bool `json:"variants"`
	Tags             bool `json:"tags"`
	KeyFeatures      bool `json:"keyfeatures"`
	ShippingTemplate bool `json:"shipping_template"`
}
