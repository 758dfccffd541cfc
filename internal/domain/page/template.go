package page

// Template is a named, prebuilt page document offered as a starting point.
// Templates are immutable: Apply and ByID hand out deep clones, never the
// catalog's own document.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PageConfig  Document `json:"pageConfig"`
}

// catalog is the fixed template library, in display order.
var catalog = []Template{
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Clean and simple: hero, products, and WhatsApp CTA",
		PageConfig: Document{Sections: []Section{
			{ID: "h1", Type: TypeHero, Props: map[string]any{
				"title":    "Welcome to our store",
				"subtitle": "Quality products, easy ordering",
				"ctaText":  "Shop Now",
			}},
			{ID: "p1", Type: TypeProductsGrid, Props: map[string]any{"columns": 2, "showPrices": true}},
			{ID: "c1", Type: TypeCTA, Props: map[string]any{
				"title":      "Questions? Chat with us!",
				"buttonText": "Chat on WhatsApp",
			}},
		}},
	},
	{
		ID:          "boutique",
		Name:        "Boutique",
		Description: "Elegant layout for sarees, fashion & lifestyle",
		PageConfig: Document{Sections: []Section{
			{ID: "h1", Type: TypeHero, Props: map[string]any{
				"title":    "Discover our collection",
				"subtitle": "Handpicked for you",
				"ctaText":  "Explore",
			}},
			{ID: "t1", Type: TypeText, Props: map[string]any{
				"content": "Curated with care in Kolkata.",
				"align":   "center",
			}},
			{ID: "p1", Type: TypeProductsGrid, Props: map[string]any{"columns": 2, "showPrices": true}},
			{ID: "c1", Type: TypeCTA, Props: map[string]any{
				"title":      "Order or enquire on WhatsApp",
				"buttonText": "Chat with us",
			}},
		}},
	},
	{
		ID:          "food",
		Name:        "Food & Menu",
		Description: "Great for home chefs, cafés and food businesses",
		PageConfig: Document{Sections: []Section{
			{ID: "h1", Type: TypeHero, Props: map[string]any{
				"title":    "Today's specials",
				"subtitle": "Fresh from our kitchen",
				"ctaText":  "See menu",
			}},
			{ID: "p1", Type: TypeProductsGrid, Props: map[string]any{"columns": 1, "showPrices": true}},
			{ID: "c1", Type: TypeCTA, Props: map[string]any{
				"title":      "Place your order",
				"buttonText": "Order on WhatsApp",
			}},
		}},
	},
	{
		ID:          "classic",
		Name:        "Classic Shop",
		Description: "Traditional storefront with banner and features",
		PageConfig: Document{Sections: []Section{
			{ID: "h1", Type: TypeHero, Props: map[string]any{
				"title":    "Your shop name",
				"subtitle": "Serving Kolkata with pride",
				"ctaText":  "View products",
			}},
			{ID: "f1", Type: TypeFeatures, Props: map[string]any{
				"items": []any{
					map[string]any{"title": "Quality", "description": "Best products"},
					map[string]any{"title": "Fast reply", "description": "Quick on WhatsApp"},
					map[string]any{"title": "Local", "description": "Based in Kolkata"},
				},
			}},
			{ID: "p1", Type: TypeProductsGrid, Props: map[string]any{"columns": 3, "showPrices": true}},
			{ID: "c1", Type: TypeCTA, Props: map[string]any{
				"title":      "Get in touch",
				"buttonText": "Chat with Seller",
			}},
		}},
	},
}

// Templates returns the template catalog in display order. The returned
// slice is freshly allocated; the documents inside are clones.
func Templates() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		out[i] = t
		out[i].PageConfig = t.PageConfig.Clone()
	}
	return out
}

// TemplateByID returns a clone of the named template. The second return is
// false when no template has that id.
func TemplateByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			t.PageConfig = t.PageConfig.Clone()
			return t, true
		}
	}
	return Template{}, false
}

// Apply returns an editable clone of the named template's document, or
// false when the id is unknown.
func Apply(id string) (Document, bool) {
	t, ok := TemplateByID(id)
	if !ok {
		return Document{}, false
	}
	return t.PageConfig, true
}

// DefaultDocument returns the document new stores start from when no
// template was picked: the first catalog entry.
func DefaultDocument() Document {
	return catalog[0].PageConfig.Clone()
}

// BlankDocument returns the minimal three-section starter used for
// "build from scratch".
func BlankDocument() Document {
	return Document{Sections: []Section{
		{ID: "hero-1", Type: TypeHero, Props: map[string]any{
			"title": "Welcome", "subtitle": "Your store", "ctaText": "Shop Now",
		}},
		{ID: "products-1", Type: TypeProductsGrid, Props: map[string]any{"columns": 2, "showPrices": true}},
		{ID: "cta-1", Type: TypeCTA, Props: map[string]any{
			"title": "Have questions?", "buttonText": "Chat with us",
		}},
	}}
}
