// Package page holds the storefront page model: the closed set of section
// types, the ordered page document, the pure builder operations that edit
// it, and the prebuilt template catalog.
//
// A section's property bag is deliberately loose: every field is optional,
// unknown fields are preserved, and defaults are applied when a bag is read
// for rendering. The typed *Props views below are the only sanctioned way
// to read a bag.
package page

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionType identifies one kind of storefront section.
type SectionType string

// The closed set of section types. Adding a type requires registry,
// renderer, and editor changes together.
const (
	TypeHero         SectionType = "hero"
	TypeProductsGrid SectionType = "products_grid"
	TypeCTA          SectionType = "cta"
	TypeText         SectionType = "text"
	TypeBanner       SectionType = "banner"
	TypeFeatures     SectionType = "features"
)

// Types returns all section types in display order.
func Types() []SectionType {
	return []SectionType{
		TypeHero,
		TypeProductsGrid,
		TypeCTA,
		TypeText,
		TypeBanner,
		TypeFeatures,
	}
}

// TypeInfo describes one section type for the registry.
type TypeInfo struct {
	Label    string // human-readable name shown in the builder
	Editable bool   // whether the builder exposes a property editor
}

// registry is the lookup table behind Lookup. Feature items are not
// editable in the builder yet; the section still renders from stored data.
var registry = map[SectionType]TypeInfo{
	TypeHero:         {Label: "Hero", Editable: true},
	TypeProductsGrid: {Label: "Products grid", Editable: true},
	TypeCTA:          {Label: "Call to action", Editable: true},
	TypeText:         {Label: "Text block", Editable: true},
	TypeBanner:       {Label: "Banner image", Editable: true},
	TypeFeatures:     {Label: "Features list", Editable: false},
}

// Lookup returns registry information for a section type. The second
// return is false for unknown types; callers rendering stored documents
// must treat that as "render nothing", never as an error.
func Lookup(t SectionType) (TypeInfo, bool) {
	info, ok := registry[t]
	return info, ok
}

// IsValidType reports whether t is one of the known section types.
func IsValidType(t SectionType) bool {
	_, ok := registry[t]
	return ok
}

// Section is one typed block of a store page. Props is a loose bag; keys
// the renderer does not understand are kept and round-tripped untouched.
type Section struct {
	ID    string         `json:"id" bson:"id"`
	Type  SectionType    `json:"type" bson:"type"`
	Props map[string]any `json:"props,omitempty" bson:"props,omitempty"`
}

// NewSectionID generates a section id from the current time plus 48 random
// bits. Uniqueness is probabilistic; collisions are not handled.
func NewSectionID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// the timestamp alone rather than panicking in an editor path.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}

/* ── Typed property views ────────────────────────────────────────────── */

// Default property values applied when a bag omits a field. The hero title
// has no constant default: it falls back to the store name at render time.
const (
	DefaultHeroSubtitle = "Your trusted local store"
	DefaultHeroCTAText  = "Shop Now"
	DefaultHeroImage    = "https://images.unsplash.com/photo-1582555172866-f73bb12a2ab3?w=800&q=80"
	DefaultCTATitle     = "Have questions? Chat with us!"
	DefaultCTAButton    = "Chat on WhatsApp"
	DefaultBannerAlt    = "Banner"
	DefaultGridColumns  = 2
)

// HeroProps is the decoded property bag of a hero section.
type HeroProps struct {
	Title    string // empty means "use the store name"
	Subtitle string
	Image    string
	CTAText  string
}

// Hero decodes s.Props into a HeroProps with defaults filled in.
func (s Section) Hero() HeroProps {
	return HeroProps{
		Title:    propString(s.Props, "title", ""),
		Subtitle: propString(s.Props, "subtitle", DefaultHeroSubtitle),
		Image:    propString(s.Props, "image", DefaultHeroImage),
		CTAText:  propString(s.Props, "ctaText", DefaultHeroCTAText),
	}
}

// GridProps is the decoded property bag of a products_grid section.
type GridProps struct {
	Columns    int // 2 or 3
	ShowPrices bool
}

// Grid decodes s.Props into a GridProps. Columns outside {2,3} clamp to 2;
// the stored value is left untouched.
func (s Section) Grid() GridProps {
	cols := propInt(s.Props, "columns", DefaultGridColumns)
	if cols != 2 && cols != 3 {
		cols = DefaultGridColumns
	}
	return GridProps{
		Columns:    cols,
		ShowPrices: propBool(s.Props, "showPrices", true),
	}
}

// CTAProps is the decoded property bag of a cta section.
type CTAProps struct {
	Title      string
	ButtonText string
}

// CTA decodes s.Props into a CTAProps with defaults filled in.
func (s Section) CTA() CTAProps {
	return CTAProps{
		Title:      propString(s.Props, "title", DefaultCTATitle),
		ButtonText: propString(s.Props, "buttonText", DefaultCTAButton),
	}
}

// TextProps is the decoded property bag of a text section.
type TextProps struct {
	Content string
	Align   string // left, center, right
}

// Text decodes s.Props into a TextProps. An empty Content means the
// section renders nothing.
func (s Section) Text() TextProps {
	align := propString(s.Props, "align", "center")
	switch align {
	case "left", "center", "right":
	default:
		align = "center"
	}
	return TextProps{
		Content: propString(s.Props, "content", ""),
		Align:   align,
	}
}

// BannerProps is the decoded property bag of a banner section.
type BannerProps struct {
	Image string
	Link  string
	Alt   string
}

// Banner decodes s.Props into a BannerProps. An empty Image means the
// section renders nothing.
func (s Section) Banner() BannerProps {
	return BannerProps{
		Image: propString(s.Props, "image", ""),
		Link:  propString(s.Props, "link", ""),
		Alt:   propString(s.Props, "alt", DefaultBannerAlt),
	}
}

// FeatureItem is one icon/title/description cell of a features section.
type FeatureItem struct {
	Icon        string
	Title       string
	Description string
}

// FeaturesProps is the decoded property bag of a features section.
type FeaturesProps struct {
	Items []FeatureItem
}

// Features decodes s.Props into a FeaturesProps. Items that are not
// objects are skipped; an item without a title gets "Feature".
func (s Section) Features() FeaturesProps {
	list, ok := propList(s.Props, "items")
	if !ok {
		return FeaturesProps{}
	}
	items := make([]FeatureItem, 0, len(list))
	for _, el := range list {
		m, ok := asMap(el)
		if !ok {
			continue
		}
		items = append(items, FeatureItem{
			Icon:        propString(m, "icon", ""),
			Title:       propString(m, "title", "Feature"),
			Description: propString(m, "description", ""),
		})
	}
	return FeaturesProps{Items: items}
}

/* ── Loose bag accessors ─────────────────────────────────────────────── */

func propString(props map[string]any, key, def string) string {
	v, ok := props[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// propInt tolerates the numeric types JSON and BSON decoding produce.
func propInt(props map[string]any, key string, def int) int {
	v, ok := props[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return def
}

// propList tolerates the list types JSON and BSON decoding produce:
// []any from encoding/json, primitive.A from mongo-driver.
func propList(props map[string]any, key string) ([]any, bool) {
	switch l := props[key].(type) {
	case []any:
		return l, true
	case primitive.A:
		return []any(l), true
	}
	return nil, false
}

// asMap tolerates the object types JSON and BSON decoding produce:
// map[string]any from encoding/json, primitive.D/M from mongo-driver.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case primitive.M:
		return map[string]any(m), true
	case primitive.D:
		out := make(map[string]any, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}

func propBool(props map[string]any, key string, def bool) bool {
	v, ok := props[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
