package storefront

import (
	"html/template"
	"strings"

	"github.com/kiranapage/kiranapage/internal/app/system/htmlsanitize"
	"github.com/kiranapage/kiranapage/internal/app/system/wa"
	"github.com/kiranapage/kiranapage/internal/domain/models"
	"github.com/kiranapage/kiranapage/internal/domain/page"
)

// SectionVM is one section ready for the template. Kind selects the
// sub-template; exactly one of the pointers is set.
type SectionVM struct {
	Kind     string
	Hero     *HeroVM
	Grid     *GridVM
	CTA      *CTAVM
	Text     *TextVM
	Banner   *BannerVM
	Features *FeaturesVM
}

// HeroVM is the hero banner at the top of a page.
type HeroVM struct {
	Title    string
	Subtitle string
	Image    string
	CTAText  string
	ChatURL  string
}

// ProductVM is one cell of the products grid.
type ProductVM struct {
	Name         string
	Image        string
	Description  string
	PriceDisplay string // "₹499"
	OrderURL     string
}

// GridVM is the products grid. Empty is set when the store has no
// products yet, so the template shows the empty state instead of a grid.
type GridVM struct {
	Columns    int
	ShowPrices bool
	Products   []ProductVM
	Empty      bool
}

// CTAVM is a chat call-to-action block.
type CTAVM struct {
	Title      string
	ButtonText string
	ChatURL    string
}

// TextVM is an owner-authored text block. Content is sanitized before it
// becomes template.HTML.
type TextVM struct {
	Content template.HTML
	Align   string
}

// BannerVM is a full-width image, optionally wrapped in a link.
type BannerVM struct {
	Image string
	Link  string
	Alt   string
}

// FeaturesVM is a row of icon/title/description cells.
type FeaturesVM struct {
	Items []page.FeatureItem
}

// buildSections turns the store's page document into render-ready view
// models. Sections that have nothing to show (empty text, imageless
// banner, itemless features, unknown types) are dropped here so the
// template never sees them.
func buildSections(st models.Store, products []models.Product) []SectionVM {
	doc := st.PageDocument()
	chatURL := wa.ChatLink(st.Whatsapp, "")

	out := make([]SectionVM, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		switch sec.Type {
		case page.TypeHero:
			p := sec.Hero()
			title := p.Title
			if title == "" {
				title = st.Name
			}
			out = append(out, SectionVM{Kind: "hero", Hero: &HeroVM{
				Title:    title,
				Subtitle: p.Subtitle,
				Image:    p.Image,
				CTAText:  p.CTAText,
				ChatURL:  chatURL,
			}})

		case page.TypeProductsGrid:
			g := sec.Grid()
			vm := GridVM{
				Columns:    g.Columns,
				ShowPrices: g.ShowPrices,
				Empty:      len(products) == 0,
			}
			for _, pr := range products {
				vm.Products = append(vm.Products, ProductVM{
					Name:         pr.Name,
					Image:        pr.Image,
					Description:  pr.Description,
					PriceDisplay: "₹" + wa.FormatPrice(pr.Price),
					OrderURL:     wa.OrderLink(st.Whatsapp, st.Name, pr.Name, pr.Price),
				})
			}
			out = append(out, SectionVM{Kind: "grid", Grid: &vm})

		case page.TypeCTA:
			p := sec.CTA()
			out = append(out, SectionVM{Kind: "cta", CTA: &CTAVM{
				Title:      p.Title,
				ButtonText: p.ButtonText,
				ChatURL:    chatURL,
			}})

		case page.TypeText:
			p := sec.Text()
			if strings.TrimSpace(p.Content) == "" {
				continue
			}
			out = append(out, SectionVM{Kind: "text", Text: &TextVM{
				Content: htmlsanitize.PrepareForDisplay(p.Content),
				Align:   p.Align,
			}})

		case page.TypeBanner:
			p := sec.Banner()
			if p.Image == "" {
				continue
			}
			out = append(out, SectionVM{Kind: "banner", Banner: &BannerVM{
				Image: p.Image,
				Link:  p.Link,
				Alt:   p.Alt,
			}})

		case page.TypeFeatures:
			p := sec.Features()
			if len(p.Items) == 0 {
				continue
			}
			out = append(out, SectionVM{Kind: "features", Features: &FeaturesVM{Items: p.Items}})

		default:
			// Unknown type, possibly legacy data. Render nothing.
		}
	}
	return out
}
