// internal/domain/models/site.go
package models

// DefaultSiteName is the product name shown in page titles and the footer.
const DefaultSiteName = "KiranaPage"

// DefaultLandingTitle is the headline on the landing page.
const DefaultLandingTitle = "Your store on WhatsApp in 5 minutes"

// DefaultLandingSubtitle is the supporting line under the headline.
const DefaultLandingSubtitle = "Create a beautiful storefront page, add your products, and start taking orders on WhatsApp. No app, no commission."
