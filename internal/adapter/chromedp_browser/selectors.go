package chromedp_browser

// Selectors locate the parts of a product listing page.
type Selectors struct {
	// List is the container of all product cards.
	List string
	// Item matches one product card inside List.
	Item string
	// Link matches the product anchors inside an Item.
	Link string
	// Variants marks an anchor whose product has variants.
	Variants string
	// Progress holds the "You have viewed X of Y" text.
	Progress string
	// LoadMore matches an enabled load-more button.
	LoadMore string
}

// DefaultSelectors match the Ulta brand listing layout.
func DefaultSelectors() Selectors {
	return Selectors{
		List:     "ul.ProductListingResults__productList",
		Item:     "li.ProductListingResults__productCard",
		Link:     "div.ProductCard a",
		Variants: ".ProductCard__variants",
		Progress: "p.Text-ds.Text-ds--body-2.Text-ds--center.Text-ds--black",
		LoadMore: "button.LoadContent__button:not([disabled])",
	}
}

// items matches every rendered product card on the page.
func (s Selectors) items() string {
	return s.List + " " + s.Item
}
