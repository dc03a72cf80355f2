package bangs

// RawBang is a provider-shaped bang as found in the downloaded source files.
// DuckDuckGo and Kagi share the short field names; only the fields read by
// the merge stage are decoded.
type RawBang struct {
	Trigger     string `json:"t"`
	Name        string `json:"s"`
	URL         string `json:"u"`
	Domain      string `json:"d,omitempty"`
	Category    string `json:"c,omitempty"`
	Subcategory string `json:"sc,omitempty"`
	Tier        int    `json:"r,omitempty"`
}

// HasQuery reports whether the raw URL contains the provider placeholder.
func (r RawBang) HasQuery() bool {
	return containsPlaceholder(r.URL)
}

// Tags returns the canonical tag list for the raw bang: a single
// "category/subcategory" label when both fields are present.
func (r RawBang) Tags() []string {
	if r.Category == "" || r.Subcategory == "" {
		return []string{}
	}
	return []string{r.Category + "/" + r.Subcategory}
}
