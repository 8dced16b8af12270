// Package render produces report documents from aggregation results.
// The service renders HTML; PDF conversion is the host suite's pipeline,
// which consumes the layout options defined here.
package render

// LayoutOptions are the fixed page parameters handed to the document
// pipeline. Composition over inheritance: renderers receive this struct,
// they do not embed layout behavior.
type LayoutOptions struct {
	PageSize       string
	MarginTop      string
	MarginBottom   string
	MarginLeft     string
	MarginRight    string
	FooterFontSize int
	FooterLeft     string
	FooterRight    string
	FooterSpacing  int
}

// DefaultLayout returns the standard sales report layout.
// The footer carries the active company's display name on the left and a
// page-number placeholder on the right.
func DefaultLayout(companyName string) LayoutOptions {
	return LayoutOptions{
		PageSize:       "Letter",
		MarginTop:      "0.50in",
		MarginBottom:   "0.50in",
		MarginLeft:     "0.50in",
		MarginRight:    "0.50in",
		FooterFontSize: 8,
		FooterLeft:     companyName,
		FooterRight:    "[page]/[toPage]",
		FooterSpacing:  5,
	}
}
