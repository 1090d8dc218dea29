package extract

// Page is one page of extracted document text. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// PageExtractor pulls plain text out of an uploaded document, page by page.
type PageExtractor interface {
	Extract(name string, data []byte) ([]Page, error)
}
