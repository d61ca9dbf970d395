package chronam

// Newspaper is the top-level resource for a title, keyed by its LCCN.
// Immutable once fetched; the issue order is as returned by the API and is
// not guaranteed chronological.
type Newspaper struct {
	LCCN               string     `json:"lccn"`
	Name               string     `json:"name"`
	PlaceOfPublication string     `json:"place_of_publication"`
	StartYear          string     `json:"start_year"`
	EndYear            string     `json:"end_year"`
	Publisher          string     `json:"publisher"`
	Issues             []IssueRef `json:"issues"`
}

// IssueRef points at one dated issue's detail resource
type IssueRef struct {
	DateIssued string `json:"date_issued"`
	URL        string `json:"url"`
}

// Issue lists the pages of one issue. Page order defines the sequence the
// assembled text must follow.
type Issue struct {
	Pages []PageRef `json:"pages"`
}

// PageRef points at one page's detail resource
type PageRef struct {
	URL string `json:"url"`
}

// Page carries the locator for the raw OCR text body
type Page struct {
	Text string `json:"text"`
}
