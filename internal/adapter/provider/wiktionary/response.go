package wiktionary

// apiParseResponse is the action=parse payload (format=json, legacy
// formatversion with "*" content keys).
type apiParseResponse struct {
	Parse *apiParse `json:"parse"`
	Error *apiError `json:"error"`
}

type apiParse struct {
	Title    string       `json:"title"`
	PageID   int          `json:"pageid"`
	Sections []apiSection `json:"sections"`
	Text     apiContent   `json:"text"`
	Wikitext apiContent   `json:"wikitext"`
}

type apiSection struct {
	TocLevel int    `json:"toclevel"`
	Level    string `json:"level"`
	Line     string `json:"line"`
	Number   string `json:"number"`
	Index    string `json:"index"`
	Anchor   string `json:"anchor"`
}

type apiContent struct {
	Value string `json:"*"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// apiCategoryResponse is the action=query&list=categorymembers payload.
type apiCategoryResponse struct {
	Query struct {
		CategoryMembers []apiCategoryMember `json:"categorymembers"`
	} `json:"query"`
	Continue struct {
		CMContinue string `json:"cmcontinue"`
	} `json:"continue"`
}

type apiCategoryMember struct {
	PageID int    `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}
