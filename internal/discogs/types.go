package discogs

import "encoding/json"

// Identity is the authenticated user returned by the catalog
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Pagination is the page envelope on list endpoints
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// CollectionPage is one page of a user's collection folder
type CollectionPage struct {
	Pagination Pagination       `json:"pagination"`
	Releases   []CollectionItem `json:"releases"`
}

// CollectionItem is one collection entry: the denormalised release payload
// plus any user-defined custom field notes
type CollectionItem struct {
	ID               int64            `json:"id"`
	InstanceID       int64            `json:"instance_id"`
	BasicInformation BasicInformation `json:"basic_information"`
	Notes            []Note           `json:"notes"`
}

// BasicInformation is the denormalised release record attached to a
// collection item. Year is kept as a raw number because the source data
// is inconsistent and is stored as text downstream.
type BasicInformation struct {
	ID       int64          `json:"id"`
	MasterID int64          `json:"master_id"`
	Title    string         `json:"title"`
	Year     json.Number    `json:"year"`
	Thumb    string         `json:"thumb"`
	Formats  []Format       `json:"formats"`
	Artists  []ArtistCredit `json:"artists"`
	Genres   []string       `json:"genres"`
	Styles   []string       `json:"styles"`
	Labels   []LabelCredit  `json:"labels"`
}

// Format is one declared physical format of a release
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Descriptions []string `json:"descriptions"`
}

// ArtistCredit is one entry of a release's artist list
type ArtistCredit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LabelCredit pairs a label with the catalog number it issued
type LabelCredit struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

// Note is one custom field value attached to a collection item
type Note struct {
	FieldID int64  `json:"field_id"`
	Value   string `json:"value"`
}

// ReleaseDetail is the full record of a single release; only the sort
// artist field is consumed beyond identification
type ReleaseDetail struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ArtistsSort string `json:"artists_sort"`
}
