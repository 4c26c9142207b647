package models

// StopItem is one entry of the /stops listing, keyed the way the upstream
// names its fields.
type StopItem struct {
	Code  string `json:"codeLieu"`
	Label string `json:"libelle"`
}

// PopularStop is one entry of the curated /popular-stops list.
type PopularStop struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
