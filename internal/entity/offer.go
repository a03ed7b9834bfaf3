package entity

// FlightInfo is the per-document flight metadata extracted from the first
// page; it is attached to every offer found in that document.
type FlightInfo struct {
	Airline    string   `json:"airline"`
	Times      []string `json:"times"` // ordered HH:MM tokens, up to 3 kept
	FlightType string   `json:"flight_type"`
	FlightDate string   `json:"flight_date"` // DD/MM/YYYY or empty
}

// Offer is a single vendor/price pairing found in the offer list.
type Offer struct {
	Vendor string  `json:"vendor"`
	Price  float64 `json:"price"`
}

// OfferRecord is a fully assembled price observation, prior to
// canonicalization and admission filtering.
type OfferRecord struct {
	FileName   string  `json:"file_name"`
	Airline    string  `json:"airline"`
	Time1      string  `json:"time1"`
	Time2      string  `json:"time2"`
	Time3      string  `json:"time3"`
	FlightType string  `json:"flight_type"`
	FlightDate string  `json:"flight_date"`
	SearchDate string  `json:"search_date"` // DD/MM/YYYY, HH:MM as observed
	Vendor     string  `json:"vendor"`
	Price      float64 `json:"price"`
	Route      string  `json:"route"`
	ADVP       int     `json:"advp"`
	Ranking    int     `json:"ranking"`
}

// ErrorRecord is an audit row for a document that matched an anomalous or
// rejected layout.
type ErrorRecord struct {
	FileName string `json:"file_name"`
	Code     string `json:"code"`
	Snippet  string `json:"snippet"`
	Page     int    `json:"page"`
}
