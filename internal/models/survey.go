// Package models defines the survey and boundary documents the pipeline reads.
package models

// Survey is one consultation result document as published by the INE.
type Survey struct {
	Regions       []RegionRecord `json:"entidadesHijas"`
	TotalVotes    int64          `json:"totalVotos"`
	Participation float64        `json:"porcentajeParticipacionCiudadana"`
}

// RegionRecord holds the results of a single federal entity.
type RegionRecord struct {
	RawName       string          `json:"nombreNodo"`
	Responses     []ResponseShare `json:"opciones,omitempty"`
	TotalVotes    int64           `json:"totalVotos"`
	Participation float64         `json:"porcentajeParticipacionCiudadana"`
}

// ResponseShare is the share of votes that went to one ballot option.
type ResponseShare struct {
	Label      string  `json:"nombre"`
	Percentage float64 `json:"porcentaje"`
}
