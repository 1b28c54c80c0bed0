package models

// Contact-lens record types and expiry buckets
const (
	LacTipoVendita = "vendita"
	LacTipoProva   = "prova"

	LacBucketScaduto    = "Scaduto"
	LacBucketInScadenza = "In Scadenza"
	LacBucketOK         = "OK"
)

// LacLens is one lens purchase in a client's history
type LacLens struct {
	Prodotto     string `json:"prodotto"`
	Potere       string `json:"potere"`
	DataAcquisto string `json:"data_acquisto"` // DD/MM/YYYY
	DurataMesi   int    `json:"durata_mesi"`
}

// LacClient is a contact-lens client record (collection "lac").
// Expiry is derived, never stored: the most recent purchase's data_acquisto
// plus durata_mesi months. The bucket is computed for sort/highlight only.
type LacClient struct {
	ID           string    `json:"id"`
	Tipo         string    `json:"tipo"` // vendita | prova
	Cliente      string    `json:"cliente"`
	Recapito     string    `json:"recapito"`
	RifVaschetta string    `json:"rif_vaschetta,omitempty"`
	Note         string    `json:"note,omitempty"`
	Lenti        []LacLens `json:"lenti"`
}

// CreateLacClientRequest represents the contact-lens intake form
type CreateLacClientRequest struct {
	Tipo         string `json:"tipo"`
	Cliente      string `json:"cliente"`
	Recapito     string `json:"recapito"`
	RifVaschetta string `json:"rif_vaschetta"`
	Note         string `json:"note"`
}

// AddLensRequest appends a purchase to a client's lens history
type AddLensRequest struct {
	Prodotto     string `json:"prodotto"`
	Potere       string `json:"potere"`
	DataAcquisto string `json:"data_acquisto"`
	DurataMesi   int    `json:"durata_mesi"`
}
