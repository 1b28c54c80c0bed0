package models

// Seller is a named salesperson (collection "venditori")
type Seller struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// AdminEmail is a daily-closure recipient (collection "emailAmministrazioni")
type AdminEmail struct {
	ID           string `json:"id"`
	NomeContatto string `json:"nomeContatto"`
	Email        string `json:"email"`
}
