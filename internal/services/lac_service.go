package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

// expiryWarningDays is the "In Scadenza" window
const expiryWarningDays = 30

// LacService manages contact-lens client records and their renewal state
type LacService struct {
	Store store.Store
	Views *repository.Views
}

func NewLacService(st store.Store, views *repository.Views) *LacService {
	return &LacService{Store: st, Views: views}
}

// CreateClient persists a new contact-lens client record
func (s *LacService) CreateClient(ctx context.Context, req *models.CreateLacClientRequest) (*models.LacClient, error) {
	if req.Cliente == "" {
		return nil, errors.New("cliente obbligatorio")
	}
	if req.Tipo != models.LacTipoVendita && req.Tipo != models.LacTipoProva {
		return nil, fmt.Errorf("tipo non valido: %q", req.Tipo)
	}
	if req.RifVaschetta != "" && !vaschettaPattern.MatchString(req.RifVaschetta) {
		return nil, errors.New("rif. vaschetta non valido: attese 3 cifre")
	}

	client := &models.LacClient{
		Tipo:         req.Tipo,
		Cliente:      req.Cliente,
		Recapito:     req.Recapito,
		RifVaschetta: req.RifVaschetta,
		Note:         req.Note,
		Lenti:        []models.LacLens{},
	}

	fields, err := store.FieldsOf(client)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, models.CollectionLac, fields)
	if err != nil {
		return nil, err
	}
	client.ID = id

	cache.InvalidateLacCaches(ctx)
	return client, nil
}

// UpdateClient patches the editable fields of a client record
func (s *LacService) UpdateClient(ctx context.Context, id string, req *models.CreateLacClientRequest) error {
	if req.Cliente == "" {
		return errors.New("cliente obbligatorio")
	}
	if req.Tipo != models.LacTipoVendita && req.Tipo != models.LacTipoProva {
		return fmt.Errorf("tipo non valido: %q", req.Tipo)
	}

	err := s.Store.Update(ctx, models.CollectionLac, id, store.Fields{
		"tipo":          req.Tipo,
		"cliente":       req.Cliente,
		"recapito":      req.Recapito,
		"rif_vaschetta": req.RifVaschetta,
		"note":          req.Note,
	})
	if err != nil {
		return err
	}
	cache.InvalidateLacCaches(ctx)
	return nil
}

// DeleteClient removes a client record
func (s *LacService) DeleteClient(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, models.CollectionLac, id); err != nil {
		return err
	}
	cache.InvalidateLacCaches(ctx)
	return nil
}

// AddLens appends a purchase to the client's lens history
func (s *LacService) AddLens(ctx context.Context, id string, req *models.AddLensRequest) error {
	if req.Prodotto == "" {
		return errors.New("prodotto obbligatorio")
	}
	if req.DurataMesi <= 0 {
		return errors.New("durata in mesi non valida")
	}
	if _, err := timeutil.ParseDisplayDate(req.DataAcquisto); err != nil {
		return errors.New("data acquisto non valida: attesa GG/MM/AAAA")
	}

	client, err := s.getClient(id)
	if err != nil {
		return err
	}

	lenti := append(client.Lenti, models.LacLens{
		Prodotto:     req.Prodotto,
		Potere:       req.Potere,
		DataAcquisto: req.DataAcquisto,
		DurataMesi:   req.DurataMesi,
	})
	if err := s.Store.Update(ctx, models.CollectionLac, id, store.Fields{"lenti": lenti}); err != nil {
		return err
	}
	cache.InvalidateLacCaches(ctx)
	return nil
}

// LacClientView is a client record plus its derived renewal state
type LacClientView struct {
	models.LacClient
	Scadenza string `json:"scadenza,omitempty"` // DD/MM/YYYY, empty when no purchases
	Bucket   string `json:"bucket,omitempty"`
}

// ListClients returns every client with derived expiry, expiring first.
// Clients with no purchase history sort last.
func (s *LacService) ListClients() []LacClientView {
	clients := s.Views.Lac.Snapshot()
	out := make([]LacClientView, 0, len(clients))
	for _, c := range clients {
		view := LacClientView{LacClient: c}
		if expiry, ok := ExpiryOf(&c); ok {
			view.Scadenza = timeutil.FormatDisplayDate(expiry)
			view.Bucket = bucketOf(expiry)
		}
		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scadenza == "" || out[j].Scadenza == "" {
			return out[j].Scadenza == "" && out[i].Scadenza != ""
		}
		a, _ := timeutil.ParseDisplayDate(out[i].Scadenza)
		b, _ := timeutil.ParseDisplayDate(out[j].Scadenza)
		return a.Before(b)
	})
	return out
}

// ExpiryOf derives the renewal date: the most recent purchase's
// data_acquisto plus durata_mesi. False when the history is empty or no
// purchase date parses.
func ExpiryOf(c *models.LacClient) (time.Time, bool) {
	var latest time.Time
	var months int
	found := false
	for _, lens := range c.Lenti {
		d, err := timeutil.ParseDisplayDate(lens.DataAcquisto)
		if err != nil {
			continue
		}
		if !found || d.After(latest) {
			latest = d
			months = lens.DurataMesi
			found = true
		}
	}
	if !found {
		return time.Time{}, false
	}
	return latest.AddDate(0, months, 0), true
}

func bucketOf(expiry time.Time) string {
	today := timeutil.StartOfDay(timeutil.Now())
	switch {
	case expiry.Before(today):
		return models.LacBucketScaduto
	case !expiry.After(today.AddDate(0, 0, expiryWarningDays)):
		return models.LacBucketInScadenza
	default:
		return models.LacBucketOK
	}
}

func (s *LacService) getClient(id string) (*models.LacClient, error) {
	for _, c := range s.Views.Lac.Snapshot() {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("cliente LAC %s non trovato", id)
}
