package services

import (
	"context"
	"errors"
	"fmt"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

// RepairService handles repair and miscellaneous orders
type RepairService struct {
	Store store.Store
	Views *repository.Views
}

func NewRepairService(st store.Store, views *repository.Views) *RepairService {
	return &RepairService{Store: st, Views: views}
}

// CreateRepair validates the intake form and persists a new repair.
// Warranty repairs always carry a zero amount.
func (s *RepairService) CreateRepair(ctx context.Context, req *models.CreateRepairRequest) (*models.Repair, error) {
	if req.Cliente == "" || req.Descrizione == "" {
		return nil, errors.New("cliente e descrizione sono obbligatori")
	}
	if !models.IsValidRepairStatus(req.Stato) {
		return nil, fmt.Errorf("stato non valido: %q", req.Stato)
	}
	if req.RifVaschetta != "" && !vaschettaPattern.MatchString(req.RifVaschetta) {
		return nil, errors.New("rif. vaschetta non valido: attese 3 cifre")
	}
	if req.Importo < 0 {
		return nil, errors.New("importo non valido")
	}

	repair := &models.Repair{
		Data:         timeutil.Today(),
		Cliente:      req.Cliente,
		Descrizione:  req.Descrizione,
		Stato:        req.Stato,
		RifVaschetta: req.RifVaschetta,
		Importo:      req.Importo,
		InGaranzia:   req.InGaranzia,
		Note:         []models.RepairNote{},
	}
	if repair.InGaranzia {
		repair.Importo = 0
	}

	fields, err := store.FieldsOf(repair)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, models.CollectionRiparazioni, fields)
	if err != nil {
		return nil, err
	}
	repair.ID = id

	cache.InvalidateRepairCaches(ctx)
	return repair, nil
}

// AppendNote adds a timestamped entry to the repair's append-only note log
func (s *RepairService) AppendNote(ctx context.Context, id, testo string) error {
	if testo == "" {
		return errors.New("testo della nota obbligatorio")
	}

	repair, err := s.getRepair(id)
	if err != nil {
		return err
	}

	note := append(repair.Note, models.RepairNote{
		Testo:     testo,
		Timestamp: timeutil.Now().Format("02/01/2006 15:04"),
	})
	return s.Store.Update(ctx, models.CollectionRiparazioni, id, store.Fields{"note": note})
}

// UpdateStatus moves the repair to a new stato
func (s *RepairService) UpdateStatus(ctx context.Context, id, stato string) error {
	if !models.IsValidRepairStatus(stato) {
		return fmt.Errorf("stato non valido: %q", stato)
	}
	if err := s.Store.Update(ctx, models.CollectionRiparazioni, id, store.Fields{"stato": stato}); err != nil {
		return err
	}
	cache.InvalidateRepairCaches(ctx)
	return nil
}

// MarkDelivered moves the repair to CONSEGNATO
func (s *RepairService) MarkDelivered(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, models.RepairStatusConsegnato)
}

// DeleteRepair removes the repair record
func (s *RepairService) DeleteRepair(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, models.CollectionRiparazioni, id); err != nil {
		return err
	}
	cache.InvalidateRepairCaches(ctx)
	return nil
}

func (s *RepairService) getRepair(id string) (*models.Repair, error) {
	for _, r := range s.Views.Repairs.Snapshot() {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("riparazione %s non trovata", id)
}
