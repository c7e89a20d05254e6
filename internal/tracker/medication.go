package tracker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

const defaultSupplyWarn = 7

// MedicationRequest carries the caller-supplied fields for a new medication.
type MedicationRequest struct {
	Name       string `json:"name" validate:"required"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	TimeOfDay  string `json:"time_of_day"`
	Notes      string `json:"notes"`
	Color      string `json:"color"`
	Supply     *int   `json:"supply" validate:"omitempty,gte=0"`
	SupplyWarn *int   `json:"supply_warn" validate:"omitempty,gte=0"`
}

// MedicationUpdate is a partial update; nil fields keep their prior values.
type MedicationUpdate struct {
	Name       *string `json:"name"`
	Dosage     *string `json:"dosage"`
	Frequency  *string `json:"frequency"`
	TimeOfDay  *string `json:"time_of_day"`
	Notes      *string `json:"notes"`
	Color      *string `json:"color"`
	Supply     *int    `json:"supply" validate:"omitempty,gte=0"`
	SupplyWarn *int    `json:"supply_warn" validate:"omitempty,gte=0"`
	Active     *bool   `json:"active"`
}

func (s *Service) AddMedication(ctx context.Context, req *MedicationRequest) (*internal.Medication, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	med := &internal.Medication{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		TimeOfDay:  req.TimeOfDay,
		Notes:      req.Notes,
		Color:      req.Color,
		SupplyWarn: defaultSupplyWarn,
		Active:     true,
		Created:    s.now(),
	}
	if req.Supply != nil {
		v := *req.Supply
		med.Supply = &v
	}
	if req.SupplyWarn != nil {
		med.SupplyWarn = *req.SupplyWarn
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Medications = append(s.data.Medications, med)
	s.persist(ctx)
	return cloneMedication(med), nil
}

// UpdateMedication merges the given fields into the matching record.
// Unknown ids are successful no-ops and return nil.
func (s *Service) UpdateMedication(ctx context.Context, id string, upd *MedicationUpdate) (*internal.Medication, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := validate.Struct(upd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	med := s.findMedication(id)
	if med == nil {
		return nil, nil
	}
	if upd.Name != nil {
		med.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Dosage != nil {
		med.Dosage = *upd.Dosage
	}
	if upd.Frequency != nil {
		med.Frequency = *upd.Frequency
	}
	if upd.TimeOfDay != nil {
		med.TimeOfDay = *upd.TimeOfDay
	}
	if upd.Notes != nil {
		med.Notes = *upd.Notes
	}
	if upd.Color != nil {
		med.Color = *upd.Color
	}
	if upd.Supply != nil {
		v := *upd.Supply
		med.Supply = &v
	}
	if upd.SupplyWarn != nil {
		med.SupplyWarn = *upd.SupplyWarn
	}
	if upd.Active != nil {
		med.Active = *upd.Active
	}
	s.persist(ctx)
	return cloneMedication(med), nil
}

// DeleteMedication removes the definition. Historical dose-log entries keep
// referencing the id; the log is the source of historical truth.
func (s *Service) DeleteMedication(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.Medications[:0]
	removed := false
	for _, m := range s.data.Medications {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	s.data.Medications = kept
	if removed {
		s.persist(ctx)
	}
}

func (s *Service) GetMedication(id string) (*internal.Medication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	med := s.findMedication(id)
	if med == nil {
		return nil, ErrMedicationNotFound
	}
	return cloneMedication(med), nil
}

// ActiveMedications returns only records with active=true.
func (s *Service) ActiveMedications() []internal.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]internal.Medication, 0, len(s.data.Medications))
	for _, m := range s.data.Medications {
		if m.Active {
			out = append(out, *cloneMedication(m))
		}
	}
	return out
}

func (s *Service) AllMedications() []internal.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]internal.Medication, 0, len(s.data.Medications))
	for _, m := range s.data.Medications {
		out = append(out, *cloneMedication(m))
	}
	return out
}

// LowSupplyMedications lists active medications whose tracked supply has
// reached the warn threshold.
func (s *Service) LowSupplyMedications() []internal.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []internal.Medication
	for _, m := range s.data.Medications {
		if m.Active && m.LowOnSupply() {
			out = append(out, *cloneMedication(m))
		}
	}
	return out
}

// findMedication must be called with s.mu held.
func (s *Service) findMedication(id string) *internal.Medication {
	for _, m := range s.data.Medications {
		if m.ID == id {
			return m
		}
	}
	return nil
}
