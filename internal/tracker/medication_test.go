package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMedicationDefaults(t *testing.T) {
	svc := newTestService(t)

	med, err := svc.AddMedication(context.Background(), &MedicationRequest{Name: "Vitamin D"})
	assert.NoError(t, err)
	assert.NotEmpty(t, med.ID)
	assert.True(t, med.Active)
	assert.Equal(t, 7, med.SupplyWarn)
	assert.Nil(t, med.Supply)
	assert.Equal(t, testNow, med.Created)
}

func TestAddMedicationRejectsEmptyName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddMedication(context.Background(), &MedicationRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, svc.AllMedications())
}

func TestUpdateMedicationPartialMerge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	med, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Magnesium", Dosage: "200mg"})
	assert.NoError(t, err)

	notes := "with dinner"
	updated, err := svc.UpdateMedication(ctx, med.ID, &MedicationUpdate{Notes: &notes})
	assert.NoError(t, err)
	assert.Equal(t, "with dinner", updated.Notes)
	assert.Equal(t, "200mg", updated.Dosage) // unspecified fields retained

	empty := ""
	_, err = svc.UpdateMedication(ctx, med.ID, &MedicationUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdateMedicationUnknownIDIsNoOp(t *testing.T) {
	svc := newTestService(t)

	notes := "nope"
	med, err := svc.UpdateMedication(context.Background(), "missing", &MedicationUpdate{Notes: &notes})
	assert.NoError(t, err)
	assert.Nil(t, med)
}

func TestDeleteMedicationKeepsDoseHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	med, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Iron"})
	assert.NoError(t, err)
	svc.LogTaken(ctx, med.ID, med.Name)

	svc.DeleteMedication(ctx, med.ID)
	_, err = svc.GetMedication(med.ID)
	assert.ErrorIs(t, err, ErrMedicationNotFound)

	// The log is the source of historical truth; entries stay orphaned by id.
	log := svc.DoseLog()
	assert.Len(t, log, 1)
	assert.Equal(t, med.ID, log[0].MedID)
	assert.Equal(t, "Iron", log[0].MedName)
}

func TestActiveMedicationsExcludesInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.AddMedication(ctx, &MedicationRequest{Name: "A"})
	_, err := svc.AddMedication(ctx, &MedicationRequest{Name: "B"})
	assert.NoError(t, err)

	inactive := false
	_, err = svc.UpdateMedication(ctx, a.ID, &MedicationUpdate{Active: &inactive})
	assert.NoError(t, err)

	assert.Len(t, svc.ActiveMedications(), 1)
	assert.Len(t, svc.AllMedications(), 2)
}

func TestLowSupplyMedications(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	low := 3
	plenty := 90
	_, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Low", Supply: &low})
	assert.NoError(t, err)
	_, err = svc.AddMedication(ctx, &MedicationRequest{Name: "Plenty", Supply: &plenty})
	assert.NoError(t, err)
	_, err = svc.AddMedication(ctx, &MedicationRequest{Name: "Untracked"})
	assert.NoError(t, err)

	alerts := svc.LowSupplyMedications()
	assert.Len(t, alerts, 1)
	assert.Equal(t, "Low", alerts[0].Name)
}
