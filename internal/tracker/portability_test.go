package tracker

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportLegacyKeys(t *testing.T) {
	svc := newTestService(t)

	legacy := []byte(`{
		"pills": [{"name": "Aspirin", "active": true}],
		"pill_log": [{"pill_name": "Aspirin", "date": "2024-01-02", "time": "08:00:00", "action": "taken"}]
	}`)
	assert.NoError(t, svc.ImportData(context.Background(), legacy))

	meds := svc.AllMedications()
	assert.Len(t, meds, 1)
	assert.Equal(t, "Aspirin", meds[0].Name)
	assert.NotEmpty(t, meds[0].ID) // generated during remap

	log := svc.DoseLog()
	assert.Len(t, log, 1)
	assert.Equal(t, "Aspirin", log[0].MedID)
	assert.Equal(t, "Aspirin", log[0].MedName)

	// Missing sleep_log was backfilled, not left absent.
	assert.NotNil(t, svc.ExportData().SleepLog)
}

func TestImportDefaultsMissingActiveFlag(t *testing.T) {
	svc := newTestService(t)

	// Documents written before the flag existed carry no `active` key.
	legacy := []byte(`{"pills": [
		{"name": "Aspirin"},
		{"name": "Retired", "active": false}
	]}`)
	assert.NoError(t, svc.ImportData(context.Background(), legacy))

	active := svc.ActiveMedications()
	assert.Len(t, active, 1)
	assert.Equal(t, "Aspirin", active[0].Name)
	assert.Len(t, svc.AllMedications(), 2)
}

func TestImportRejectsUnrecognizedDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Keep Me"})
	assert.NoError(t, err)

	err = svc.ImportData(ctx, []byte(`{"foo": 1, "bar": []}`))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	err = svc.ImportData(ctx, []byte(`not json at all`))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	// A rejected import leaves the aggregate untouched.
	assert.Len(t, svc.AllMedications(), 1)
}

func TestImportIsFullReplace(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Old"})
	assert.NoError(t, err)

	assert.NoError(t, svc.ImportData(ctx, []byte(`{"medications": [], "med_log": [], "sleep_log": []}`)))
	assert.Empty(t, svc.AllMedications())
	assert.Empty(t, svc.DoseLog())
}

func TestExportSnapshotIsDetached(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	med, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Calcium"})
	assert.NoError(t, err)

	snapshot := svc.ExportData()
	snapshot.Medications[0].Name = "Tampered"

	got, err := svc.GetMedication(med.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Calcium", got.Name)
}

func TestExportCSVOrderedByDate(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "m1", 30, true)
	seedTaken(svc, "m1", 0)
	seedTaken(svc, "m1", 2) // older entry appended later

	var buf bytes.Buffer
	assert.NoError(t, svc.ExportCSV(&buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 3)
	assert.Equal(t, "Date,Time,Medication,Action", string(lines[0]))
	assert.Contains(t, string(lines[1]), dateOffset(-2)) // ascending despite log order
	assert.Contains(t, string(lines[2]), dateOffset(0))
}

func TestResetDataEmptiesAggregate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMedication(ctx, &MedicationRequest{Name: "Gone"})
	assert.NoError(t, err)
	_, err = svc.LogSleep(ctx, &SleepLogRequest{Date: "2024-01-01", Bedtime: "23:00", Waketime: "07:00", Quality: 4})
	assert.NoError(t, err)

	svc.ResetData(ctx)
	assert.Empty(t, svc.AllMedications())
	assert.Empty(t, svc.DoseLog())
	assert.Empty(t, svc.RecentSleep(0))
}
