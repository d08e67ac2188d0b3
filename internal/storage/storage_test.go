package storage_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"netattend/internal/inference"
	"netattend/internal/models"
	"netattend/internal/storage"
	"netattend/internal/storage/memstore"
)

func TestLoadEmptyStoreFallsBackToSeed(t *testing.T) {
	store := storage.New(memstore.New())
	st := store.Load(context.Background())

	if len(st.Subjects) == 0 {
		t.Errorf("expected seed subjects, got none")
	}
	if len(st.Zones) == 0 {
		t.Errorf("expected seed zones, got none")
	}
	if len(st.Attendance) == 0 {
		t.Errorf("expected seed attendance, got none")
	}
	if st.Active != nil {
		t.Errorf("expected idle session, got %+v", st.Active)
	}
	if st.Mode != models.MODE_STUDENT {
		t.Errorf("mode = %q, want student", st.Mode)
	}
	if st.Profile.DeviceID == "" {
		t.Errorf("expected generated device id")
	}
	if st.Profile.Avatar == "" {
		t.Errorf("expected placeholder avatar")
	}
}

func TestLoadCorruptCollectionFallsBackIndependently(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()

	subjects := []models.Subject{
		{ID: "s1", Name: "Maths", ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", TotalClasses: 40, DayOfWeek: 1},
	}

	store := storage.New(kv)
	if err := store.SaveSubjects(ctx, subjects); err != nil {
		t.Fatalf("SaveSubjects() error: %v", err)
	}
	if err := kv.Set(ctx, storage.KeyZones, []byte("{corrupt")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := kv.Set(ctx, storage.KeyActive, []byte("[1,2]")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	st := store.Load(ctx)

	if !reflect.DeepEqual(st.Subjects, subjects) {
		t.Errorf("valid subjects collection was not preserved: %+v", st.Subjects)
	}
	if len(st.Zones) == 0 {
		t.Errorf("corrupt zones should fall back to seed")
	}
	if st.Active != nil {
		t.Errorf("corrupt active session should degrade to idle")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	store := storage.New(kv)

	// First load fills defaults; mutate, flush, and reload through a second
	// synchronizer over the same backend.
	st := store.Load(ctx)
	st.Subjects = append(st.Subjects, models.Subject{
		ID: "s-new", Name: "Biology", ExpectedCheckIn: "13:00", ExpectedCheckOut: "14:30", TotalClasses: 30, DayOfWeek: 4,
	})
	st.Zones = []models.WifiZone{{ID: "z1", SSID: "Lab-WiFi"}}
	st.Active = &models.ActiveCheckIn{SubjectID: "s-new", CheckInTime: time.Date(2026, 9, 3, 13, 2, 0, 0, time.UTC)}
	st.Mode = models.MODE_FACULTY
	st.Profile.Phone = "5550100"

	if err := store.Flush(ctx, st); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	got := storage.New(kv).Load(ctx)

	if !reflect.DeepEqual(got.Subjects, st.Subjects) {
		t.Errorf("subjects differ after round trip")
	}
	if !reflect.DeepEqual(got.Zones, st.Zones) {
		t.Errorf("zones differ after round trip")
	}
	if len(got.Attendance) != len(st.Attendance) {
		t.Errorf("attendance differs after round trip")
	}
	for subjectID, recs := range st.Attendance {
		gotRecs := got.Attendance[subjectID]
		if len(gotRecs) != len(recs) {
			t.Fatalf("attendance for %s differs after round trip", subjectID)
		}
		for i := range recs {
			if gotRecs[i].ID != recs[i].ID || !gotRecs[i].CheckIn.Equal(recs[i].CheckIn) {
				t.Errorf("record %s/%d differs after round trip", subjectID, i)
			}
		}
	}
	if got.Active == nil || got.Active.SubjectID != "s-new" || !got.Active.CheckInTime.Equal(st.Active.CheckInTime) {
		t.Errorf("active session differs after round trip: %+v", got.Active)
	}
	if got.Mode != models.MODE_FACULTY {
		t.Errorf("mode = %q, want faculty", got.Mode)
	}
	if got.Profile.Phone != "5550100" {
		t.Errorf("profile not preserved: %+v", got.Profile)
	}
}

func TestLoadNormalizesAnomalyReason(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	store := storage.New(kv)

	att := map[string][]models.AttendanceRecord{
		"s1": {
			{ID: "r1", CheckIn: time.Now(), IsAnomaly: false, AnomalyReason: "stale reason"},
			{ID: "r2", CheckIn: time.Now(), IsAnomaly: false, AnomalyReason: inference.FallbackReason},
		},
	}
	if err := store.SaveAttendance(ctx, att); err != nil {
		t.Fatalf("SaveAttendance() error: %v", err)
	}

	st := store.Load(ctx)
	if got := st.Attendance["s1"][0].AnomalyReason; got != "" {
		t.Errorf("AnomalyReason = %q, want empty for non-anomalous record", got)
	}
	if got := st.Attendance["s1"][1].AnomalyReason; got != inference.FallbackReason {
		t.Errorf("AnomalyReason = %q, fallback reason must survive reload", got)
	}
}
