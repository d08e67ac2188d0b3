package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"netattend/internal/inference"
	"netattend/internal/models"
)

// ErrKeyNotFound is returned by KV backends for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable byte store. Values are JSON, one key per collection.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Fixed store keys, one per top-level collection.
const (
	KeySubjects   = "netattend:subjects"
	KeyAttendance = "netattend:attendance"
	KeyZones      = "netattend:zones"
	KeyActive     = "netattend:active"
	KeyProfile    = "netattend:profile"
	KeyMode       = "netattend:mode"
)

// Store snapshots application state to the KV backend and rehydrates it at
// startup. Load is total: a missing or corrupt collection degrades to the
// bundled seed (or a generated default), never to an error the caller has to
// handle.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// Load rehydrates the full application state. Each collection is decoded
// independently so one corrupt value cannot take the others down with it.
func (s *Store) Load(ctx context.Context) *models.AppState {
	st := &models.AppState{}

	if !s.loadJSON(ctx, KeySubjects, &st.Subjects) {
		st.Subjects = SeedSubjects()
	}

	if !s.loadJSON(ctx, KeyAttendance, &st.Attendance) || st.Attendance == nil {
		st.Attendance = SeedAttendance()
	}

	if !s.loadJSON(ctx, KeyZones, &st.Zones) {
		st.Zones = SeedZones()
	}

	// A corrupt active-session value degrades to idle.
	if !s.loadJSON(ctx, KeyActive, &st.Active) {
		st.Active = nil
	}

	if !s.loadJSON(ctx, KeyProfile, &st.Profile) {
		st.Profile = SeedProfile()
	}
	fillProfileDefaults(&st.Profile)

	if !s.loadJSON(ctx, KeyMode, &st.Mode) || st.Mode == "" {
		st.Mode = models.MODE_STUDENT
	}

	sanitizeAttendance(st.Attendance)

	return st
}

func (s *Store) loadJSON(ctx context.Context, key string, out any) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// fillProfileDefaults backfills fields older store shapes never had.
func fillProfileDefaults(p *models.UserDetails) {
	if p.DeviceID == "" {
		p.DeviceID = uuid.NewString()
	}
	if p.Avatar == "" {
		p.Avatar = defaultAvatar
	}
	if p.Name == "" {
		p.Name = "Student"
	}
}

// sanitizeAttendance restores the invariant that non-anomalous records carry
// no anomaly reason. The classifier fallback reason is the one exception: it
// marks records recorded while the model boundary was down.
func sanitizeAttendance(att map[string][]models.AttendanceRecord) {
	for _, recs := range att {
		for i := range recs {
			if !recs[i].IsAnomaly && recs[i].AnomalyReason != inference.FallbackReason {
				recs[i].AnomalyReason = ""
			}
		}
	}
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	const op = "storage.saveJSON"

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return nil
}

func (s *Store) SaveSubjects(ctx context.Context, subjects []models.Subject) error {
	return s.saveJSON(ctx, KeySubjects, subjects)
}

func (s *Store) SaveAttendance(ctx context.Context, att map[string][]models.AttendanceRecord) error {
	return s.saveJSON(ctx, KeyAttendance, att)
}

func (s *Store) SaveZones(ctx context.Context, zones []models.WifiZone) error {
	return s.saveJSON(ctx, KeyZones, zones)
}

func (s *Store) SaveActive(ctx context.Context, active *models.ActiveCheckIn) error {
	return s.saveJSON(ctx, KeyActive, active)
}

func (s *Store) SaveProfile(ctx context.Context, profile models.UserDetails) error {
	return s.saveJSON(ctx, KeyProfile, profile)
}

func (s *Store) SaveMode(ctx context.Context, mode models.Mode) error {
	return s.saveJSON(ctx, KeyMode, mode)
}

// Flush writes the whole state in one pass, used at shutdown.
func (s *Store) Flush(ctx context.Context, st *models.AppState) error {
	const op = "storage.Flush"

	savers := []func() error{
		func() error { return s.SaveSubjects(ctx, st.Subjects) },
		func() error { return s.SaveAttendance(ctx, st.Attendance) },
		func() error { return s.SaveZones(ctx, st.Zones) },
		func() error { return s.SaveActive(ctx, st.Active) },
		func() error { return s.SaveProfile(ctx, st.Profile) },
		func() error { return s.SaveMode(ctx, st.Mode) },
	}

	for _, save := range savers {
		if err := save(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
