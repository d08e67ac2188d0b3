package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"netattend/api"
	"netattend/internal/inference"
	"netattend/internal/lock"
	"netattend/internal/models"
	"netattend/internal/schedule"
	"netattend/internal/stats"
	"netattend/pkg/response"
)

// Store is the persistence synchronizer the service flushes through after
// every externally visible mutation.
type Store interface {
	Load(ctx context.Context) *models.AppState
	SaveSubjects(ctx context.Context, subjects []models.Subject) error
	SaveAttendance(ctx context.Context, att map[string][]models.AttendanceRecord) error
	SaveZones(ctx context.Context, zones []models.WifiZone) error
	SaveActive(ctx context.Context, active *models.ActiveCheckIn) error
	SaveProfile(ctx context.Context, profile models.UserDetails) error
	SaveMode(ctx context.Context, mode models.Mode) error
	Flush(ctx context.Context, st *models.AppState) error
}

// Model is the inference boundary consumed by checkout, bulk import, and the
// headcount endpoint.
type Model interface {
	ClassifyAttendance(ctx context.Context, checkIn, checkOut time.Time, subject models.Subject, history []models.AttendanceRecord) inference.Verdict
	ExtractTimetable(ctx context.Context, imageData string) ([]inference.SubjectDraft, error)
	EstimateHeadcount(ctx context.Context, expected int) (int, error)
}

// Service owns all mutation entry points over the application state. One
// logical writer: every transition happens under mu, except the classifier
// call during checkout, which runs outside the lock behind a pending flag so
// concurrent checkouts are rejected rather than queued.
type Service struct {
	store        Store
	locker       lock.Locker
	model        Model
	modelTimeout time.Duration

	mu              sync.Mutex
	st              *models.AppState
	checkoutPending bool

	now func() time.Time
}

func NewService(store Store, locker lock.Locker, model Model, modelTimeout time.Duration) *Service {
	if modelTimeout <= 0 {
		modelTimeout = 10 * time.Second
	}

	return &Service{
		store:        store,
		locker:       locker,
		model:        model,
		modelTimeout: modelTimeout,
		st:           store.Load(context.Background()),
		now:          time.Now,
	}
}

// Flush writes the whole in-memory state, used at shutdown.
func (s *Service) Flush(ctx context.Context) error {
	const op = "service.Flush"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Flush(ctx, s.st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### subjects ####

func subjectResponse(sub *models.Subject) *api.SubjectResponse {
	return &api.SubjectResponse{
		ID:               sub.ID,
		Name:             sub.Name,
		ExpectedCheckIn:  sub.ExpectedCheckIn,
		ExpectedCheckOut: sub.ExpectedCheckOut,
		TotalClasses:     sub.TotalClasses,
		DayOfWeek:        sub.DayOfWeek,
	}
}

func (s *Service) findSubject(id string) *models.Subject {
	for i := range s.st.Subjects {
		if s.st.Subjects[i].ID == id {
			return &s.st.Subjects[i]
		}
	}
	return nil
}

func (s *Service) CreateSubject(ctx context.Context, req *api.SubjectRequest) (*api.SubjectResponse, error) {
	const op = "service.CreateSubject"

	sub := models.Subject{
		ID:               uuid.NewString(),
		Name:             req.Name,
		ExpectedCheckIn:  req.ExpectedCheckIn,
		ExpectedCheckOut: req.ExpectedCheckOut,
		TotalClasses:     req.TotalClasses,
		DayOfWeek:        req.DayOfWeek,
	}

	if err := schedule.Validate(&sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Subjects = append(s.st.Subjects, sub)

	if err := s.store.SaveSubjects(ctx, s.st.Subjects); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return subjectResponse(&sub), nil
}

func (s *Service) GetSubject(ctx context.Context, id string) (*api.SubjectResponse, error) {
	const op = "service.GetSubject"

	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.findSubject(id)
	if sub == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return subjectResponse(sub), nil
}

func (s *Service) ListSubjects(ctx context.Context) ([]*api.SubjectResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*api.SubjectResponse, 0, len(s.st.Subjects))
	for i := range s.st.Subjects {
		out = append(out, subjectResponse(&s.st.Subjects[i]))
	}

	return out, nil
}

func (s *Service) UpdateSubject(ctx context.Context, id string, req *api.SubjectRequest) (*api.SubjectResponse, error) {
	const op = "service.UpdateSubject"

	next := models.Subject{
		ID:               id,
		Name:             req.Name,
		ExpectedCheckIn:  req.ExpectedCheckIn,
		ExpectedCheckOut: req.ExpectedCheckOut,
		TotalClasses:     req.TotalClasses,
		DayOfWeek:        req.DayOfWeek,
	}

	if err := schedule.Validate(&next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.findSubject(id)
	if sub == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	*sub = next

	if err := s.store.SaveSubjects(ctx, s.st.Subjects); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return subjectResponse(sub), nil
}

// DeleteSubject removes the subject, cascades deletion of its attendance
// records, and clears any active session that pointed at it.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	const op = "service.DeleteSubject"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkoutPending {
		return fmt.Errorf("%s: %w", op, response.ErrCheckoutPending)
	}

	idx := -1
	for i := range s.st.Subjects {
		if s.st.Subjects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	s.st.Subjects = append(s.st.Subjects[:idx], s.st.Subjects[idx+1:]...)
	delete(s.st.Attendance, id)

	if s.st.Active != nil && s.st.Active.SubjectID == id {
		s.st.Active = nil
		if err := s.store.SaveActive(ctx, s.st.Active); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.store.SaveSubjects(ctx, s.st.Subjects); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SaveAttendance(ctx, s.st.Attendance); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ImportTimetable extracts subjects from a timetable image through the model
// boundary and creates the valid ones. Invalid drafts are skipped, not fatal.
func (s *Service) ImportTimetable(ctx context.Context, imageData string) ([]*api.SubjectResponse, error) {
	const op = "service.ImportTimetable"

	if imageData == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	mctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	drafts, err := s.model.ExtractTimetable(mctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]*api.SubjectResponse, 0, len(drafts))
	for _, d := range drafts {
		sub := models.Subject{
			ID:               uuid.NewString(),
			Name:             d.Name,
			ExpectedCheckIn:  d.ExpectedCheckIn,
			ExpectedCheckOut: d.ExpectedCheckOut,
			TotalClasses:     d.TotalClasses,
			DayOfWeek:        d.DayOfWeek,
		}
		if sub.Name == "" || schedule.Validate(&sub) != nil {
			continue
		}
		s.st.Subjects = append(s.st.Subjects, sub)
		created = append(created, subjectResponse(&s.st.Subjects[len(s.st.Subjects)-1]))
	}

	if len(created) > 0 {
		if err := s.store.SaveSubjects(ctx, s.st.Subjects); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return created, nil
}

// #### session ####

func (s *Service) sessionResponseLocked() *api.SessionResponse {
	resp := &api.SessionResponse{}

	if s.st.Active != nil {
		t := s.st.Active.CheckInTime
		resp.CheckedIn = true
		resp.SubjectID = s.st.Active.SubjectID
		resp.CheckInTime = &t
	}

	if current := schedule.FindActiveSubject(s.st.Subjects, s.now()); current != nil {
		resp.CurrentSubject = subjectResponse(current)
	}

	return resp
}

// Session reports the active check-in, if any, and the subject currently in
// session so callers can tell "no class right now" apart from "not loaded".
func (s *Service) Session(ctx context.Context) (*api.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessionResponseLocked(), nil
}

// CheckIn starts a session for the subject. With an empty subject id the
// subject currently in session is used. Rejected when a session is already
// active or when no wifi zone gates the campus network.
func (s *Service) CheckIn(ctx context.Context, subjectID string) (*api.SessionResponse, error) {
	const op = "service.CheckIn"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkoutPending {
		return nil, fmt.Errorf("%s: %w", op, response.ErrCheckoutPending)
	}

	if s.st.Active != nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrAlreadyCheckedIn)
	}

	if len(s.st.Zones) == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoZoneDefined)
	}

	var sub *models.Subject
	if subjectID == "" {
		sub = schedule.FindActiveSubject(s.st.Subjects, s.now())
	} else {
		sub = s.findSubject(subjectID)
	}
	if sub == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	s.st.Active = &models.ActiveCheckIn{
		SubjectID:   sub.ID,
		CheckInTime: s.now(),
	}

	if err := s.store.SaveActive(ctx, s.st.Active); err != nil {
		s.st.Active = nil
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.sessionResponseLocked(), nil
}

// CheckOut ends the active session for the subject and appends an attendance
// record. The classifier runs outside the state lock with a bounded timeout;
// while it is in flight further checkouts, check-ins, and subject deletions
// are rejected, so the session snapshot cannot shift under the pending call.
func (s *Service) CheckOut(ctx context.Context, subjectID string) (*api.RecordResponse, error) {
	const op = "service.CheckOut"

	s.mu.Lock()

	if s.checkoutPending {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, response.ErrCheckoutPending)
	}

	if s.st.Active == nil || s.st.Active.SubjectID != subjectID {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotCheckedIn)
	}

	sub := s.findSubject(subjectID)
	if sub == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	subject := *sub
	active := *s.st.Active
	studentID := s.st.Profile.RollNo
	history := append([]models.AttendanceRecord{}, s.st.Attendance[subjectID]...)

	s.checkoutPending = true
	s.mu.Unlock()

	finish := func() {
		s.mu.Lock()
		s.checkoutPending = false
		s.mu.Unlock()
	}

	lockKey := fmt.Sprintf("checkout:%s", studentID)
	ok, err := s.locker.Lock(ctx, lockKey, s.modelTimeout+5*time.Second)
	if err != nil {
		finish()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		finish()
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(context.Background(), lockKey)
	}()

	checkOut := s.now()
	// Keep the checkout-after-checkin invariant even if the wall clock was
	// adjusted backwards during the session.
	if !checkOut.After(active.CheckInTime) {
		checkOut = active.CheckInTime.Add(time.Second)
	}

	mctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	verdict := s.model.ClassifyAttendance(mctx, active.CheckInTime, checkOut, subject, history)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkoutPending = false

	// The pending flag blocks other session and subject mutations while the
	// classifier runs, but re-verify the snapshot before committing anyway.
	if s.st.Active == nil || s.st.Active.SubjectID != subjectID {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotCheckedIn)
	}
	if s.findSubject(subjectID) == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	rec := models.AttendanceRecord{
		ID:            uuid.NewString(),
		Date:          active.CheckInTime,
		CheckIn:       active.CheckInTime,
		CheckOut:      &checkOut,
		IsAnomaly:     verdict.IsAnomaly,
		AnomalyReason: verdict.Reason,
		StudentID:     studentID,
	}
	if !rec.IsAnomaly && rec.AnomalyReason != "" && rec.AnomalyReason != inference.FallbackReason {
		rec.AnomalyReason = ""
	}

	if s.st.Attendance == nil {
		s.st.Attendance = make(map[string][]models.AttendanceRecord)
	}
	s.st.Attendance[subjectID] = append(s.st.Attendance[subjectID], rec)
	s.st.Active = nil

	if err := s.store.SaveAttendance(ctx, s.st.Attendance); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.SaveActive(ctx, s.st.Active); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return recordResponse(subjectID, &rec), nil
}

// #### records ####

func recordResponse(subjectID string, rec *models.AttendanceRecord) *api.RecordResponse {
	return &api.RecordResponse{
		ID:            rec.ID,
		SubjectID:     subjectID,
		Date:          rec.Date,
		CheckIn:       rec.CheckIn,
		CheckOut:      rec.CheckOut,
		IsAnomaly:     rec.IsAnomaly,
		AnomalyReason: rec.AnomalyReason,
		StudentID:     rec.StudentID,
	}
}

// ListRecords returns records in subject list order, optionally filtered to
// one subject.
func (s *Service) ListRecords(ctx context.Context, subjectID *string) ([]*api.RecordResponse, error) {
	const op = "service.ListRecords"

	s.mu.Lock()
	defer s.mu.Unlock()

	if subjectID != nil {
		if s.findSubject(*subjectID) == nil {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		recs := s.st.Attendance[*subjectID]
		out := make([]*api.RecordResponse, 0, len(recs))
		for i := range recs {
			out = append(out, recordResponse(*subjectID, &recs[i]))
		}
		return out, nil
	}

	var out []*api.RecordResponse
	for i := range s.st.Subjects {
		id := s.st.Subjects[i].ID
		for j := range s.st.Attendance[id] {
			out = append(out, recordResponse(id, &s.st.Attendance[id][j]))
		}
	}

	return out, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	const op = "service.DeleteRecord"

	s.mu.Lock()
	defer s.mu.Unlock()

	for subjectID, recs := range s.st.Attendance {
		for i := range recs {
			if recs[i].ID != id {
				continue
			}

			s.st.Attendance[subjectID] = append(recs[:i], recs[i+1:]...)

			if err := s.store.SaveAttendance(ctx, s.st.Attendance); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, response.ErrNotFound)
}

// ExportRecordsCSV renders all records as CSV in subject list order.
func (s *Service) ExportRecordsCSV(ctx context.Context) ([]byte, error) {
	const op = "service.ExportRecordsCSV"

	records, err := s.ListRecords(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	names := make(map[string]string, len(s.st.Subjects))
	for i := range s.st.Subjects {
		names[s.st.Subjects[i].ID] = s.st.Subjects[i].Name
	}
	s.mu.Unlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"subject", "date", "check_in", "check_out", "is_anomaly", "anomaly_reason", "student_id"})
	for _, rec := range records {
		checkOut := ""
		if rec.CheckOut != nil {
			checkOut = rec.CheckOut.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			names[rec.SubjectID],
			rec.Date.Format("2006-01-02"),
			rec.CheckIn.Format(time.RFC3339),
			checkOut,
			strconv.FormatBool(rec.IsAnomaly),
			rec.AnomalyReason,
			rec.StudentID,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// #### stats ####

func (s *Service) Stats(ctx context.Context) (*api.StatsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perSubject := make([]api.SubjectStats, 0, len(s.st.Subjects))
	counts := make([]stats.SubjectCount, 0, len(s.st.Subjects))

	for i := range s.st.Subjects {
		sub := &s.st.Subjects[i]
		attended := len(s.st.Attendance[sub.ID])
		pct := stats.Percentage(attended, sub.TotalClasses)

		perSubject = append(perSubject, api.SubjectStats{
			SubjectID:    sub.ID,
			Name:         sub.Name,
			Attended:     attended,
			Missed:       stats.Missed(attended, sub.TotalClasses),
			TotalClasses: sub.TotalClasses,
			Percentage:   pct,
			Tier:         string(stats.TierFor(pct)),
		})
		counts = append(counts, stats.SubjectCount{Attended: attended, Total: sub.TotalClasses})
	}

	overall := stats.Overall(counts)

	return &api.StatsResponse{
		Subjects:          perSubject,
		OverallPercentage: overall,
		OverallTier:       string(stats.TierFor(overall)),
	}, nil
}

// #### zones ####

func (s *Service) CreateZone(ctx context.Context, req *api.ZoneRequest) (*api.ZoneResponse, error) {
	const op = "service.CreateZone"

	if req.SSID == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	zone := models.WifiZone{ID: uuid.NewString(), SSID: req.SSID}
	s.st.Zones = append(s.st.Zones, zone)

	if err := s.store.SaveZones(ctx, s.st.Zones); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.ZoneResponse{ID: zone.ID, SSID: zone.SSID}, nil
}

func (s *Service) ListZones(ctx context.Context) ([]*api.ZoneResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*api.ZoneResponse, 0, len(s.st.Zones))
	for _, z := range s.st.Zones {
		out = append(out, &api.ZoneResponse{ID: z.ID, SSID: z.SSID})
	}

	return out, nil
}

func (s *Service) DeleteZone(ctx context.Context, id string) error {
	const op = "service.DeleteZone"

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.st.Zones {
		if s.st.Zones[i].ID != id {
			continue
		}

		s.st.Zones = append(s.st.Zones[:i], s.st.Zones[i+1:]...)

		if err := s.store.SaveZones(ctx, s.st.Zones); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	return fmt.Errorf("%s: %w", op, response.ErrNotFound)
}

// #### profile ####

func (s *Service) profileResponseLocked() *api.ProfileResponse {
	p := s.st.Profile
	return &api.ProfileResponse{
		Name:       p.Name,
		RollNo:     p.RollNo,
		Program:    p.Program,
		Branch:     p.Branch,
		Department: p.Department,
		Section:    p.Section,
		Phone:      p.Phone,
		ParentName: p.ParentName,
		Address:    p.Address,
		DeviceID:   p.DeviceID,
		Avatar:     p.Avatar,
		Mode:       string(s.st.Mode),
	}
}

func (s *Service) Profile(ctx context.Context) (*api.ProfileResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profileResponseLocked(), nil
}

// UpdateProfile replaces the editable profile fields. DeviceID is owned by
// the server and never overwritten. Mode, when present, switches the client
// role toggle.
func (s *Service) UpdateProfile(ctx context.Context, req *api.ProfileRequest) (*api.ProfileResponse, error) {
	const op = "service.UpdateProfile"

	if req.Name == "" || req.RollNo == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	mode := models.Mode(req.Mode)
	if req.Mode != "" && mode != models.MODE_STUDENT && mode != models.MODE_FACULTY && mode != models.MODE_ADMIN {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.st.Profile
	p.Name = req.Name
	p.RollNo = req.RollNo
	p.Program = req.Program
	p.Branch = req.Branch
	p.Department = req.Department
	p.Section = req.Section
	p.Phone = req.Phone
	p.ParentName = req.ParentName
	p.Address = req.Address
	if req.Avatar != "" {
		p.Avatar = req.Avatar
	}

	if err := s.store.SaveProfile(ctx, *p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Mode != "" && mode != s.st.Mode {
		s.st.Mode = mode
		if err := s.store.SaveMode(ctx, s.st.Mode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return s.profileResponseLocked(), nil
}

// #### headcount ####

func (s *Service) Headcount(ctx context.Context, expected int) (*api.HeadcountResponse, error) {
	const op = "service.Headcount"

	if expected <= 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	mctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	estimated, err := s.model.EstimateHeadcount(mctx, expected)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.HeadcountResponse{Expected: expected, Estimated: estimated}, nil
}
