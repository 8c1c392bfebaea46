package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"WardCare360/models"

	"go.mongodb.org/mongo-driver/bson"
)

// NewMemoryStore returns repositories that keep documents in process. They copy documents
// through bson on every read and write, so callers never share memory with the store.
func NewMemoryStore() *Store {
	return &Store{
		Patients:       &memoryPatients{docs: map[string]models.Patient{}},
		History:        &memoryHistory{docs: map[string]models.PatientHistory{}},
		Counters:       &memoryCounters{seq: map[string]int{}},
		Sections:       &memorySections{},
		Wards:          &memoryWards{},
		Emergency:      &memoryEmergency{},
		Investigations: &memoryInvestigations{},
		LabReports:     &memoryLabReports{},
		Drafts:         NewMemoryDrafts(),
	}
}

func clone[T any](in T) T {
	var out T
	raw, err := bson.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

type memoryPatients struct {
	mu   sync.Mutex
	docs map[string]models.Patient
}

func (m *memoryPatients) Create(ctx context.Context, patient *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[patient.PatientID]; ok {
		return ErrDuplicate
	}
	m.docs[patient.PatientID] = clone(*patient)
	return nil
}

func (m *memoryPatients) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(doc)
	return &out, nil
}

func (m *memoryPatients) List(ctx context.Context, query PatientQuery) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Patient{}
	for _, doc := range m.docs {
		if matchesPatientQuery(&doc, query) {
			out = append(out, clone(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out, nil
}

func matchesPatientQuery(p *models.Patient, query PatientQuery) bool {
	if query.Discharged != nil && p.Discharged != *query.Discharged {
		return false
	}
	if !query.Active && query.DoctorID == "" && query.SectionID == "" {
		return true
	}
	active := p.ActiveAdmission()
	if active == nil {
		return false
	}
	if query.DoctorID != "" && !active.AssignedTo(query.DoctorID) {
		return false
	}
	if query.SectionID != "" && (active.Section == nil || active.Section.ID != query.SectionID) {
		return false
	}
	return true
}

func (m *memoryPatients) Save(ctx context.Context, patient *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.docs[patient.PatientID]
	if !ok {
		return ErrNotFound
	}
	if current.Revision != patient.Revision {
		return ErrStaleRevision
	}
	patient.Revision++
	m.docs[patient.PatientID] = clone(*patient)
	return nil
}

func (m *memoryPatients) Delete(ctx context.Context, patientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[patientID]; !ok {
		return ErrNotFound
	}
	delete(m.docs, patientID)
	return nil
}

func (m *memoryPatients) SetTreatmentStatus(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string, tr models.TreatmentTransition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[patientID]
	if !ok {
		return ErrNotFound
	}
	doc = clone(doc)
	admission, _ := doc.FindAdmission(admissionID)
	if admission == nil {
		return ErrNotFound
	}
	items := admission.Items(t)
	if items == nil {
		return ErrNotFound
	}
	for i := range *items {
		item := &(*items)[i]
		if item.ItemID != itemID {
			continue
		}
		if item.Status != models.TreatmentPending {
			return ErrNotPending
		}
		actedBy := tr.ActedBy
		actedAt := tr.ActedAt
		item.Status = tr.Status
		item.ActedBy = &actedBy
		item.ActedAt = &actedAt
		item.Notes = tr.Notes
		doc.Revision++
		m.docs[patientID] = doc
		return nil
	}
	return ErrNotFound
}

func (m *memoryPatients) PullTreatmentItem(ctx context.Context, patientID, admissionID string, t models.TreatmentType, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[patientID]
	if !ok {
		return ErrNotFound
	}
	doc = clone(doc)
	admission, _ := doc.FindAdmission(admissionID)
	if admission == nil {
		return ErrNotFound
	}
	items := admission.Items(t)
	if items == nil {
		return ErrNotFound
	}
	for i := range *items {
		if (*items)[i].ItemID == itemID {
			*items = append((*items)[:i], (*items)[i+1:]...)
			doc.Revision++
			m.docs[patientID] = doc
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryPatients) ListAwaitingArchival(ctx context.Context) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Patient{}
	for _, doc := range m.docs {
		for i := range doc.AdmissionRecords {
			if doc.AdmissionRecords[i].AwaitingArchival() {
				out = append(out, clone(doc))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out, nil
}

type memoryHistory struct {
	mu   sync.Mutex
	docs map[string]models.PatientHistory
}

func (m *memoryHistory) Get(ctx context.Context, patientID string) (*models.PatientHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(doc)
	return &out, nil
}

func (m *memoryHistory) AppendEntry(ctx context.Context, patientID, name string, entry models.HistoryEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	doc, ok := m.docs[patientID]
	if !ok {
		doc = models.PatientHistory{PatientID: patientID, CreatedAt: now}
	}
	if doc.Entry(entry.AdmissionID) != nil {
		return false, nil
	}
	doc.Name = name
	doc.History = append(doc.History, clone(entry))
	doc.UpdatedAt = now
	m.docs[patientID] = clone(doc)
	return true, nil
}

type memoryCounters struct {
	mu  sync.Mutex
	seq map[string]int
}

func (m *memoryCounters) Next(ctx context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq[name]++
	return m.seq[name], nil
}

type memorySections struct {
	mu   sync.Mutex
	docs []models.Section
}

func (m *memorySections) Create(ctx context.Context, section *models.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.docs {
		if s.SectionID == section.SectionID || s.Name == section.Name {
			return ErrDuplicate
		}
	}
	m.docs = append(m.docs, clone(*section))
	return nil
}

func (m *memorySections) Get(ctx context.Context, sectionID string) (*models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.docs {
		if s.SectionID == sectionID {
			out := clone(s)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memorySections) List(ctx context.Context) ([]models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Section, 0, len(m.docs))
	for _, s := range m.docs {
		out = append(out, clone(s))
	}
	return out, nil
}

type memoryWards struct {
	mu   sync.Mutex
	docs []models.Ward
}

func (m *memoryWards) Create(ctx context.Context, ward *models.Ward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.docs {
		if w.WardID == ward.WardID || w.Name == ward.Name {
			return ErrDuplicate
		}
	}
	m.docs = append(m.docs, clone(*ward))
	return nil
}

func (m *memoryWards) Get(ctx context.Context, wardID string) (*models.Ward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.docs {
		if w.WardID == wardID {
			out := clone(w)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryWards) List(ctx context.Context) ([]models.Ward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Ward, 0, len(m.docs))
	for _, w := range m.docs {
		out = append(out, clone(w))
	}
	return out, nil
}

func (m *memoryWards) Save(ctx context.Context, ward *models.Ward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.docs {
		if w.WardID == ward.WardID {
			if w.Revision != ward.Revision {
				return ErrStaleRevision
			}
			ward.Revision++
			m.docs[i] = clone(*ward)
			return nil
		}
	}
	return ErrNotFound
}

type memoryEmergency struct {
	mu   sync.Mutex
	docs []models.EmergencyMedication
}

func (m *memoryEmergency) Create(ctx context.Context, med *models.EmergencyMedication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, clone(*med))
	return nil
}

func (m *memoryEmergency) Get(ctx context.Context, medicationID string) (*models.EmergencyMedication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.MedicationID == medicationID {
			out := clone(d)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryEmergency) List(ctx context.Context, status string) ([]models.EmergencyMedication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.EmergencyMedication{}
	for _, d := range m.docs {
		if status == "" || d.Status == status {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *memoryEmergency) Save(ctx context.Context, med *models.EmergencyMedication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d.MedicationID == med.MedicationID {
			if d.Revision != med.Revision {
				return ErrStaleRevision
			}
			med.Revision++
			m.docs[i] = clone(*med)
			return nil
		}
	}
	return ErrNotFound
}

type memoryInvestigations struct {
	mu   sync.Mutex
	docs []models.Investigation
}

func (m *memoryInvestigations) Create(ctx context.Context, inv *models.Investigation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, clone(*inv))
	return nil
}

func (m *memoryInvestigations) Get(ctx context.Context, investigationID string) (*models.Investigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.InvestigationID == investigationID {
			out := clone(d)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryInvestigations) ListByAdmission(ctx context.Context, patientID, admissionID string) ([]models.Investigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Investigation{}
	for _, d := range m.docs {
		if d.PatientID == patientID && d.AdmissionID == admissionID {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *memoryInvestigations) Save(ctx context.Context, inv *models.Investigation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d.InvestigationID == inv.InvestigationID {
			m.docs[i] = clone(*inv)
			return nil
		}
	}
	return ErrNotFound
}

type memoryLabReports struct {
	mu   sync.Mutex
	docs []models.LabReport
}

func (m *memoryLabReports) Create(ctx context.Context, report *models.LabReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, clone(*report))
	return nil
}

func (m *memoryLabReports) ListByAdmission(ctx context.Context, admissionID string) ([]models.LabReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LabReport{}
	for _, d := range m.docs {
		if d.AdmissionID == admissionID {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *memoryLabReports) ListByInvestigation(ctx context.Context, investigationID string) ([]models.LabReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LabReport{}
	for _, d := range m.docs {
		if d.InvestigationID == investigationID {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

// MemoryDrafts expires drafts against Now, which tests may replace.
type MemoryDrafts struct {
	mu      sync.Mutex
	drafts  map[string]models.DischargeDraft
	expires map[string]time.Time
	Now     func() time.Time
}

func NewMemoryDrafts() *MemoryDrafts {
	return &MemoryDrafts{
		drafts:  map[string]models.DischargeDraft{},
		expires: map[string]time.Time{},
		Now:     time.Now,
	}
}

func (m *MemoryDrafts) Put(ctx context.Context, draft *models.DischargeDraft, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.DraftID] = *draft
	m.expires[draft.DraftID] = m.Now().Add(ttl)
	return nil
}

func (m *MemoryDrafts) Get(ctx context.Context, draftID string) (*models.DischargeDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.drafts[draftID]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.Now().Before(m.expires[draftID]) {
		delete(m.drafts, draftID)
		delete(m.expires, draftID)
		return nil, ErrNotFound
	}
	return &draft, nil
}

func (m *MemoryDrafts) Delete(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftID)
	delete(m.expires, draftID)
	return nil
}
