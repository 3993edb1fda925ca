package application

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

// memStore 测试用内存存储，四个仓储共享同一份数据
type memStore struct {
	mu sync.Mutex

	nextID    uint
	employees map[uint]domain.Employee
	types     map[uint]domain.DocumentType
	edges     map[domain.Pair]domain.RequirementEdge
	documents map[uint]domain.Document

	events []string
}

func newMemStore() *memStore {
	return &memStore{
		employees: make(map[uint]domain.Employee),
		types:     make(map[uint]domain.DocumentType),
		edges:     make(map[domain.Pair]domain.RequirementEdge),
		documents: make(map[uint]domain.Document),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) repos() (*memEmployees, *memTypes, *memRequirements, *memDocuments) {
	return &memEmployees{m}, &memTypes{m}, &memRequirements{m}, &memDocuments{m}
}

// Publish 记录事件类型，便于断言
func (m *memStore) Publish(_ context.Context, eventType, _ string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
	return nil
}

func (m *memStore) enrich(e domain.RequirementEdge) domain.RequirementEdge {
	emp := m.employees[e.EmployeeID]
	e.EmployeeName = emp.Name
	e.EmployeeDocument = emp.Document
	e.EmployeeHiredAt = emp.HiredAt
	e.DocumentTypeName = m.types[e.DocumentTypeID].Name
	return e
}

func (m *memStore) enrichDoc(d domain.Document) domain.Document {
	d.EmployeeName = m.employees[d.EmployeeID].Name
	d.DocumentTypeName = m.types[d.DocumentTypeID].Name
	return d
}

type memEmployees struct{ *memStore }

func (r *memEmployees) Create(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.id()
	r.employees[e.ID] = *e
	return nil
}

func (r *memEmployees) Update(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = *e
	return nil
}

func (r *memEmployees) GetByID(_ context.Context, id uint) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.NotFoundError(domain.ErrEmployeeNotFound, "employee %d not found", id)
	}
	return &e, nil
}

func (r *memEmployees) FindByDocument(_ context.Context, document string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Document == document {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *memEmployees) List(ctx context.Context, q domain.EmployeeQuery) ([]domain.Employee, int64, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(q.Name)) {
			filtered = append(filtered, e)
		}
	}
	total := int64(len(filtered))
	start := min(q.Offset, len(filtered))
	end := min(start+q.Limit, len(filtered))
	return filtered[start:end], total, nil
}

func (r *memEmployees) ListAll(context.Context) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.Employee) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

type memTypes struct{ *memStore }

func (r *memTypes) Create(_ context.Context, dt *domain.DocumentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dt.ID = r.id()
	r.types[dt.ID] = *dt
	return nil
}

func (r *memTypes) Update(_ context.Context, dt *domain.DocumentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[dt.ID] = *dt
	return nil
}

func (r *memTypes) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, id)
	return nil
}

func (r *memTypes) GetByID(_ context.Context, id uint) (*domain.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dt, ok := r.types[id]
	if !ok {
		return nil, domain.NotFoundError(domain.ErrDocumentTypeNotFound, "document type %d not found", id)
	}
	return &dt, nil
}

func (r *memTypes) FindByName(_ context.Context, name string) (*domain.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dt := range r.types {
		if strings.EqualFold(dt.Name, name) {
			return &dt, nil
		}
	}
	return nil, nil
}

func (r *memTypes) FindByIDs(_ context.Context, ids []uint) ([]domain.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DocumentType
	for _, id := range ids {
		if dt, ok := r.types[id]; ok {
			out = append(out, dt)
		}
	}
	return out, nil
}

func (r *memTypes) List(context.Context) ([]domain.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DocumentType, 0, len(r.types))
	for _, dt := range r.types {
		out = append(out, dt)
	}
	slices.SortFunc(out, func(a, b domain.DocumentType) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

type memRequirements struct{ *memStore }

func (r *memRequirements) Find(_ context.Context, f domain.RequirementFilter) ([]domain.RequirementEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RequirementEdge
	for _, e := range r.edges {
		e = r.enrich(e)
		if len(f.EmployeeIDs) > 0 && !slices.Contains(f.EmployeeIDs, e.EmployeeID) {
			continue
		}
		if len(f.DocumentTypeIDs) > 0 && !slices.Contains(f.DocumentTypeIDs, e.DocumentTypeID) {
			continue
		}
		if f.EmployeeName != "" && !strings.Contains(strings.ToLower(e.EmployeeName), strings.ToLower(f.EmployeeName)) {
			continue
		}
		if f.DocumentTypeName != "" && !strings.Contains(strings.ToLower(e.DocumentTypeName), strings.ToLower(f.DocumentTypeName)) {
			continue
		}
		if f.HiredAfter != nil && e.EmployeeHiredAt.Before(*f.HiredAfter) {
			continue
		}
		if f.HiredBefore != nil && e.EmployeeHiredAt.After(*f.HiredBefore) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.RequirementEdge) int {
		if a.EmployeeID != b.EmployeeID {
			return int(a.EmployeeID) - int(b.EmployeeID)
		}
		return int(a.DocumentTypeID) - int(b.DocumentTypeID)
	})
	return out, nil
}

func (r *memRequirements) ListByEmployee(ctx context.Context, employeeID uint) ([]domain.RequirementEdge, error) {
	edges, _ := r.Find(ctx, domain.RequirementFilter{EmployeeIDs: []uint{employeeID}})
	slices.SortStableFunc(edges, func(a, b domain.RequirementEdge) int {
		return strings.Compare(a.DocumentTypeName, b.DocumentTypeName)
	})
	return edges, nil
}

func (r *memRequirements) ExistingTypeIDs(_ context.Context, employeeID uint, typeIDs []uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint
	for _, id := range typeIDs {
		if _, ok := r.edges[domain.Pair{EmployeeID: employeeID, DocumentTypeID: id}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memRequirements) Exists(_ context.Context, p domain.Pair) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[p]
	return ok, nil
}

func (r *memRequirements) Create(_ context.Context, edges []domain.RequirementEdge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range edges {
		r.edges[e.Pair()] = e
	}
	return nil
}

func (r *memRequirements) DeleteUndocumented(_ context.Context, employeeID uint, typeIDs []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range typeIDs {
		p := domain.Pair{EmployeeID: employeeID, DocumentTypeID: id}
		if _, ok := r.edges[p]; !ok || r.hasDocument(p) {
			continue
		}
		delete(r.edges, p)
		n++
	}
	return n, nil
}

func (r *memRequirements) CountByDocumentType(_ context.Context, typeID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for p := range r.edges {
		if p.DocumentTypeID == typeID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) hasDocument(p domain.Pair) bool {
	for _, d := range m.documents {
		if d.Pair() == p {
			return true
		}
	}
	return false
}

type memDocuments struct{ *memStore }

func (r *memDocuments) Create(_ context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasDocument(d.Pair()) {
		return domain.ConflictError(domain.ErrDocumentAlreadySubmitted, "")
	}
	d.ID = r.id()
	r.documents[d.ID] = *d
	return nil
}

func (r *memDocuments) Update(_ context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[d.ID] = *d
	return nil
}

func (r *memDocuments) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.documents, id)
	return nil
}

func (r *memDocuments) GetByID(_ context.Context, id uint) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok {
		return nil, domain.NotFoundError(domain.ErrDocumentNotFound, "document %d not found", id)
	}
	d = r.enrichDoc(d)
	return &d, nil
}

func (r *memDocuments) FindByPair(_ context.Context, p domain.Pair) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.documents {
		if d.Pair() == p {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *memDocuments) ListByEmployee(ctx context.Context, employeeID uint) ([]domain.Document, error) {
	return r.List(ctx, domain.DocumentFilter{EmployeeID: &employeeID})
}

func (r *memDocuments) List(_ context.Context, f domain.DocumentFilter) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Document, 0)
	for _, d := range r.documents {
		if f.EmployeeID != nil && d.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.DocumentTypeID != nil && d.DocumentTypeID != *f.DocumentTypeID {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		out = append(out, r.enrichDoc(d))
	}
	slices.SortFunc(out, func(a, b domain.Document) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (r *memDocuments) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.Document, error) {
	return r.List(ctx, domain.DocumentFilter{Status: &status})
}

func (r *memDocuments) Pairs(_ context.Context, employeeIDs, typeIDs []uint) ([]domain.Pair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Pair
	for _, d := range r.documents {
		if len(employeeIDs) > 0 && !slices.Contains(employeeIDs, d.EmployeeID) {
			continue
		}
		if len(typeIDs) > 0 && !slices.Contains(typeIDs, d.DocumentTypeID) {
			continue
		}
		out = append(out, d.Pair())
	}
	return out, nil
}

func (r *memDocuments) DocumentedTypeIDs(_ context.Context, employeeID uint, typeIDs []uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint
	for _, id := range typeIDs {
		if r.hasDocument(domain.Pair{EmployeeID: employeeID, DocumentTypeID: id}) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memDocuments) CountByDocumentType(_ context.Context, typeID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.documents {
		if d.DocumentTypeID == typeID {
			n++
		}
	}
	return n, nil
}

// fixture 测试夹具：固定时钟与全部服务
type fixture struct {
	store *memStore
	now   time.Time

	employees    *EmployeeService
	types        *DocumentTypeService
	associations *AssociationService
	documents    *DocumentService
	pending      *PendingService
	status       *StatusService
}

// 2024-06-03 是周一
var fixtureNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func newFixture(extra ...Option) *fixture {
	store := newMemStore()
	employees, types, requirements, documents := store.repos()
	opts := append([]Option{
		WithClock(func() time.Time { return fixtureNow }),
		WithPublisher(store),
	}, extra...)

	return &fixture{
		store:        store,
		now:          fixtureNow,
		employees:    NewEmployeeService(employees, opts...),
		types:        NewDocumentTypeService(types, requirements, documents, opts...),
		associations: NewAssociationService(employees, types, requirements, documents, opts...),
		documents:    NewDocumentService(employees, types, requirements, documents, opts...),
		pending:      NewPendingService(employees, types, requirements, documents, opts...),
		status:       NewStatusService(employees, requirements, documents, opts...),
	}
}

// seedEmployee 直接写入员工，绕过 CPF 唯一性以外的校验
func (f *fixture) seedEmployee(name string, hiredAt time.Time) uint {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	id := f.store.id()
	f.store.employees[id] = domain.Employee{ID: id, Name: name, HiredAt: hiredAt}
	return id
}

func (f *fixture) seedType(name string) uint {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	id := f.store.id()
	f.store.types[id] = domain.DocumentType{ID: id, Name: name}
	return id
}

// seedEdge 写入 daysAgo 天前创建的要求
func (f *fixture) seedEdge(employeeID, typeID uint, daysAgo int) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p := domain.Pair{EmployeeID: employeeID, DocumentTypeID: typeID}
	f.store.edges[p] = domain.RequirementEdge{
		EmployeeID:     employeeID,
		DocumentTypeID: typeID,
		CreatedAt:      f.now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}
}

func (f *fixture) seedDocument(employeeID, typeID uint, status domain.DocumentStatus) uint {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	id := f.store.id()
	f.store.documents[id] = domain.Document{
		ID:             id,
		EmployeeID:     employeeID,
		DocumentTypeID: typeID,
		Name:           "file.pdf",
		Status:         status,
	}
	return id
}

func (f *fixture) hasEdge(employeeID, typeID uint) bool {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	_, ok := f.store.edges[domain.Pair{EmployeeID: employeeID, DocumentTypeID: typeID}]
	return ok
}
