package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"taxportal-backend/internal/db"
	"taxportal-backend/internal/models"
	"taxportal-backend/pkg/events"
)

// In-memory fakes for the repository and infrastructure interfaces the
// services depend on.

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.UserProfile
	setRoles map[string]models.Role // uid -> last role set
	failOn   string                 // method name to fail, "" for none
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*models.UserProfile),
		setRoles: make(map[string]models.Role),
	}
}

func (f *fakeUserRepo) GetByID(_ context.Context, uid string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "GetByID" {
		return nil, errors.New("forced GetByID failure")
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "Create" {
		return errors.New("forced Create failure")
	}
	if _, exists := f.users[user.UID]; exists {
		return fmt.Errorf("user with UID '%s' already exists", user.UID)
	}
	clone := *user
	f.users[user.UID] = &clone
	return nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, uid string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[uid]
	if !ok {
		return db.ErrNotFound
	}
	u.Role = role
	f.setRoles[uid] = role
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.UserProfile
	for _, u := range f.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role models.Role) ([]*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.UserProfile
	for _, u := range f.users {
		if u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeCaseRepo struct {
	mu          sync.Mutex
	cases       map[string]*models.TaxCase
	nextID      int
	assignments []string // "caseID:staffID:staffName"
	statuses    []string // "caseID:status"
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*models.TaxCase)}
}

func (f *fakeCaseRepo) Create(_ context.Context, taxCase *models.TaxCase) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("case-%d", f.nextID)
	taxCase.ID = id
	clone := *taxCase
	f.cases[id] = &clone
	return id, nil
}

func (f *fakeCaseRepo) GetByID(_ context.Context, caseID string) (*models.TaxCase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCaseRepo) ListByUser(_ context.Context, userID string) ([]*models.TaxCase, error) {
	return f.filter(func(c *models.TaxCase) bool { return c.UserID == userID }), nil
}

func (f *fakeCaseRepo) ListByAssignee(_ context.Context, staffID string) ([]*models.TaxCase, error) {
	return f.filter(func(c *models.TaxCase) bool { return c.AssignedStaffID == staffID }), nil
}

func (f *fakeCaseRepo) ListAll(_ context.Context) ([]*models.TaxCase, error) {
	return f.filter(func(*models.TaxCase) bool { return true }), nil
}

func (f *fakeCaseRepo) filter(keep func(*models.TaxCase) bool) []*models.TaxCase {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.TaxCase
	for _, c := range f.cases {
		if keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out
}

func (f *fakeCaseRepo) UpdateStatus(_ context.Context, caseID string, status models.CaseStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok {
		return db.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	f.statuses = append(f.statuses, caseID+":"+string(status))
	return nil
}

func (f *fakeCaseRepo) UpdateAssignment(_ context.Context, caseID, staffID, staffName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok {
		return db.ErrNotFound
	}
	c.AssignedStaffID = staffID
	c.AssignedStaffName = staffName
	f.assignments = append(f.assignments, caseID+":"+staffID+":"+staffName)
	return nil
}

type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[string][]*models.CaseDocument
	next int
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string][]*models.CaseDocument)}
}

func (f *fakeDocRepo) Create(_ context.Context, caseID string, doc *models.CaseDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	doc.ID = fmt.Sprintf("doc-%d", f.next)
	clone := *doc
	f.docs[caseID] = append([]*models.CaseDocument{&clone}, f.docs[caseID]...)
	return doc.ID, nil
}

func (f *fakeDocRepo) ListByCase(_ context.Context, caseID string) ([]*models.CaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.CaseDocument(nil), f.docs[caseID]...), nil
}

type fakeContactRepo struct {
	mu   sync.Mutex
	msgs map[string]*models.ContactMessage
	next int
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{msgs: make(map[string]*models.ContactMessage)}
}

func (f *fakeContactRepo) Create(_ context.Context, msg *models.ContactMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	msg.ID = fmt.Sprintf("msg-%d", f.next)
	clone := *msg
	f.msgs[msg.ID] = &clone
	return msg.ID, nil
}

func (f *fakeContactRepo) List(_ context.Context) ([]*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ContactMessage
	for _, m := range f.msgs {
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeContactRepo) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return db.ErrNotFound
	}
	m.Status = models.ContactRead
	return nil
}

func (f *fakeContactRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.msgs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.msgs, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CaseEvent
}

func (p *recordingPublisher) Publish(event events.CaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.CaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.CaseEvent(nil), p.events...)
}

type fakeAuthProvider struct {
	mu       sync.Mutex
	calls    []string // emails passed to CreateUser
	nextUID  string
	failWith error
}

func (f *fakeAuthProvider) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, email)
	if f.failWith != nil {
		return "", f.failWith
	}
	if f.nextUID == "" {
		return "uid-" + email, nil
	}
	return f.nextUID, nil
}

type fakeUploader struct {
	mu       sync.Mutex
	uploads  []string // "caseID/fileName"
	failWith error
}

func (f *fakeUploader) Upload(_ context.Context, caseID, fileName, _ string, _ int64, r io.Reader, onProgress func(pct float64)) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	if r != nil {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return "", err
		}
	}
	if onProgress != nil {
		onProgress(100)
	}
	f.uploads = append(f.uploads, caseID+"/"+fileName)
	return "https://example.test/" + caseID + "/" + fileName, nil
}
