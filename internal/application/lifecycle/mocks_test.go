package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/domain/entity"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// In-memory fakes for the engine's ports. They are deliberately dumb:
// no transactions, no copies, just maps guarded by a mutex.

type memRequests struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*entity.Request
}

func newMemRequests() *memRequests {
	return &memRequests{byID: make(map[int64]*entity.Request)}
}

func (m *memRequests) Create(_ context.Context, req *entity.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	req.ID = m.seq
	m.byID[req.ID] = req
	return nil
}

func (m *memRequests) GetByID(_ context.Context, id int64) (*entity.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memRequests) Update(_ context.Context, req *entity.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[req.ID]; !ok {
		return fmt.Errorf("request %d not found", req.ID)
	}
	m.byID[req.ID] = req
	return nil
}

func (m *memRequests) List(_ context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Request
	for _, req := range m.byID {
		if filter.Domain != "" && req.Domain != filter.Domain {
			continue
		}
		if filter.Stage != "" && req.Stage != filter.Stage {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRequests) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memRequests) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[int64]*entity.Request)
	return nil
}

type memApprovals struct {
	mu   sync.Mutex
	seq  int64
	rows []*entity.Approval
}

func (m *memApprovals) Create(_ context.Context, a *entity.Approval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	a.ID = m.seq
	m.rows = append(m.rows, a)
	return nil
}

func (m *memApprovals) GetByRequestID(_ context.Context, requestID int64) ([]*entity.Approval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Approval
	for _, a := range m.rows {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApprovals) CountByRequestID(ctx context.Context, requestID int64) (int, error) {
	rows, _ := m.GetByRequestID(ctx, requestID)
	return len(rows), nil
}

func (m *memApprovals) DeleteByRequestID(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, a := range m.rows {
		if a.RequestID != requestID {
			kept = append(kept, a)
		}
	}
	m.rows = kept
	return nil
}

type memCorrections struct {
	mu   sync.Mutex
	seq  int64
	rows []*entity.Correction
}

func (m *memCorrections) Create(_ context.Context, c *entity.Correction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c.ID = m.seq
	m.rows = append(m.rows, c)
	return nil
}

func (m *memCorrections) GetByRequestID(_ context.Context, requestID int64) ([]*entity.Correction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Correction
	for _, c := range m.rows {
		if c.RequestID == requestID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCorrections) ResolveOpen(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.RequestID == requestID {
			c.Resolved = true
		}
	}
	return nil
}

func (m *memCorrections) DeleteByRequestID(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, c := range m.rows {
		if c.RequestID != requestID {
			kept = append(kept, c)
		}
	}
	m.rows = kept
	return nil
}

type participantKey struct {
	requestID int64
	userID    string
}

type memParticipants struct {
	mu   sync.Mutex
	rows map[participantKey]*entity.Participant
}

func newMemParticipants() *memParticipants {
	return &memParticipants{rows: make(map[participantKey]*entity.Participant)}
}

func (m *memParticipants) Upsert(_ context.Context, p *entity.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[participantKey{p.RequestID, p.UserID}] = p
	return nil
}

func (m *memParticipants) GetByRequestID(_ context.Context, requestID int64) ([]*entity.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Participant
	for key, p := range m.rows {
		if key.requestID == requestID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memParticipants) DeleteByRequestID(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.rows {
		if key.requestID == requestID {
			delete(m.rows, key)
		}
	}
	return nil
}

type memItems struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*entity.RequestItem
}

func newMemItems() *memItems {
	return &memItems{byID: make(map[int64]*entity.RequestItem)}
}

func (m *memItems) Create(_ context.Context, item *entity.RequestItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	item.ID = m.seq
	m.byID[item.ID] = item
	return nil
}

func (m *memItems) GetByID(_ context.Context, id int64) (*entity.RequestItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memItems) GetByRequestID(_ context.Context, requestID int64) ([]*entity.RequestItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.RequestItem
	for _, item := range m.byID {
		if item.RequestID == requestID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memItems) Update(_ context.Context, item *entity.RequestItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[item.ID] = item
	return nil
}

func (m *memItems) DeleteByRequestID(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.byID {
		if item.RequestID == requestID {
			delete(m.byID, id)
		}
	}
	return nil
}

type memNotifications struct {
	mu   sync.Mutex
	seq  int64
	rows []*entity.Notification
}

func (m *memNotifications) Create(_ context.Context, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	n.ID = m.seq
	m.rows = append(m.rows, n)
	return nil
}

func (m *memNotifications) GetByRequestID(_ context.Context, requestID int64) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.rows {
		if n.RequestID == requestID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) ListFailed(_ context.Context, limit int) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.rows {
		if n.Status == entity.NotificationStatusFailed {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memNotifications) MarkSent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			n.Status = entity.NotificationStatusSent
		}
	}
	return nil
}

func (m *memNotifications) MarkFailed(_ context.Context, id int64, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			n.Status = entity.NotificationStatusFailed
			n.ErrorMsg = errorMsg
		}
	}
	return nil
}

func (m *memNotifications) DeleteByRequestID(_ context.Context, requestID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, n := range m.rows {
		if n.RequestID != requestID {
			kept = append(kept, n)
		}
	}
	m.rows = kept
	return nil
}

func (m *memNotifications) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	return nil
}

// nopTx runs the function directly; the fakes have no transactions
type nopTx struct{}

func (nopTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memIdentity struct {
	users map[string]*port.User
}

func (m *memIdentity) FindUser(_ context.Context, id string) (*port.User, error) {
	return m.users[id], nil
}

func (m *memIdentity) FindUsersByRoleAndDepartment(_ context.Context, role workflow.Role, departmentID string) ([]*port.User, error) {
	var out []*port.User
	for _, u := range m.users {
		if departmentID != "" && u.DepartmentID != departmentID {
			continue
		}
		if u.Actor().HasRole(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memIdentity) FindSupervisorsByDepartment(_ context.Context, departmentID string) ([]*port.User, error) {
	var out []*port.User
	for _, u := range m.users {
		if u.DepartmentID == departmentID && u.Actor().IsSupervisor() {
			out = append(out, u)
		}
	}
	return out, nil
}

type memInventory struct {
	mu     sync.Mutex
	onHand map[int64]int
}

func (m *memInventory) GetOnHand(_ context.Context, stockItemID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onHand[stockItemID], nil
}

func (m *memInventory) Debit(_ context.Context, stockItemID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onHand[stockItemID] < quantity {
		return fmt.Errorf("insufficient stock for item %d", stockItemID)
	}
	m.onHand[stockItemID] -= quantity
	return nil
}

type notifyCall struct {
	userID string
	kind   string
}

type recordingNotifier struct {
	mu    sync.Mutex
	fail  bool
	calls []notifyCall
}

func (r *recordingNotifier) Notify(_ context.Context, userID, kind string, _ int64, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notifyCall{userID: userID, kind: kind})
	if r.fail {
		return fmt.Errorf("delivery unavailable")
	}
	return nil
}

func (r *recordingNotifier) BroadcastProgress(_ context.Context, _ []string, _ map[string]interface{}) error {
	if r.fail {
		return fmt.Errorf("delivery unavailable")
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fixture bundles the engine with its fakes for assertions
type fixture struct {
	engine        *Engine
	requests      *memRequests
	approvals     *memApprovals
	corrections   *memCorrections
	participants  *memParticipants
	items         *memItems
	notifications *memNotifications
	identity      *memIdentity
	inventory     *memInventory
	notifier      *recordingNotifier
}

func intPtr(v int) *int { return &v }

func newFixture() *fixture {
	f := &fixture{
		requests:      newMemRequests(),
		approvals:     &memApprovals{},
		corrections:   &memCorrections{},
		participants:  newMemParticipants(),
		items:         newMemItems(),
		notifications: &memNotifications{},
		inventory:     &memInventory{onHand: make(map[int64]int)},
		notifier:      &recordingNotifier{},
	}

	f.identity = &memIdentity{users: map[string]*port.User{
		"req-jun": {ID: "req-jun", Name: "Junior Clerk", SeniorityLevel: 8, DepartmentID: "dep-1"},
		"req-sen": {ID: "req-sen", Name: "Senior Officer", SeniorityLevel: 16, DepartmentID: "dep-1"},
		"sup-1":   {ID: "sup-1", Name: "Supervisor One", Roles: []workflow.Role{workflow.RoleSupervisor}, SeniorityLevel: 15, DepartmentID: "dep-1"},
		"dgs-1":   {ID: "dgs-1", Name: "DGS", Roles: []workflow.Role{workflow.RoleDGS}, SeniorityLevel: 20, DepartmentID: "dep-9"},
		"ddgs-1":  {ID: "ddgs-1", Name: "DDGS", Roles: []workflow.Role{workflow.RoleDDGS}, SeniorityLevel: 18, DepartmentID: "dep-9"},
		"adgs-1":  {ID: "adgs-1", Name: "ADGS", Roles: []workflow.Role{workflow.RoleADGS}, SeniorityLevel: 17, DepartmentID: "dep-9"},
		"to-1":    {ID: "to-1", Name: "Transport Officer", Roles: []workflow.Role{workflow.RoleTO}, SeniorityLevel: 12, DepartmentID: "dep-9"},
		"so-1":    {ID: "so-1", Name: "Supplies Officer", Roles: []workflow.Role{workflow.RoleSO}, SeniorityLevel: 12, DepartmentID: "dep-9"},
		"ddict-1": {ID: "ddict-1", Name: "DDICT", Roles: []workflow.Role{workflow.RoleDDICT}, SeniorityLevel: 15, DepartmentID: "dep-9"},
		"adm-1":   {ID: "adm-1", Name: "Administrator", Roles: []workflow.Role{workflow.RoleAdmin}, SeniorityLevel: 10, DepartmentID: "dep-9"},
	}}

	f.engine = NewEngine(
		f.requests,
		f.approvals,
		f.corrections,
		f.participants,
		f.items,
		f.notifications,
		nopTx{},
		f.identity,
		f.notifier,
		nopLogger{},
		WithInventory(f.inventory),
	)
	return f
}
