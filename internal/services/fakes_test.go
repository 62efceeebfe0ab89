package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sedesupport/internal/dates"
	"sedesupport/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSedeRepo implements domain.SedeRepository for tests.
type fakeSedeRepo struct {
	byID    map[string]*domain.Sede
	byCode  map[string]*domain.Sede
	upserts int
	nextID  int
}

func newFakeSedeRepo() *fakeSedeRepo {
	return &fakeSedeRepo{
		byID:   make(map[string]*domain.Sede),
		byCode: make(map[string]*domain.Sede),
	}
}

func (f *fakeSedeRepo) add(s *domain.Sede) *domain.Sede {
	f.byID[s.ID] = s
	f.byCode[s.Code] = s
	return s
}

func (f *fakeSedeRepo) Create(ctx context.Context, s *domain.Sede) error {
	f.nextID++
	s.ID = fmt.Sprintf("sede-%d", f.nextID)
	f.add(s)
	return nil
}

func (f *fakeSedeRepo) GetByID(ctx context.Context, id string) (*domain.Sede, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSedeRepo) GetByCode(ctx context.Context, code string) (*domain.Sede, error) {
	if s, ok := f.byCode[code]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSedeRepo) Update(ctx context.Context, id string, upd domain.SedeUpdate) (*domain.Sede, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Active != nil {
		s.Active = *upd.Active
	}
	return s, nil
}

func (f *fakeSedeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSedeRepo) List(ctx context.Context, _ domain.SedeFilter, _ domain.PaginationParams) ([]*domain.Sede, int, error) {
	out := make([]*domain.Sede, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeSedeRepo) UpsertByCode(ctx context.Context, s *domain.Sede) error {
	f.upserts++
	f.byCode[s.Code] = s
	return nil
}

// fakePersonRepo implements domain.PersonRepository for tests.
type fakePersonRepo struct {
	byID   map[string]*domain.Person
	nextID int
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{byID: make(map[string]*domain.Person)}
}

func (f *fakePersonRepo) add(p *domain.Person) *domain.Person {
	f.byID[p.ID] = p
	return p
}

func (f *fakePersonRepo) Create(ctx context.Context, p *domain.Person) error {
	f.nextID++
	p.ID = fmt.Sprintf("person-%d", f.nextID)
	f.byID[p.ID] = p
	return nil
}

func (f *fakePersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePersonRepo) Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Email != nil {
		p.Email = *upd.Email
	}
	return p, nil
}

func (f *fakePersonRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePersonRepo) List(ctx context.Context, _ domain.PersonFilter, _ domain.PaginationParams) ([]*domain.Person, int, error) {
	out := make([]*domain.Person, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

// fakeRoleRepo implements domain.RoleRepository for tests. ListAll preserves
// insertion order.
type fakeRoleRepo struct {
	roles  []*domain.Role
	nextID int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{}
}

func (f *fakeRoleRepo) add(r *domain.Role) *domain.Role {
	f.roles = append(f.roles, r)
	return r
}

func (f *fakeRoleRepo) Create(ctx context.Context, r *domain.Role) error {
	f.nextID++
	r.ID = fmt.Sprintf("role-%d", f.nextID)
	f.roles = append(f.roles, r)
	return nil
}

func (f *fakeRoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) Update(ctx context.Context, id string, upd domain.RoleUpdate) (*domain.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			if upd.Name != nil {
				r.Name = *upd.Name
			}
			if upd.SetParent {
				r.ParentID = upd.ParentID
			}
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) Delete(ctx context.Context, id string) error {
	for i, r := range f.roles {
		if r.ID == id {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRoleRepo) ListAll(ctx context.Context) ([]*domain.Role, error) {
	return f.roles, nil
}

// fakeVisitRepo implements domain.VisitRepository for tests.
type fakeVisitRepo struct {
	byID   map[string]*domain.Visit
	nextID int
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{byID: make(map[string]*domain.Visit)}
}

func (f *fakeVisitRepo) add(v *domain.Visit) *domain.Visit {
	f.byID[v.ID] = v
	return v
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *domain.Visit) error {
	f.nextID++
	v.ID = fmt.Sprintf("visit-%d", f.nextID)
	f.byID[v.ID] = v
	return nil
}

func (f *fakeVisitRepo) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeVisitRepo) UpdateStatus(ctx context.Context, id string, status domain.VisitStatus) (*domain.Visit, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v.Status = status
	return v, nil
}

func (f *fakeVisitRepo) Reschedule(ctx context.Context, id string, d dates.CalendarDate) (*domain.Visit, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v.ScheduledDate = d
	return v, nil
}

func (f *fakeVisitRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeVisitRepo) List(ctx context.Context, _ domain.VisitFilter, _ domain.PaginationParams) ([]*domain.Visit, int, error) {
	out := make([]*domain.Visit, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, v)
	}
	return out, len(out), nil
}

func (f *fakeVisitRepo) ListByDateRange(ctx context.Context, from, to dates.CalendarDate) ([]*domain.Visit, error) {
	out := make([]*domain.Visit, 0)
	for _, v := range f.byID {
		if v.Recurrence != "" {
			continue
		}
		if v.ScheduledDate.Before(from) || to.Before(v.ScheduledDate) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVisitRepo) ListRecurring(ctx context.Context) ([]*domain.Visit, error) {
	out := make([]*domain.Visit, 0)
	for _, v := range f.byID {
		if v.Recurrence != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = "user-1"
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

// fakeMailer records every send.
type fakeMailer struct {
	sent []string // recipient addresses
	err  error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// fakeRenderer implements domain.EmailTemplateRenderer for tests.
type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data any) (string, string, string, error) {
	return "subject", "<p>html</p>", "text", nil
}

func strPtr(s string) *string { return &s }
