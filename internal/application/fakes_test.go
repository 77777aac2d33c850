package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

// memDB is an in-memory stand-in for Postgres that applies the same scope rules as the SQL repositories.
type memDB struct {
	mu         sync.Mutex
	clock      time.Time
	users      map[string]*entity.User
	customers  map[string]*entity.Customer
	properties map[string]*entity.Property
}

func newMemDB() *memDB {
	return &memDB{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]*entity.User{},
		customers:  map[string]*entity.Customer{},
		properties: map[string]*entity.Property{},
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func owns(id scope.Identity, agentID string) bool {
	if id.Anonymous() {
		return false
	}
	return id.IsAdmin() || agentID == id.UserID
}

func paginate[T any](rows []T, page repo.Page) []T {
	out := make([]T, 0, page.Limit)
	for i := page.Offset(); i < len(rows) && len(out) < page.Limit; i++ {
		out = append(out, rows[i])
	}
	return out
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// users

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.users {
		if strings.EqualFold(o.Username, u.Username) || strings.EqualFold(o.Email, u.Email) {
			return domain.ErrDuplicateUser
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.db.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) GetByLogin(_ context.Context, login string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) UpdateProfile(_ context.Context, id string, p repo.UserProfilePatch) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) SetStatus(_ context.Context, id string, status entity.UserStatus) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	cp := *u
	return &cp, nil
}

func (r memUsers) List(_ context.Context, f repo.UserFilter, page repo.Page) ([]entity.User, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []entity.User
	for _, u := range r.db.users {
		if (f.Role == "" || u.Role == f.Role) && (f.Status == "" || u.Status == f.Status) &&
			(f.Search == "" || contains(u.Username, f.Search) || contains(u.Email, f.Search)) {
			rows = append(rows, *u)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return paginate(rows, page), len(rows), nil
}

// customers

type memCustomers struct{ db *memDB }

func (r memCustomers) visible(id scope.Identity, customerID string) (*entity.Customer, bool) {
	c, ok := r.db.customers[customerID]
	if !ok || c.Status != entity.CustomerActive || !owns(id, c.AgentID) {
		return nil, false
	}
	return c, true
}

func (r memCustomers) duplicate(self, agentID, email string) bool {
	for _, o := range r.db.customers {
		if o.ID != self && o.Status == entity.CustomerActive && o.AgentID == agentID && strings.EqualFold(o.Email, email) {
			return true
		}
	}
	return false
}

func (r memCustomers) withAgent(c *entity.Customer) *entity.Customer {
	cp := *c
	if u, ok := r.db.users[c.AgentID]; ok {
		cp.AgentUsername = u.Username
	}
	return &cp
}

func (r memCustomers) List(_ context.Context, id scope.Identity, f repo.CustomerFilter, page repo.Page) ([]entity.Customer, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := []entity.Customer{}
	for _, c := range r.db.customers {
		if _, ok := r.visible(id, c.ID); !ok {
			continue
		}
		if f.Search != "" && !contains(c.FirstName, f.Search) && !contains(c.LastName, f.Search) &&
			!contains(c.FullName(), f.Search) && !contains(c.Email, f.Search) {
			continue
		}
		if (f.CustomerType != "" && c.CustomerType != f.CustomerType) || (f.AgentID != "" && c.AgentID != f.AgentID) {
			continue
		}
		rows = append(rows, *r.withAgent(c))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return paginate(rows, page), len(rows), nil
}

func (r memCustomers) Get(_ context.Context, id scope.Identity, customerID string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.visible(id, customerID)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return r.withAgent(c), nil
}

func (r memCustomers) Create(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[c.AgentID]; !ok {
		return nil, domain.Validation("assigned agent does not exist")
	}
	if r.duplicate("", c.AgentID, c.Email) {
		return nil, domain.ErrDuplicateCustomer
	}
	cp := *c
	cp.ID = uuid.NewString()
	cp.Status = entity.CustomerActive
	cp.CreatedAt = r.db.tick()
	cp.UpdatedAt = cp.CreatedAt
	r.db.customers[cp.ID] = &cp
	return r.withAgent(&cp), nil
}

func (r memCustomers) Update(_ context.Context, id scope.Identity, customerID string, p entity.CustomerPatch) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.visible(id, customerID)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	next := *cur
	if p.FirstName != nil {
		next.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		next.LastName = *p.LastName
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Phone != nil {
		next.Phone = *p.Phone
	}
	if p.CustomerType != nil {
		next.CustomerType = *p.CustomerType
	}
	if p.BudgetMin != nil {
		next.BudgetMin = p.BudgetMin
	}
	if p.BudgetMax != nil {
		next.BudgetMax = p.BudgetMax
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}
	if p.AgentID != nil && id.IsAdmin() {
		next.AgentID = *p.AgentID
	}
	if r.duplicate(next.ID, next.AgentID, next.Email) {
		return nil, domain.ErrDuplicateCustomer
	}
	next.UpdatedAt = r.db.tick()
	*cur = next
	return r.withAgent(cur), nil
}

func (r memCustomers) referenced(customerID string) bool {
	for _, p := range r.db.properties {
		if p.Status == entity.PropertyDeleted {
			continue
		}
		if (p.OwnerCustomerID != nil && *p.OwnerCustomerID == customerID) || (p.BuyerCustomerID != nil && *p.BuyerCustomerID == customerID) {
			return true
		}
	}
	return false
}

func (r memCustomers) Delete(_ context.Context, id scope.Identity, customerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.visible(id, customerID)
	if !ok {
		return domain.ErrCustomerNotFound
	}
	if r.referenced(customerID) {
		return domain.ErrCustomerReferenced
	}
	c.Status = entity.CustomerInactive
	return nil
}

func (r memCustomers) Reactivate(_ context.Context, id scope.Identity, customerID string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[customerID]
	if !ok || c.Status != entity.CustomerInactive || !owns(id, c.AgentID) {
		return nil, domain.ErrCustomerNotFound
	}
	if r.duplicate(c.ID, c.AgentID, c.Email) {
		return nil, domain.ErrDuplicateCustomer
	}
	c.Status = entity.CustomerActive
	return r.withAgent(c), nil
}

func (r memCustomers) Purge(_ context.Context, customerID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[customerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	if c.Status == entity.CustomerActive {
		return domain.Conflict("customer must be deleted before it can be purged")
	}
	if r.referenced(customerID) {
		return domain.ErrCustomerReferenced
	}
	delete(r.db.customers, customerID)
	for _, p := range r.db.properties {
		if p.OwnerCustomerID != nil && *p.OwnerCustomerID == customerID {
			p.OwnerCustomerID = nil
		}
		if p.BuyerCustomerID != nil && *p.BuyerCustomerID == customerID {
			p.BuyerCustomerID = nil
		}
	}
	return nil
}

// properties

type memProperties struct{ db *memDB }

func (r memProperties) visible(id scope.Identity, propertyID string) (*entity.Property, bool) {
	p, ok := r.db.properties[propertyID]
	if !ok || p.Status == entity.PropertyDeleted || !owns(id, p.AgentID) {
		return nil, false
	}
	return p, true
}

func (r memProperties) checkRef(id scope.Identity, field string, ref *string) error {
	if ref == nil {
		return nil
	}
	c, ok := r.db.customers[*ref]
	if !ok || c.Status != entity.CustomerActive || !owns(id, c.AgentID) {
		return domain.Validation(field + " does not reference an active customer")
	}
	return nil
}

func (r memProperties) Get(_ context.Context, id scope.Identity, propertyID string) (*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.visible(id, propertyID)
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProperties) List(_ context.Context, id scope.Identity, f repo.PropertyFilter, page repo.Page) ([]entity.Property, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := []entity.Property{}
	for _, p := range r.db.properties {
		if _, ok := r.visible(id, p.ID); !ok {
			continue
		}
		if (f.PropertyType != "" && p.PropertyType != f.PropertyType) || (f.Status != "" && p.Status != f.Status) ||
			(f.City != "" && !contains(p.City, f.City)) || (f.AgentID != "" && p.AgentID != f.AgentID) ||
			(f.Search != "" && !contains(p.Title, f.Search) && !contains(p.Description, f.Search) && !contains(p.Address, f.Search)) {
			continue
		}
		rows = append(rows, *p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return paginate(rows, page), len(rows), nil
}

func (r memProperties) Create(_ context.Context, id scope.Identity, p *entity.Property) (*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.checkRef(id, "owner_customer_id", p.OwnerCustomerID); err != nil {
		return nil, err
	}
	if err := r.checkRef(id, "buyer_customer_id", p.BuyerCustomerID); err != nil {
		return nil, err
	}
	cp := *p
	cp.ID = uuid.NewString()
	cp.Images = []string{}
	cp.CreatedAt = r.db.tick()
	cp.UpdatedAt = cp.CreatedAt
	r.db.properties[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memProperties) Update(_ context.Context, id scope.Identity, propertyID string, patch entity.PropertyPatch) (*entity.Property, entity.PropertyStatus, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.visible(id, propertyID)
	if !ok {
		return nil, "", domain.ErrPropertyNotFound
	}
	previous := p.Status
	next := *p
	if patch.Status != nil {
		if !p.Status.CanTransition(*patch.Status) {
			return nil, "", domain.Validation("cannot change status")
		}
		next.Status = *patch.Status
	}
	for _, ref := range []struct {
		field string
		in    *string
		out   **string
	}{{"owner_customer_id", patch.OwnerCustomerID, &next.OwnerCustomerID}, {"buyer_customer_id", patch.BuyerCustomerID, &next.BuyerCustomerID}} {
		switch {
		case ref.in == nil:
		case *ref.in == "":
			*ref.out = nil
		default:
			if err := r.checkRef(id, ref.field, ref.in); err != nil {
				return nil, "", err
			}
			v := *ref.in
			*ref.out = &v
		}
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.City != nil {
		next.City = *patch.City
	}
	if patch.AgentID != nil && id.IsAdmin() {
		next.AgentID = *patch.AgentID
	}
	next.UpdatedAt = r.db.tick()
	*p = next
	out := next
	return &out, previous, nil
}

func (r memProperties) Delete(_ context.Context, id scope.Identity, propertyID string) (*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.visible(id, propertyID)
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	p.Status = entity.PropertyDeleted
	out := *p
	return &out, nil
}

func (r memProperties) AddImage(_ context.Context, id scope.Identity, propertyID, url string) (*entity.Property, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.visible(id, propertyID)
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	p.Images = append(p.Images, url)
	out := *p
	return &out, nil
}

// side-effect fakes

type memSessions struct {
	mu   sync.Mutex
	live map[string]string
}

func newMemSessions() *memSessions { return &memSessions{live: map[string]string{}} }

func (s *memSessions) Save(_ context.Context, sid, userID, _, _ string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[sid] = userID
	return nil
}

func (s *memSessions) Valid(_ context.Context, sid, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[sid] == userID && userID != "", nil
}

func (s *memSessions) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, sid)
	return nil
}

type published struct {
	queue string
	body  any
}

type memPublisher struct {
	mu  sync.Mutex
	out []published
	err error
}

func (p *memPublisher) PublishJSON(_ context.Context, queue string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.out = append(p.out, published{queue, body})
	return nil
}

func (p *memPublisher) on(queue string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []any
	for _, m := range p.out {
		if m.queue == queue {
			out = append(out, m.body)
		}
	}
	return out
}

type memIndex struct {
	docs map[string]any
	err  error
}

func (x *memIndex) Put(_ context.Context, id string, doc any) error {
	if x.err != nil {
		return x.err
	}
	x.docs[id] = doc
	return nil
}

func (x *memIndex) Delete(_ context.Context, id string) error {
	if x.err != nil {
		return x.err
	}
	delete(x.docs, id)
	return nil
}

var errBoom = errors.New("boom")

var (
	_ repo.UserRepository     = memUsers{}
	_ repo.CustomerRepository = memCustomers{}
	_ repo.PropertyRepository = memProperties{}
)
