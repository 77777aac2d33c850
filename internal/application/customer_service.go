package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

type CustomerService struct {
	Repo     repo.CustomerRepository
	Users    repo.UserRepository
	Notifier *Notifier
	Logger   *logrus.Logger
}

func NewCustomerService(customers repo.CustomerRepository, users repo.UserRepository, notifier *Notifier, logger *logrus.Logger) *CustomerService {
	return &CustomerService{Repo: customers, Users: users, Notifier: notifier, Logger: logger}
}

type CustomerInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	CustomerType entity.CustomerType
	BudgetMin    *float64
	BudgetMax    *float64
	Notes        string
	AgentID      string
}

func checkBudget(min, max *float64) error {
	if min != nil && *min < 0 {
		return domain.Validation("budget_min must not be negative")
	}
	if max != nil && *max < 0 {
		return domain.Validation("budget_max must not be negative")
	}
	if min != nil && max != nil && *min > *max {
		return domain.Validation("budget_min must not exceed budget_max")
	}
	return nil
}

func (in *CustomerInput) normalize() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.FirstName == "":
		return domain.Validation("first_name is required")
	case in.LastName == "":
		return domain.Validation("last_name is required")
	case in.Email == "":
		return domain.Validation("email is required")
	case !validEmail(in.Email):
		return domain.Validation("email must be a valid email")
	}
	if in.CustomerType == "" {
		in.CustomerType = entity.CustomerBuyer
	}
	if !in.CustomerType.Valid() {
		return domain.Validation("customer_type must be one of: buyer, seller, both")
	}
	return checkBudget(in.BudgetMin, in.BudgetMax)
}

func (s *CustomerService) List(ctx context.Context, caller scope.Identity, f repo.CustomerFilter, page repo.Page) ([]entity.Customer, int, error) {
	if err := requireCaller(caller); err != nil {
		return nil, 0, err
	}
	if f.CustomerType != "" && !f.CustomerType.Valid() {
		return nil, 0, domain.Validation("customer_type must be one of: buyer, seller, both")
	}
	f.AgentID = caller.ListAgentFilter(f.AgentID)
	if f.AgentID != "" && !validID(f.AgentID) {
		return nil, 0, domain.Validation("agent_id must be a valid id")
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.Repo.List(ctx, caller, f, page)
}

func (s *CustomerService) Get(ctx context.Context, caller scope.Identity, id string) (*entity.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrCustomerNotFound
	}
	return s.Repo.Get(ctx, caller, id)
}

func (s *CustomerService) Create(ctx context.Context, caller scope.Identity, in CustomerInput) (*entity.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	owner := caller.OwnerFor(in.AgentID)
	var assignee *entity.User
	if owner != caller.UserID {
		var err error
		if assignee, err = activeAssignee(ctx, s.Users, owner); err != nil {
			return nil, err
		}
	}

	c, err := s.Repo.Create(ctx, &entity.Customer{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		CustomerType: in.CustomerType,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Notes:        in.Notes,
		AgentID:      owner,
	})
	if err != nil {
		return nil, err
	}
	if assignee != nil {
		s.Notifier.CustomerAssigned(ctx, assignee, c, caller.Username)
	}
	return c, nil
}

// Update merges patch into the customer. Agents cannot reassign customers; an agent_id
// from an agent is ignored like it is for list filters.
func (s *CustomerService) Update(ctx context.Context, caller scope.Identity, id string, patch entity.CustomerPatch) (*entity.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrCustomerNotFound
	}
	if err := normalizeCustomerPatch(&patch); err != nil {
		return nil, err
	}

	var assignee *entity.User
	if !caller.IsAdmin() {
		patch.AgentID = nil
	} else if patch.AgentID != nil {
		var err error
		if assignee, err = activeAssignee(ctx, s.Users, *patch.AgentID); err != nil {
			return nil, err
		}
	}

	c, err := s.Repo.Update(ctx, caller, id, patch)
	if err != nil {
		return nil, err
	}
	if assignee != nil && assignee.ID != caller.UserID {
		s.Notifier.CustomerAssigned(ctx, assignee, c, caller.Username)
	}
	return c, nil
}

func normalizeCustomerPatch(p *entity.CustomerPatch) error {
	trim := func(v *string, field string, required bool) error {
		if v == nil {
			return nil
		}
		*v = strings.TrimSpace(*v)
		if required && *v == "" {
			return domain.Validation(field + " must not be empty")
		}
		return nil
	}
	if err := trim(p.FirstName, "first_name", true); err != nil {
		return err
	}
	if err := trim(p.LastName, "last_name", true); err != nil {
		return err
	}
	if err := trim(p.Phone, "phone", false); err != nil {
		return err
	}
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		if !validEmail(e) {
			return domain.Validation("email must be a valid email")
		}
		p.Email = &e
	}
	if p.CustomerType != nil && !p.CustomerType.Valid() {
		return domain.Validation("customer_type must be one of: buyer, seller, both")
	}
	return checkBudget(p.BudgetMin, p.BudgetMax)
}

// Delete soft-deletes the customer; it fails with a conflict while a live property references it.
func (s *CustomerService) Delete(ctx context.Context, caller scope.Identity, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !validID(id) {
		return domain.ErrCustomerNotFound
	}
	return s.Repo.Delete(ctx, caller, id)
}

func (s *CustomerService) Reactivate(ctx context.Context, caller scope.Identity, id string) (*entity.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrCustomerNotFound
	}
	return s.Repo.Reactivate(ctx, caller, id)
}

// Purge hard-deletes an already soft-deleted customer. It bypasses scoping and is only wired to the admin CLI.
func (s *CustomerService) Purge(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrCustomerNotFound
	}
	if err := s.Repo.Purge(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("customer_id", id).Info("customer purged")
	}
	return nil
}
