package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-realty-backend/config"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
)

type fixture struct {
	db         *memDB
	pub        *memPublisher
	sessions   *memSessions
	cfg        *config.Config
	auth       *AuthService
	customers  *CustomerService
	properties *PropertyService

	admin, agentA, agentB scope.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	cfg := &config.Config{
		AppName:               "realty-backend",
		CompanyName:           "Deniz Emlak",
		RabbitMQEmailQueue:    "emails",
		RabbitMQPropertyQueue: "property-events",
		MailSendEnabled:       true,
		EventsEnabled:         true,
	}
	pub := &memPublisher{}
	logger := helpers.NewNopLogger()
	notifier := NewNotifier(pub, cfg, logger)
	users := memUsers{db}
	sessions := newMemSessions()

	f := &fixture{
		db:         db,
		pub:        pub,
		sessions:   sessions,
		cfg:        cfg,
		auth:       NewAuthService(users, helpers.NewJWTManager("test-secret", time.Hour), sessions, notifier, time.Minute, logger),
		customers:  NewCustomerService(memCustomers{db}, users, notifier, logger),
		properties: NewPropertyService(memProperties{db}, users, nil, notifier, logger),
	}
	f.admin = f.seedUser(t, "root", entity.RoleAdmin)
	f.agentA = f.seedUser(t, "A", entity.RoleAgent)
	f.agentB = f.seedUser(t, "B", entity.RoleAgent)
	return f
}

func (f *fixture) seedUser(t *testing.T, username string, role entity.Role) scope.Identity {
	t.Helper()
	hash, err := helpers.HashPassword("password123")
	require.NoError(t, err)
	u := &entity.User{
		Username: username, Email: username + "@agency.com", PasswordHash: hash,
		FirstName: username, LastName: "Agent", Role: role, Status: entity.UserActive,
	}
	require.NoError(t, memUsers{f.db}.Create(context.Background(), u))
	return scope.Identity{UserID: u.ID, Username: u.Username, Role: role}
}

func (f *fixture) newCustomer(t *testing.T, caller scope.Identity, first, email string) *entity.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), caller, CustomerInput{FirstName: first, LastName: "Kaya", Email: email})
	require.NoError(t, err)
	return c
}

func (f *fixture) newProperty(t *testing.T, caller scope.Identity, in PropertyInput) *entity.Property {
	t.Helper()
	if in.Title == "" {
		in.Title = "Sea view flat"
	}
	if in.PropertyType == "" {
		in.PropertyType = entity.PropertyApartment
	}
	if in.Price == nil {
		in.Price = ptr(250000.0)
	}
	p, err := f.properties.Create(context.Background(), caller, in)
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
