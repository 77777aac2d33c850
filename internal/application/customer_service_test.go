package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
	"github.com/oksasatya/go-realty-backend/pkg/mailer"
)

var firstPage = repo.NewPage(1, 10, 0)

func TestAgentSeesOnlyOwnCustomers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mehmet, err := f.customers.Create(ctx, f.agentA, CustomerInput{FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@email.com"})
	require.NoError(t, err)

	rows, total, err := f.customers.List(ctx, f.agentB, repo.CustomerFilter{}, firstPage)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)

	rows, total, err = f.customers.List(ctx, f.admin, repo.CustomerFilter{}, firstPage)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, mehmet.ID, rows[0].ID)
	assert.Equal(t, "A", rows[0].AgentUsername)

	_, err = f.customers.Get(ctx, f.agentB, mehmet.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	got, err := f.customers.Get(ctx, f.admin, mehmet.ID)
	require.NoError(t, err)
	assert.Equal(t, f.agentA.UserID, got.AgentID)
}

func TestAgentListIgnoresAgentFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")
	f.newCustomer(t, f.agentB, "Zeynep", "zeynep@email.com")

	rows, total, err := f.customers.List(ctx, f.agentB, repo.CustomerFilter{AgentID: f.agentA.UserID}, firstPage)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Zeynep", rows[0].FirstName)

	rows, total, err = f.customers.List(ctx, f.admin, repo.CustomerFilter{AgentID: f.agentA.UserID}, firstPage)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Mehmet", rows[0].FirstName)

	_, _, err = f.customers.List(ctx, f.admin, repo.CustomerFilter{AgentID: "not-a-uuid"}, firstPage)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCustomerEmailUniquePerAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")

	_, err := f.customers.Create(ctx, f.agentA, CustomerInput{FirstName: "M", LastName: "K", Email: "MEHMET@email.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCustomer)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = f.customers.Create(ctx, f.agentB, CustomerInput{FirstName: "M", LastName: "K", Email: "mehmet@email.com"})
	assert.NoError(t, err)
}

func TestCustomerCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []CustomerInput{
		{LastName: "Kaya", Email: "m@email.com"},
		{FirstName: "Mehmet", Email: "m@email.com"},
		{FirstName: "Mehmet", LastName: "Kaya"},
		{FirstName: "Mehmet", LastName: "Kaya", Email: "not-an-email"},
		{FirstName: "Mehmet", LastName: "Kaya", Email: "m@email.com", CustomerType: "tenant"},
		{FirstName: "Mehmet", LastName: "Kaya", Email: "m@email.com", BudgetMin: ptr(500.0), BudgetMax: ptr(100.0)},
	}
	for i, in := range cases {
		_, err := f.customers.Create(ctx, f.agentA, in)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "case %d", i)
	}

	_, err := f.customers.Create(ctx, scope.Identity{}, CustomerInput{FirstName: "a", LastName: "b", Email: "a@b.co"})
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(err))
}

func TestCustomerCreateThenGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := CustomerInput{
		FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@email.com", Phone: "+905551112233",
		CustomerType: entity.CustomerBoth, BudgetMin: ptr(100000.0), BudgetMax: ptr(300000.0), Notes: "prefers sea view",
	}
	created, err := f.customers.Create(ctx, f.agentA, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := f.customers.Get(ctx, f.agentA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, in.Phone, got.Phone)
	assert.Equal(t, entity.CustomerBoth, got.CustomerType)
	assert.Equal(t, 100000.0, *got.BudgetMin)
	assert.Equal(t, "prefers sea view", got.Notes)
	assert.Equal(t, entity.CustomerActive, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCustomerPhoneOnlyUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.customers.Create(ctx, f.agentA, CustomerInput{
		FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@email.com", BudgetMin: ptr(1000.0), BudgetMax: ptr(2000.0),
	})
	require.NoError(t, err)

	updated, err := f.customers.Update(ctx, f.agentA, created.ID, entity.CustomerPatch{Phone: ptr("+905550000000")})
	require.NoError(t, err)
	assert.Equal(t, "+905550000000", updated.Phone)
	assert.Equal(t, "mehmet@email.com", updated.Email)
	assert.Equal(t, 1000.0, *updated.BudgetMin)
	assert.Equal(t, 2000.0, *updated.BudgetMax)
	assert.Equal(t, "Mehmet", updated.FirstName)
}

func TestCustomerUpdateScopeAndReassignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")

	_, err := f.customers.Update(ctx, f.agentB, c.ID, entity.CustomerPatch{Phone: ptr("1")})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	// agents cannot move their customers to someone else
	got, err := f.customers.Update(ctx, f.agentA, c.ID, entity.CustomerPatch{AgentID: ptr(f.agentB.UserID)})
	require.NoError(t, err)
	assert.Equal(t, f.agentA.UserID, got.AgentID)

	got, err = f.customers.Update(ctx, f.admin, c.ID, entity.CustomerPatch{AgentID: ptr(f.agentB.UserID)})
	require.NoError(t, err)
	assert.Equal(t, f.agentB.UserID, got.AgentID)
	assert.Equal(t, "B", got.AgentUsername)

	emails := f.pub.on("emails")
	require.Len(t, emails, 1)
	job := emails[0].(mailer.EmailJob)
	assert.Equal(t, "B@agency.com", job.To)
	assert.Equal(t, "customer_assigned", job.Template)
}

func TestAdminCreateAssignsAgent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.customers.Create(ctx, f.admin, CustomerInput{FirstName: "Ali", LastName: "Can", Email: "ali@email.com", AgentID: f.agentA.UserID})
	require.NoError(t, err)
	assert.Equal(t, f.agentA.UserID, c.AgentID)

	c, err = f.customers.Create(ctx, f.admin, CustomerInput{FirstName: "Ali", LastName: "Can", Email: "ali2@email.com"})
	require.NoError(t, err)
	assert.Equal(t, f.admin.UserID, c.AgentID)

	// payload agent_id from an agent is ignored
	c, err = f.customers.Create(ctx, f.agentB, CustomerInput{FirstName: "Ali", LastName: "Can", Email: "ali@email.com", AgentID: f.agentA.UserID})
	require.NoError(t, err)
	assert.Equal(t, f.agentB.UserID, c.AgentID)

	_, err = f.auth.SetStatus(ctx, f.admin, f.agentA.UserID, entity.UserInactive)
	require.NoError(t, err)
	_, err = f.customers.Create(ctx, f.admin, CustomerInput{FirstName: "X", LastName: "Y", Email: "x@email.com", AgentID: f.agentA.UserID})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestSoftDeleteHidesCustomerEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")

	require.NoError(t, f.customers.Delete(ctx, f.agentA, c.ID))

	for _, caller := range []scope.Identity{f.agentA, f.admin} {
		_, err := f.customers.Get(ctx, caller, c.ID)
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
		_, total, err := f.customers.List(ctx, caller, repo.CustomerFilter{}, firstPage)
		require.NoError(t, err)
		assert.Zero(t, total)
	}
	require.Contains(t, f.db.customers, c.ID)
	assert.Equal(t, entity.CustomerInactive, f.db.customers[c.ID].Status)

	// email is free again once the old row is inactive
	_, err := f.customers.Create(ctx, f.agentA, CustomerInput{FirstName: "Mehmet", LastName: "Kaya", Email: "mehmet@email.com"})
	require.NoError(t, err)
	_, err = f.customers.Reactivate(ctx, f.agentA, c.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateCustomer)
}

func TestDeleteOtherAgentsCustomerIsNotFound(t *testing.T) {
	f := newFixture(t)
	c := f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")
	assert.ErrorIs(t, f.customers.Delete(context.Background(), f.agentB, c.ID), domain.ErrCustomerNotFound)
	assert.ErrorIs(t, f.customers.Delete(context.Background(), f.agentB, "nope"), domain.ErrCustomerNotFound)
}

func TestReferencedCustomerCannotBeDeletedUntilPropertyIsGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")
	p := f.newProperty(t, f.agentA, PropertyInput{OwnerCustomerID: c.ID})

	err := f.customers.Delete(ctx, f.agentA, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerReferenced)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	err = f.customers.Delete(ctx, f.admin, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerReferenced)

	require.NoError(t, f.properties.Delete(ctx, f.agentA, p.ID))
	require.NoError(t, f.customers.Delete(ctx, f.agentA, c.ID))
}

func TestReactivateAndPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.newCustomer(t, f.agentA, "Mehmet", "mehmet@email.com")

	assert.Equal(t, domain.KindConflict, domain.KindOf(f.customers.Purge(ctx, c.ID)))
	require.NoError(t, f.customers.Delete(ctx, f.agentA, c.ID))

	_, err := f.customers.Reactivate(ctx, f.agentB, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	back, err := f.customers.Reactivate(ctx, f.agentA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerActive, back.Status)

	require.NoError(t, f.customers.Delete(ctx, f.agentA, c.ID))
	require.NoError(t, f.customers.Purge(ctx, c.ID))
	assert.NotContains(t, f.db.customers, c.ID)
	assert.ErrorIs(t, f.customers.Purge(ctx, c.ID), domain.ErrCustomerNotFound)
}

func TestCustomerPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		f.newCustomer(t, f.agentA, fmt.Sprintf("C%02d", i), fmt.Sprintf("c%02d@email.com", i))
	}
	f.newCustomer(t, f.agentB, "Other", "other@email.com")

	for _, page := range []int{1, 2, 3, 9} {
		p := repo.NewPage(page, 10, 0)
		rows, total, err := f.customers.List(ctx, f.agentA, repo.CustomerFilter{}, p)
		require.NoError(t, err)
		assert.Equal(t, 23, total, "page %d", page)
		assert.Equal(t, 3, p.TotalPages(total))
		switch page {
		case 1:
			require.Len(t, rows, 10)
			assert.Equal(t, "C22", rows[0].FirstName)
		case 3:
			assert.Len(t, rows, 3)
		case 9:
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		}
	}

	rows, total, err := f.customers.List(ctx, f.agentA, repo.CustomerFilter{Search: "c0"}, repo.NewPage(1, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Len(t, rows, 10)
}
