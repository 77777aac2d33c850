package entity

import "time"

type CustomerType string

const (
	CustomerBuyer  CustomerType = "buyer"
	CustomerSeller CustomerType = "seller"
	CustomerBoth   CustomerType = "both"
)

func (t CustomerType) Valid() bool {
	switch t {
	case CustomerBuyer, CustomerSeller, CustomerBoth:
		return true
	}
	return false
}

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

// Customer is a buyer or seller handled by exactly one agent.
// (AgentID, lower(Email)) is unique among active customers.
type Customer struct {
	ID            string         `json:"id"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	CustomerType  CustomerType   `json:"customer_type"`
	BudgetMin     *float64       `json:"budget_min"`
	BudgetMax     *float64       `json:"budget_max"`
	Notes         string         `json:"notes"`
	Status        CustomerStatus `json:"status"`
	AgentID       string         `json:"agent_id"`
	AgentUsername string         `json:"agent_username"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }

// CustomerPatch carries a merge update; nil fields are left untouched.
type CustomerPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	CustomerType *CustomerType
	BudgetMin    *float64
	BudgetMax    *float64
	Notes        *string
	AgentID      *string
}

func (p CustomerPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Phone == nil &&
		p.CustomerType == nil && p.BudgetMin == nil && p.BudgetMax == nil && p.Notes == nil && p.AgentID == nil
}
