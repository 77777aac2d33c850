package entity

import "time"

type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyVilla      PropertyType = "villa"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyVilla, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertySold     PropertyStatus = "sold"
	PropertyRented   PropertyStatus = "rented"
	PropertyInactive PropertyStatus = "inactive"
	PropertyDeleted  PropertyStatus = "deleted"
)

func (s PropertyStatus) Valid() bool {
	_, ok := propertyTransitions[s]
	return ok
}

var propertyTransitions = map[PropertyStatus][]PropertyStatus{
	PropertyActive:   {PropertySold, PropertyRented, PropertyInactive, PropertyDeleted},
	PropertyInactive: {PropertyActive, PropertyDeleted},
	PropertySold:     {PropertyDeleted},
	PropertyRented:   {PropertyDeleted},
	PropertyDeleted:  {},
}

// CanTransition reports whether a listing may move from s to next.
// Staying in the same non-terminal status is allowed.
func (s PropertyStatus) CanTransition(next PropertyStatus) bool {
	if s == next {
		return s != PropertyDeleted
	}
	for _, allowed := range propertyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Property is a listing owned by its listing agent.
type Property struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	PropertyType      PropertyType   `json:"property_type"`
	Status            PropertyStatus `json:"status"`
	Price             float64        `json:"price"`
	Bedrooms          int            `json:"bedrooms"`
	Bathrooms         int            `json:"bathrooms"`
	Area              float64        `json:"area"`
	Address           string         `json:"address"`
	District          string         `json:"district"`
	City              string         `json:"city"`
	AgentID           string         `json:"agent_id"`
	AgentUsername     string         `json:"agent_username"`
	OwnerCustomerID   *string        `json:"owner_customer_id"`
	OwnerCustomerName *string        `json:"owner_customer_name"`
	BuyerCustomerID   *string        `json:"buyer_customer_id"`
	BuyerCustomerName *string        `json:"buyer_customer_name"`
	Images            []string       `json:"images"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PropertyPatch carries a merge update; nil fields are left untouched.
// A non-nil empty OwnerCustomerID/BuyerCustomerID clears the reference.
type PropertyPatch struct {
	Title           *string
	Description     *string
	PropertyType    *PropertyType
	Status          *PropertyStatus
	Price           *float64
	Bedrooms        *int
	Bathrooms       *int
	Area            *float64
	Address         *string
	District        *string
	City            *string
	AgentID         *string
	OwnerCustomerID *string
	BuyerCustomerID *string
}
