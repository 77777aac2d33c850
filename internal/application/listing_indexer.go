package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
)

// ErrBadEvent marks messages that can never be applied.
var ErrBadEvent = errors.New("bad property event")

// ListingDocument is what the search index stores for a listing.
type ListingDocument struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PropertyType  string    `json:"property_type"`
	Status        string    `json:"status"`
	Price         float64   `json:"price"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Area          float64   `json:"area"`
	Address       string    `json:"address"`
	District      string    `json:"district"`
	City          string    `json:"city"`
	AgentID       string    `json:"agent_id"`
	AgentUsername string    `json:"agent_username"`
	Images        []string  `json:"images"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewListingDocument(p *entity.Property) ListingDocument {
	return ListingDocument{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		PropertyType:  string(p.PropertyType),
		Status:        string(p.Status),
		Price:         p.Price,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Area:          p.Area,
		Address:       p.Address,
		District:      p.District,
		City:          p.City,
		AgentID:       p.AgentID,
		AgentUsername: p.AgentUsername,
		Images:        p.Images,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ListingIndexer applies property events to the search index.
// Customer names are not copied into the index.
type ListingIndexer struct {
	Index  SearchIndex
	Logger *logrus.Logger
}

func NewListingIndexer(index SearchIndex, logger *logrus.Logger) *ListingIndexer {
	return &ListingIndexer{Index: index, Logger: logger}
}

// Handle applies one raw message. Errors wrapping ErrBadEvent should not be retried.
func (x *ListingIndexer) Handle(ctx context.Context, body []byte) error {
	var ev PropertyEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	if ev.PropertyID == "" {
		return fmt.Errorf("%w: missing property_id", ErrBadEvent)
	}
	switch ev.Kind {
	case EventPropertyUpserted:
		if ev.Property == nil {
			return fmt.Errorf("%w: upsert without property", ErrBadEvent)
		}
		if ev.Property.Status == entity.PropertyDeleted {
			return x.Index.Delete(ctx, ev.PropertyID)
		}
		return x.Index.Put(ctx, ev.PropertyID, NewListingDocument(ev.Property))
	case EventPropertyDeleted:
		return x.Index.Delete(ctx, ev.PropertyID)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadEvent, ev.Kind)
	}
}
