package application

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

type PropertyService struct {
	Repo     repo.PropertyRepository
	Users    repo.UserRepository
	Images   ImageStore // nil disables uploads
	Notifier *Notifier
	Logger   *logrus.Logger
}

func NewPropertyService(properties repo.PropertyRepository, users repo.UserRepository, images ImageStore, notifier *Notifier, logger *logrus.Logger) *PropertyService {
	return &PropertyService{Repo: properties, Users: users, Images: images, Notifier: notifier, Logger: logger}
}

type PropertyInput struct {
	Title           string
	Description     string
	PropertyType    entity.PropertyType
	Status          entity.PropertyStatus
	Price           *float64
	Bedrooms        int
	Bathrooms       int
	Area            float64
	Address         string
	District        string
	City            string
	AgentID         string
	OwnerCustomerID string
	BuyerCustomerID string
}

const propertyTypeMsg = "property_type must be one of: apartment, house, villa, land, commercial"

func (in *PropertyInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.City = strings.TrimSpace(in.City)
	in.District = strings.TrimSpace(in.District)
	in.Address = strings.TrimSpace(in.Address)
	switch {
	case in.Title == "":
		return domain.Validation("title is required")
	case in.Price == nil:
		return domain.Validation("price is required")
	case *in.Price < 0:
		return domain.Validation("price must not be negative")
	case in.PropertyType == "":
		return domain.Validation("property_type is required")
	case !in.PropertyType.Valid():
		return domain.Validation(propertyTypeMsg)
	case in.Bedrooms < 0 || in.Bathrooms < 0 || in.Area < 0:
		return domain.Validation("bedrooms, bathrooms and area must not be negative")
	}
	if in.Status == "" {
		in.Status = entity.PropertyActive
	}
	if !in.Status.Valid() || in.Status == entity.PropertyDeleted {
		return domain.Validation("status must be one of: active, sold, rented, inactive")
	}
	return nil
}

// customerRef turns an optional id into a nullable reference. Malformed ids fail the same way
// as ids of customers the caller cannot see.
func customerRef(field, id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if !validID(id) {
		return nil, domain.Validation(field + " does not reference an active customer")
	}
	return &id, nil
}

func (s *PropertyService) List(ctx context.Context, caller scope.Identity, f repo.PropertyFilter, page repo.Page) ([]entity.Property, int, error) {
	if err := requireCaller(caller); err != nil {
		return nil, 0, err
	}
	if f.PropertyType != "" && !f.PropertyType.Valid() {
		return nil, 0, domain.Validation(propertyTypeMsg)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.Validation("status must be one of: active, sold, rented, inactive, deleted")
	}
	f.AgentID = caller.ListAgentFilter(f.AgentID)
	if f.AgentID != "" && !validID(f.AgentID) {
		return nil, 0, domain.Validation("agent_id must be a valid id")
	}
	f.Search = strings.TrimSpace(f.Search)
	f.City = strings.TrimSpace(f.City)
	return s.Repo.List(ctx, caller, f, page)
}

func (s *PropertyService) Get(ctx context.Context, caller scope.Identity, id string) (*entity.Property, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrPropertyNotFound
	}
	return s.Repo.Get(ctx, caller, id)
}

func (s *PropertyService) Create(ctx context.Context, caller scope.Identity, in PropertyInput) (*entity.Property, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	ownerRef, err := customerRef("owner_customer_id", in.OwnerCustomerID)
	if err != nil {
		return nil, err
	}
	buyerRef, err := customerRef("buyer_customer_id", in.BuyerCustomerID)
	if err != nil {
		return nil, err
	}
	agentID := caller.OwnerFor(in.AgentID)
	if agentID != caller.UserID {
		if _, err := activeAssignee(ctx, s.Users, agentID); err != nil {
			return nil, err
		}
	}

	p, err := s.Repo.Create(ctx, caller, &entity.Property{
		Title:           in.Title,
		Description:     in.Description,
		PropertyType:    in.PropertyType,
		Status:          in.Status,
		Price:           *in.Price,
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		Area:            in.Area,
		Address:         in.Address,
		District:        in.District,
		City:            in.City,
		AgentID:         agentID,
		OwnerCustomerID: ownerRef,
		BuyerCustomerID: buyerRef,
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.PropertyChanged(ctx, p)
	return p, nil
}

func normalizePropertyPatch(p *entity.PropertyPatch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.Validation("title must not be empty")
		}
		p.Title = &t
	}
	if p.PropertyType != nil && !p.PropertyType.Valid() {
		return domain.Validation(propertyTypeMsg)
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.Validation("status must be one of: active, sold, rented, inactive, deleted")
	}
	if p.Price != nil && *p.Price < 0 {
		return domain.Validation("price must not be negative")
	}
	if (p.Bedrooms != nil && *p.Bedrooms < 0) || (p.Bathrooms != nil && *p.Bathrooms < 0) || (p.Area != nil && *p.Area < 0) {
		return domain.Validation("bedrooms, bathrooms and area must not be negative")
	}
	for field, ref := range map[string]*string{"owner_customer_id": p.OwnerCustomerID, "buyer_customer_id": p.BuyerCustomerID} {
		if ref != nil && *ref != "" && !validID(*ref) {
			return domain.Validation(field + " does not reference an active customer")
		}
	}
	return nil
}

// Update merges patch into the listing. Sending status=deleted is the same as Delete.
func (s *PropertyService) Update(ctx context.Context, caller scope.Identity, id string, patch entity.PropertyPatch) (*entity.Property, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrPropertyNotFound
	}
	if err := normalizePropertyPatch(&patch); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		patch.AgentID = nil
	} else if patch.AgentID != nil {
		if _, err := activeAssignee(ctx, s.Users, *patch.AgentID); err != nil {
			return nil, err
		}
	}

	p, previous, err := s.Repo.Update(ctx, caller, id, patch)
	if err != nil {
		return nil, err
	}
	s.Notifier.PropertyChanged(ctx, p)
	// the listing agent hears about status changes made by someone else
	if previous != p.Status && p.AgentID != caller.UserID {
		if agent, err := s.Users.GetByID(ctx, p.AgentID); err == nil {
			s.Notifier.PropertyStatusChanged(ctx, agent, p, previous, caller.Username)
		}
	}
	return p, nil
}

func (s *PropertyService) Delete(ctx context.Context, caller scope.Identity, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !validID(id) {
		return domain.ErrPropertyNotFound
	}
	p, err := s.Repo.Delete(ctx, caller, id)
	if err != nil {
		return err
	}
	s.Notifier.PropertyChanged(ctx, p)
	return nil
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AddImage uploads an image for a listing the caller can see and appends its URL.
func (s *PropertyService) AddImage(ctx context.Context, caller scope.Identity, id, contentType string, r io.Reader) (*entity.Property, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrPropertyNotFound
	}
	ext, ok := imageExts[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))]
	if !ok {
		return nil, domain.Validation("image must be jpeg, png or webp")
	}
	if s.Images == nil {
		return nil, &domain.Error{Kind: domain.KindInternal, Message: "image storage is not configured"}
	}
	if _, err := s.Repo.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	objectPath := path.Join("properties", id, uuid.NewString()+ext)
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, domain.Internal(err)
	}
	p, err := s.Repo.AddImage(ctx, caller, id, url)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("object", objectPath).Warn("image uploaded but not attached")
		}
		return nil, err
	}
	s.Notifier.PropertyChanged(ctx, p)
	return p, nil
}
