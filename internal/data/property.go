package data

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"RentalHub/internal/conf"
	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const reasonPropertyNotFound = "PROPERTY_NOT_FOUND"

// propertyDTO is the property service's wire representation.
type propertyDTO struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"ownerId"`
	Title     string `json:"title"`
	Available bool   `json:"available"`
}

// availabilityDTO carries the availability flag endpoints.
type availabilityDTO struct {
	Available bool `json:"available"`
}

// rentalTypeDTO carries the rental type endpoint payload.
type rentalTypeDTO struct {
	RentalType string `json:"rentalType"`
}

// PropertyClient is the raw HTTP client for the remote property service.
// It performs no resilience handling itself; the workflow consumes it through
// the protected gateway. Reads go through a short-lived Redis cache, and the
// rental type (which never changes for a property) additionally sits in an
// in-process expirable LRU.
type PropertyClient struct {
	http        *resty.Client
	cache       CacheClient
	cacheTTL    time.Duration
	rentalTypes *lru.LRU[int64, model.RentalType]
	logger      *log.Helper
}

// NewPropertyClient creates the property service client.
func NewPropertyClient(c *conf.Property, d *Data, logger log.Logger) *PropertyClient {
	timeout := 3 * time.Second
	if c.Timeout != nil && c.Timeout.AsDuration() > 0 {
		timeout = c.Timeout.AsDuration()
	}
	cacheTTL := 30 * time.Second
	if c.CacheTtl != nil && c.CacheTtl.AsDuration() > 0 {
		cacheTTL = c.CacheTtl.AsDuration()
	}

	client := resty.New().
		SetBaseURL(c.BaseUrl).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &PropertyClient{
		http:        client,
		cache:       d.GetCache(),
		cacheTTL:    cacheTTL,
		rentalTypes: lru.NewLRU[int64, model.RentalType](1024, nil, time.Hour),
		logger:      log.NewHelper(logger),
	}
}

// GetByID fetches one property. A 404 from the property service maps to a
// kratos NotFound error; any other non-2xx response is a transport failure.
func (p *PropertyClient) GetByID(ctx context.Context, propertyID int64) (*model.Property, error) {
	key := BuildCacheKey(CacheKeyProperty, strconv.FormatInt(propertyID, 10))

	var cached model.Property
	if err := p.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	var dto propertyDTO
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&dto).
		Get(fmt.Sprintf("/api/v1/properties/%d", propertyID))
	if err != nil {
		return nil, fmt.Errorf("property service request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, errors.NotFound(reasonPropertyNotFound, fmt.Sprintf("property %d not found", propertyID))
	}
	if resp.IsError() {
		return nil, fmt.Errorf("property service returned status %d", resp.StatusCode())
	}

	prop := &model.Property{
		ID:        dto.ID,
		OwnerID:   dto.OwnerID,
		Title:     dto.Title,
		Available: dto.Available,
	}

	if err := p.cache.Set(ctx, key, prop, p.cacheTTL); err != nil {
		p.logger.Warnw("failed to cache property", "property_id", propertyID, "error", err)
	}

	return prop, nil
}

// IsAvailable fetches the property's current availability flag. Availability
// is not cached here: the workflow uses it to decide acceptance and must see
// fresh data.
func (p *PropertyClient) IsAvailable(ctx context.Context, propertyID int64) (bool, error) {
	var dto availabilityDTO
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&dto).
		Get(fmt.Sprintf("/api/v1/properties/%d/availability", propertyID))
	if err != nil {
		return false, fmt.Errorf("property service request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, errors.NotFound(reasonPropertyNotFound, fmt.Sprintf("property %d not found", propertyID))
	}
	if resp.IsError() {
		return false, fmt.Errorf("property service returned status %d", resp.StatusCode())
	}
	return dto.Available, nil
}

// RentalType fetches the property's billing period category. The value is
// immutable per property, so it is served from the in-process LRU when warm.
func (p *PropertyClient) RentalType(ctx context.Context, propertyID int64) (model.RentalType, error) {
	if rt, ok := p.rentalTypes.Get(propertyID); ok {
		return rt, nil
	}

	var dto rentalTypeDTO
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&dto).
		Get(fmt.Sprintf("/api/v1/properties/%d/rental-type", propertyID))
	if err != nil {
		return "", fmt.Errorf("property service request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", errors.NotFound(reasonPropertyNotFound, fmt.Sprintf("property %d not found", propertyID))
	}
	if resp.IsError() {
		return "", fmt.Errorf("property service returned status %d", resp.StatusCode())
	}

	rt := model.RentalType(dto.RentalType)
	p.rentalTypes.Add(propertyID, rt)
	return rt, nil
}

// SetAvailability updates the property's availability flag and invalidates
// the cached property snapshot.
func (p *PropertyClient) SetAvailability(ctx context.Context, propertyID int64, available bool) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(availabilityDTO{Available: available}).
		Put(fmt.Sprintf("/api/v1/properties/%d/availability", propertyID))
	if err != nil {
		return fmt.Errorf("property service request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return errors.NotFound(reasonPropertyNotFound, fmt.Sprintf("property %d not found", propertyID))
	}
	if resp.IsError() {
		return fmt.Errorf("property service returned status %d", resp.StatusCode())
	}

	key := BuildCacheKey(CacheKeyProperty, strconv.FormatInt(propertyID, 10))
	if err := p.cache.Delete(ctx, key); err != nil {
		p.logger.Warnw("failed to invalidate property cache", "property_id", propertyID, "error", err)
	}

	return nil
}
