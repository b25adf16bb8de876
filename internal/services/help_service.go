package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"carelink-backend/internal/models"
)

const (
	MaxRequestDetails     = 800
	MaxHelperIntroduction = 500
	MaxHelperExperience   = 300
)

// HelpService manages help requests posted by seniors and profiles posted by helpers.
// Only the owner may change or delete a row.
type HelpService struct {
	store HelpStore
	now   func() time.Time
}

func NewHelpService(store HelpStore) *HelpService {
	return &HelpService{store: store, now: time.Now}
}

func (s *HelpService) CreateRequest(ctx context.Context, session *models.Session, in models.HelpRequestInput) (*models.HelpRequest, error) {
	if session == nil {
		return nil, ErrAuth
	}
	req := &models.HelpRequest{UserID: session.UserID}
	if err := applyRequestInput(req, in); err != nil {
		return nil, err
	}
	if session.Name != "" {
		name := session.Name
		req.Name = &name
	}
	req.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	req.UpdatedAt = req.CreatedAt

	if err := s.store.CreateHelpRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create help request: %w", err)
	}
	return req, nil
}

func (s *HelpService) GetRequest(ctx context.Context, id int64) (*models.HelpRequest, error) {
	return s.store.GetHelpRequest(ctx, id)
}

// LatestRequest is the user's current request: the most recently created one.
func (s *HelpService) LatestRequest(ctx context.Context, userID int64) (*models.HelpRequest, error) {
	return s.store.LatestHelpRequestByUser(ctx, userID)
}

func (s *HelpService) ListPublishedRequests(ctx context.Context) ([]models.HelpRequest, error) {
	return s.store.ListHelpRequests(ctx, models.StatusPublished)
}

func (s *HelpService) UpdateRequest(ctx context.Context, session *models.Session, id int64, in models.HelpRequestInput) (*models.HelpRequest, error) {
	req, err := s.ownedRequest(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := applyRequestInput(req, in); err != nil {
		return nil, err
	}
	req.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	if err := s.store.UpdateHelpRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("update help request: %w", err)
	}
	return req, nil
}

func (s *HelpService) DeleteRequest(ctx context.Context, session *models.Session, id int64) error {
	if _, err := s.ownedRequest(ctx, session, id); err != nil {
		return err
	}
	return s.store.DeleteHelpRequest(ctx, id)
}

func (s *HelpService) CreateHelperProfile(ctx context.Context, session *models.Session, in models.HelperProfileInput) (*models.HelperProfile, error) {
	if session == nil {
		return nil, ErrAuth
	}
	p := &models.HelperProfile{UserID: session.UserID, Status: models.StatusPending}
	if err := applyHelperInput(p, in); err != nil {
		return nil, err
	}
	p.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	p.UpdatedAt = p.CreatedAt

	if err := s.store.CreateHelperProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("create helper profile: %w", err)
	}
	return p, nil
}

func (s *HelpService) GetHelperProfile(ctx context.Context, id int64) (*models.HelperProfile, error) {
	return s.store.GetHelperProfile(ctx, id)
}

func (s *HelpService) LatestHelperProfile(ctx context.Context, userID int64) (*models.HelperProfile, error) {
	return s.store.LatestHelperProfileByUser(ctx, userID)
}

func (s *HelpService) ListPublishedHelpers(ctx context.Context) ([]models.HelperProfile, error) {
	return s.store.ListHelperProfiles(ctx, models.StatusPublished, false)
}

// HelpersOnMap lists helper profiles that have a location, whatever their status.
func (s *HelpService) HelpersOnMap(ctx context.Context) ([]models.HelperProfile, error) {
	return s.store.ListHelperProfiles(ctx, "", true)
}

func (s *HelpService) UpdateHelperProfile(ctx context.Context, session *models.Session, id int64, in models.HelperProfileInput) (*models.HelperProfile, error) {
	p, err := s.ownedHelper(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := applyHelperInput(p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	if err := s.store.UpdateHelperProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("update helper profile: %w", err)
	}
	return p, nil
}

func (s *HelpService) DeleteHelperProfile(ctx context.Context, session *models.Session, id int64) error {
	if _, err := s.ownedHelper(ctx, session, id); err != nil {
		return err
	}
	return s.store.DeleteHelperProfile(ctx, id)
}

func (s *HelpService) ownedRequest(ctx context.Context, session *models.Session, id int64) (*models.HelpRequest, error) {
	if session == nil {
		return nil, ErrAuth
	}
	req, err := s.store.GetHelpRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != session.UserID {
		return nil, ErrForbidden
	}
	return req, nil
}

func (s *HelpService) ownedHelper(ctx context.Context, session *models.Session, id int64) (*models.HelperProfile, error) {
	if session == nil {
		return nil, ErrAuth
	}
	p, err := s.store.GetHelperProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != session.UserID {
		return nil, ErrForbidden
	}
	return p, nil
}

func applyRequestInput(req *models.HelpRequest, in models.HelpRequestInput) error {
	categories, err := validateCategories(in.Categories)
	if err != nil {
		return err
	}
	details := strings.TrimSpace(in.Details)
	if details == "" {
		return invalid("details", "required")
	}
	if utf8.RuneCountInString(details) > MaxRequestDetails {
		return invalid("details", fmt.Sprintf("at most %d characters", MaxRequestDetails))
	}
	status := in.Status
	if status == "" {
		status = models.StatusPublished
	}
	if status != models.StatusPublished && status != models.StatusPrivate {
		return invalid("status", "must be published or private")
	}
	if err := validateLocation(in.Lat, in.Lng); err != nil {
		return err
	}

	req.Categories = categories
	req.Details = details
	req.Status = status
	req.Lat, req.Lng = in.Lat, in.Lng
	return nil
}

func applyHelperInput(p *models.HelperProfile, in models.HelperProfileInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("name", "required")
	}
	age := strings.TrimSpace(in.Age)
	if age == "" {
		return invalid("age", "required")
	}
	n, err := strconv.Atoi(age)
	if err != nil || n <= 0 || n > 150 || strings.ContainsAny(age, "+-") {
		return invalid("age", "digits only")
	}
	categories, err := validateCategories(in.Categories)
	if err != nil {
		return err
	}
	intro := strings.TrimSpace(in.Introduction)
	if intro == "" {
		return invalid("introduction", "required")
	}
	if utf8.RuneCountInString(intro) > MaxHelperIntroduction {
		return invalid("introduction", fmt.Sprintf("at most %d characters", MaxHelperIntroduction))
	}
	var experience *string
	if in.Experience != nil {
		e := strings.TrimSpace(*in.Experience)
		if utf8.RuneCountInString(e) > MaxHelperExperience {
			return invalid("experience", fmt.Sprintf("at most %d characters", MaxHelperExperience))
		}
		if e != "" {
			experience = &e
		}
	}
	if in.Status != "" {
		switch in.Status {
		case models.StatusPending, models.StatusPublished, models.StatusPrivate:
			p.Status = in.Status
		default:
			return invalid("status", "must be pending, published or private")
		}
	}
	if err := validateLocation(in.Lat, in.Lng); err != nil {
		return err
	}

	p.Name = name
	p.Age = n
	p.Categories = categories
	p.Introduction = intro
	p.Experience = experience
	p.Lat, p.Lng = in.Lat, in.Lng
	return nil
}

func validateLocation(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return invalid("location", "lat and lng must be given together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return invalid("lat", "out of range")
	}
	if *lng < -180 || *lng > 180 {
		return invalid("lng", "out of range")
	}
	return nil
}
