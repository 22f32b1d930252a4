package service

import (
	"context"
	"errors"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/gorm"
)

// PressService manages the press page: hero block, media coverage,
// releases, exhibitions, speaking engagements and collaborations.
type PressService struct {
	pressDao *dao.PressDao
}

func NewPressService(pressDao *dao.PressDao) *PressService {
	return &PressService{pressDao: pressDao}
}

// PressPage is the public aggregate: everything published, in one call.
type PressPage struct {
	Hero                *model.PressHero            `json:"hero"`
	MediaCoverage       []*model.MediaCoverage      `json:"media_coverage"`
	PressReleases       []*model.PressRelease       `json:"press_releases"`
	Exhibitions         []*model.Exhibition         `json:"exhibitions"`
	SpeakingEngagements []*model.SpeakingEngagement `json:"speaking_engagements"`
	Collaborations      []*model.Collaboration      `json:"collaborations"`
}

func (s *PressService) GetPressPage(ctx context.Context) (*PressPage, error) {
	page := &PressPage{}

	hero, err := s.pressDao.GetHero(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, e.Internal(err)
	}
	page.Hero = hero

	if page.MediaCoverage, err = s.pressDao.ListMediaCoverage(ctx, true); err != nil {
		return nil, e.Internal(err)
	}
	if page.PressReleases, err = s.pressDao.ListPressReleases(ctx, true); err != nil {
		return nil, e.Internal(err)
	}
	if page.Exhibitions, err = s.pressDao.ListExhibitions(ctx, true); err != nil {
		return nil, e.Internal(err)
	}
	if page.SpeakingEngagements, err = s.pressDao.ListSpeakingEngagements(ctx, true); err != nil {
		return nil, e.Internal(err)
	}
	if page.Collaborations, err = s.pressDao.ListCollaborations(ctx, true); err != nil {
		return nil, e.Internal(err)
	}
	return page, nil
}

// GetHero returns the hero block on its own; a never-configured hero is
// NotFound.
func (s *PressService) GetHero(ctx context.Context) (*model.PressHero, error) {
	hero, err := s.pressDao.GetHero(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("press hero")
		}
		return nil, e.Internal(err)
	}
	return hero, nil
}

type PressHeroRequest struct {
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s *PressService) UpdateHero(ctx context.Context, req *PressHeroRequest) (*model.PressHero, error) {
	hero := &model.PressHero{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.pressDao.UpsertHero(ctx, hero); err != nil {
		return nil, e.Internal(err)
	}
	return s.pressDao.GetHero(ctx)
}

type MediaCoverageRequest struct {
	Title        string `json:"title" binding:"required"`
	Outlet       string `json:"outlet" binding:"required"`
	Date         string `json:"date" binding:"required"`
	URL          string `json:"url"`
	Image        string `json:"image"`
	Excerpt      string `json:"excerpt"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *PressService) ListMediaCoverage(ctx context.Context, publishedOnly bool) ([]*model.MediaCoverage, error) {
	items, err := s.pressDao.ListMediaCoverage(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *PressService) CreateMediaCoverage(ctx context.Context, req *MediaCoverageRequest) (*model.MediaCoverage, error) {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return nil, err
	}
	m := &model.MediaCoverage{
		Title:        req.Title,
		Outlet:       req.Outlet,
		Date:         date,
		URL:          req.URL,
		Image:        req.Image,
		Excerpt:      req.Excerpt,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.pressDao.CreateMediaCoverage(ctx, m); err != nil {
		return nil, e.Internal(err)
	}
	return m, nil
}

func (s *PressService) UpdateMediaCoverage(ctx context.Context, id string, req *MediaCoverageRequest) error {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"title":         req.Title,
		"outlet":        req.Outlet,
		"date":          date,
		"url":           req.URL,
		"image":         req.Image,
		"excerpt":       req.Excerpt,
		"display_order": req.DisplayOrder,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	return requireRow(s.pressDao.UpdateMediaCoverage(ctx, id, updates))("media coverage")
}

func (s *PressService) DeleteMediaCoverage(ctx context.Context, id string) error {
	return requireRow(s.pressDao.DeleteMediaCoverage(ctx, id))("media coverage")
}

type PressReleaseRequest struct {
	Title        string `json:"title" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Summary      string `json:"summary"`
	Content      string `json:"content"`
	PDFURL       string `json:"pdf_url"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *PressService) ListPressReleases(ctx context.Context, publishedOnly bool) ([]*model.PressRelease, error) {
	items, err := s.pressDao.ListPressReleases(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *PressService) CreatePressRelease(ctx context.Context, req *PressReleaseRequest) (*model.PressRelease, error) {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return nil, err
	}
	r := &model.PressRelease{
		Title:        req.Title,
		Date:         date,
		Summary:      req.Summary,
		Content:      req.Content,
		PDFURL:       req.PDFURL,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.pressDao.CreatePressRelease(ctx, r); err != nil {
		return nil, e.Internal(err)
	}
	return r, nil
}

func (s *PressService) UpdatePressRelease(ctx context.Context, id string, req *PressReleaseRequest) error {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"title":         req.Title,
		"date":          date,
		"summary":       req.Summary,
		"content":       req.Content,
		"pdf_url":       req.PDFURL,
		"display_order": req.DisplayOrder,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	return requireRow(s.pressDao.UpdatePressRelease(ctx, id, updates))("press release")
}

func (s *PressService) DeletePressRelease(ctx context.Context, id string) error {
	return requireRow(s.pressDao.DeletePressRelease(ctx, id))("press release")
}

type ExhibitionRequest struct {
	Title        string `json:"title" binding:"required"`
	Venue        string `json:"venue"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *PressService) ListExhibitions(ctx context.Context, publishedOnly bool) ([]*model.Exhibition, error) {
	items, err := s.pressDao.ListExhibitions(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *PressService) CreateExhibition(ctx context.Context, req *ExhibitionRequest) (*model.Exhibition, error) {
	start, err := parsePressDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if req.EndDate != "" {
		d, err := parsePressDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		end = &d
	}
	x := &model.Exhibition{
		Title:        req.Title,
		Venue:        req.Venue,
		Location:     req.Location,
		StartDate:    start,
		EndDate:      end,
		Description:  req.Description,
		Image:        req.Image,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.pressDao.CreateExhibition(ctx, x); err != nil {
		return nil, e.Internal(err)
	}
	return x, nil
}

func (s *PressService) UpdateExhibition(ctx context.Context, id string, req *ExhibitionRequest) error {
	start, err := parsePressDate(req.StartDate)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"title":         req.Title,
		"venue":         req.Venue,
		"location":      req.Location,
		"start_date":    start,
		"description":   req.Description,
		"image":         req.Image,
		"display_order": req.DisplayOrder,
	}
	if req.EndDate != "" {
		d, err := parsePressDate(req.EndDate)
		if err != nil {
			return err
		}
		updates["end_date"] = d
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	return requireRow(s.pressDao.UpdateExhibition(ctx, id, updates))("exhibition")
}

func (s *PressService) DeleteExhibition(ctx context.Context, id string) error {
	return requireRow(s.pressDao.DeleteExhibition(ctx, id))("exhibition")
}

type SpeakingEngagementRequest struct {
	Title        string `json:"title" binding:"required"`
	Event        string `json:"event"`
	Date         string `json:"date" binding:"required"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *PressService) ListSpeakingEngagements(ctx context.Context, publishedOnly bool) ([]*model.SpeakingEngagement, error) {
	items, err := s.pressDao.ListSpeakingEngagements(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *PressService) CreateSpeakingEngagement(ctx context.Context, req *SpeakingEngagementRequest) (*model.SpeakingEngagement, error) {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return nil, err
	}
	sp := &model.SpeakingEngagement{
		Title:        req.Title,
		Event:        req.Event,
		Date:         date,
		Location:     req.Location,
		Description:  req.Description,
		URL:          req.URL,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.pressDao.CreateSpeakingEngagement(ctx, sp); err != nil {
		return nil, e.Internal(err)
	}
	return sp, nil
}

func (s *PressService) UpdateSpeakingEngagement(ctx context.Context, id string, req *SpeakingEngagementRequest) error {
	date, err := parsePressDate(req.Date)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"title":         req.Title,
		"event":         req.Event,
		"date":          date,
		"location":      req.Location,
		"description":   req.Description,
		"url":           req.URL,
		"display_order": req.DisplayOrder,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	return requireRow(s.pressDao.UpdateSpeakingEngagement(ctx, id, updates))("speaking engagement")
}

func (s *PressService) DeleteSpeakingEngagement(ctx context.Context, id string) error {
	return requireRow(s.pressDao.DeleteSpeakingEngagement(ctx, id))("speaking engagement")
}

type CollaborationRequest struct {
	Title        string `json:"title" binding:"required"`
	Partner      string `json:"partner"`
	Year         int    `json:"year"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *PressService) ListCollaborations(ctx context.Context, publishedOnly bool) ([]*model.Collaboration, error) {
	items, err := s.pressDao.ListCollaborations(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *PressService) CreateCollaboration(ctx context.Context, req *CollaborationRequest) (*model.Collaboration, error) {
	c := &model.Collaboration{
		Title:        req.Title,
		Partner:      req.Partner,
		Year:         req.Year,
		Description:  req.Description,
		Image:        req.Image,
		URL:          req.URL,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.pressDao.CreateCollaboration(ctx, c); err != nil {
		return nil, e.Internal(err)
	}
	return c, nil
}

func (s *PressService) UpdateCollaboration(ctx context.Context, id string, req *CollaborationRequest) error {
	updates := map[string]interface{}{
		"title":         req.Title,
		"partner":       req.Partner,
		"year":          req.Year,
		"description":   req.Description,
		"image":         req.Image,
		"url":           req.URL,
		"display_order": req.DisplayOrder,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	return requireRow(s.pressDao.UpdateCollaboration(ctx, id, updates))("collaboration")
}

func (s *PressService) DeleteCollaboration(ctx context.Context, id string) error {
	return requireRow(s.pressDao.DeleteCollaboration(ctx, id))("collaboration")
}

func parsePressDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, e.Validation("dates must be YYYY-MM-DD")
	}
	return date, nil
}

// requireRow converts a (RowsAffected, error) pair into a not-found error
// when no row matched.
func requireRow(rows int64, err error) func(what string) error {
	return func(what string) error {
		if err != nil {
			return e.Internal(err)
		}
		if rows == 0 {
			return e.NotFound(what)
		}
		return nil
	}
}
