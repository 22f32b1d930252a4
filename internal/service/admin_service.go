package service

import (
	"context"
	"errors"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminService backs the admin console: dashboard aggregates, analytics,
// the notification inbox, the media library, curated collections and the
// customer directory.
type AdminService struct {
	userDao    *dao.UserDao
	orderDao   *dao.OrderDao
	productDao *dao.ProductDao
	reviewDao  *dao.ReviewDao
	contactDao *dao.ContactDao
	adminDao   *dao.AdminDao
}

func NewAdminService(
	userDao *dao.UserDao,
	orderDao *dao.OrderDao,
	productDao *dao.ProductDao,
	reviewDao *dao.ReviewDao,
	contactDao *dao.ContactDao,
	adminDao *dao.AdminDao,
) *AdminService {
	return &AdminService{
		userDao:    userDao,
		orderDao:   orderDao,
		productDao: productDao,
		reviewDao:  reviewDao,
		contactDao: contactDao,
		adminDao:   adminDao,
	}
}

// Dashboard is the admin landing-page aggregate.
type Dashboard struct {
	TotalOrders     int64            `json:"total_orders"`
	OrdersThisMonth int64            `json:"orders_this_month"`
	TotalRevenue    float64          `json:"total_revenue"`
	RevenueThisMonth float64         `json:"revenue_this_month"`
	TotalCustomers  int64            `json:"total_customers"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
	PendingReviews  int64            `json:"pending_reviews"`
	UnreadMessages  int64            `json:"unread_messages"`
	RecentOrders    []*model.Order   `json:"recent_orders"`
	LowStock        []*model.Product `json:"low_stock"`
}

func (s *AdminService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	monthStart := time.Now().AddDate(0, 0, -30)

	var err error
	if d.TotalOrders, err = s.orderDao.CountOrders(ctx, nil); err != nil {
		return nil, e.Internal(err)
	}
	if d.OrdersThisMonth, err = s.orderDao.CountOrders(ctx, &monthStart); err != nil {
		return nil, e.Internal(err)
	}
	if d.TotalRevenue, err = s.orderDao.TotalRevenue(ctx, nil); err != nil {
		return nil, e.Internal(err)
	}
	if d.RevenueThisMonth, err = s.orderDao.TotalRevenue(ctx, &monthStart); err != nil {
		return nil, e.Internal(err)
	}
	if _, d.TotalCustomers, err = s.userDao.ListCustomers(ctx, "", 1, 1); err != nil {
		return nil, e.Internal(err)
	}
	if d.StatusBreakdown, err = s.orderDao.StatusBreakdown(ctx); err != nil {
		return nil, e.Internal(err)
	}
	if d.PendingReviews, err = s.reviewDao.CountPending(ctx); err != nil {
		return nil, e.Internal(err)
	}
	if d.UnreadMessages, err = s.contactDao.CountUnreadMessages(ctx); err != nil {
		return nil, e.Internal(err)
	}
	if d.RecentOrders, err = s.orderDao.RecentOrders(ctx, 10); err != nil {
		return nil, e.Internal(err)
	}
	if d.LowStock, err = s.productDao.LowStockProducts(ctx, 10); err != nil {
		return nil, e.Internal(err)
	}
	return d, nil
}

// Analytics is the time-windowed sales view.
type Analytics struct {
	WindowDays  int              `json:"window_days"`
	Daily       []dao.DailyStat  `json:"daily"`
	TopProducts []dao.TopProduct `json:"top_products"`
}

func (s *AdminService) GetAnalytics(ctx context.Context, windowDays int) (*Analytics, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	if windowDays > 365 {
		windowDays = 365
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	daily, err := s.orderDao.DailyStats(ctx, since)
	if err != nil {
		return nil, e.Internal(err)
	}
	top, err := s.orderDao.TopProducts(ctx, since, 10)
	if err != nil {
		return nil, e.Internal(err)
	}
	return &Analytics{WindowDays: windowDays, Daily: daily, TopProducts: top}, nil
}

// ---- notifications ----

func (s *AdminService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*model.Notification, int64, error) {
	items, total, err := s.adminDao.ListNotifications(ctx, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return items, total, nil
}

func (s *AdminService) UnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.adminDao.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, e.Internal(err)
	}
	return count, nil
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	rows, err := s.adminDao.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("notification")
	}
	return nil
}

func (s *AdminService) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	rows, err := s.adminDao.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, e.Internal(err)
	}
	return rows, nil
}

// ---- media library ----

type MediaFileRequest struct {
	Filename         string   `json:"filename" binding:"required"`
	OriginalFilename string   `json:"original_filename"`
	FilePath         string   `json:"file_path"`
	URL              string   `json:"url" binding:"required"`
	FileType         string   `json:"file_type" binding:"required"`
	MimeType         string   `json:"mime_type"`
	FileSize         int64    `json:"file_size"`
	IsExternal       bool     `json:"is_external"`
	ExternalURL      string   `json:"external_url"`
	AltText          string   `json:"alt_text"`
	Caption          string   `json:"caption"`
	Tags             []string `json:"tags"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
}

func (s *AdminService) CreateMediaFile(ctx context.Context, uploadedBy string, req *MediaFileRequest) (*model.MediaFile, error) {
	original := req.OriginalFilename
	if original == "" {
		original = req.Filename
	}
	m := &model.MediaFile{
		Filename:         req.Filename,
		OriginalFilename: original,
		FilePath:         req.FilePath,
		URL:              req.URL,
		FileType:         req.FileType,
		MimeType:         req.MimeType,
		FileSize:         req.FileSize,
		IsExternal:       req.IsExternal,
		ExternalURL:      req.ExternalURL,
		AltText:          req.AltText,
		Caption:          req.Caption,
		Tags:             datatypes.NewJSONSlice(req.Tags),
		Width:            req.Width,
		Height:           req.Height,
		UploadedBy:       uploadedBy,
	}
	if err := s.adminDao.CreateMediaFile(ctx, m); err != nil {
		return nil, e.Internal(err)
	}
	return m, nil
}

func (s *AdminService) ListMediaFiles(ctx context.Context, fileType, search string, page, pageSize int) ([]*model.MediaFile, int64, error) {
	files, total, err := s.adminDao.ListMediaFiles(ctx, fileType, search, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return files, total, nil
}

func (s *AdminService) UpdateMediaFile(ctx context.Context, id string, altText, caption string, tags []string) (*model.MediaFile, error) {
	updates := map[string]interface{}{
		"alt_text": altText,
		"caption":  caption,
		"tags":     datatypes.NewJSONSlice(tags),
	}
	rows, err := s.adminDao.UpdateMediaFile(ctx, id, updates)
	if err != nil {
		return nil, e.Internal(err)
	}
	if rows == 0 {
		return nil, e.NotFound("media file")
	}
	return s.adminDao.GetMediaFileByID(ctx, id)
}

func (s *AdminService) DeleteMediaFile(ctx context.Context, id string) error {
	rows, err := s.adminDao.DeleteMediaFile(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("media file")
	}
	return nil
}

// ---- product collections ----

type CollectionRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Slug            string                 `json:"slug"`
	Description     string                 `json:"description"`
	FeaturedImageID *string                `json:"featured_image_id"`
	Products        map[string]interface{} `json:"products"`
	IsPublished     *bool                  `json:"is_published"`
	DisplayOrder    int                    `json:"display_order"`
	MetaTitle       string                 `json:"meta_title"`
	MetaDescription string                 `json:"meta_description"`
}

func (s *AdminService) CreateCollection(ctx context.Context, req *CollectionRequest) (*model.ProductCollection, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	taken, err := s.adminDao.CollectionSlugExists(ctx, slug, "")
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a collection with this slug already exists")
	}

	c := &model.ProductCollection{
		Name:            req.Name,
		Slug:            slug,
		Description:     req.Description,
		FeaturedImageID: req.FeaturedImageID,
		Products:        datatypes.JSONMap(req.Products),
		IsPublished:     req.IsPublished != nil && *req.IsPublished,
		DisplayOrder:    req.DisplayOrder,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if err := s.adminDao.CreateCollection(ctx, c); err != nil {
		return nil, e.Internal(err)
	}
	return c, nil
}

func (s *AdminService) ListCollections(ctx context.Context, publishedOnly bool) ([]*model.ProductCollection, error) {
	items, err := s.adminDao.ListCollections(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *AdminService) GetCollection(ctx context.Context, slug string, publishedOnly bool) (*model.ProductCollection, error) {
	c, err := s.adminDao.GetCollectionBySlug(ctx, slug, publishedOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("collection")
		}
		return nil, e.Internal(err)
	}
	return c, nil
}

func (s *AdminService) UpdateCollection(ctx context.Context, id string, req *CollectionRequest) error {
	slug := req.Slug
	if slug != "" {
		taken, err := s.adminDao.CollectionSlugExists(ctx, slug, id)
		if err != nil {
			return e.Internal(err)
		}
		if taken {
			return e.Conflict("a collection with this slug already exists")
		}
	}

	updates := map[string]interface{}{
		"name":             req.Name,
		"description":      req.Description,
		"featured_image_id": req.FeaturedImageID,
		"display_order":    req.DisplayOrder,
		"meta_title":       req.MetaTitle,
		"meta_description": req.MetaDescription,
	}
	if slug != "" {
		updates["slug"] = slug
	}
	if req.Products != nil {
		updates["products"] = datatypes.JSONMap(req.Products)
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	rows, err := s.adminDao.UpdateCollection(ctx, id, updates)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("collection")
	}
	return nil
}

func (s *AdminService) DeleteCollection(ctx context.Context, id string) error {
	rows, err := s.adminDao.DeleteCollection(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("collection")
	}
	return nil
}

// ---- customers ----

func (s *AdminService) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]*model.User, int64, error) {
	users, total, err := s.userDao.ListCustomers(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return users, total, nil
}

// CustomerDetail bundles a customer with their order history.
type CustomerDetail struct {
	User        *model.User    `json:"user"`
	Orders      []*model.Order `json:"orders"`
	TotalOrders int64          `json:"total_orders"`
}

func (s *AdminService) GetCustomer(ctx context.Context, userID string) (*CustomerDetail, error) {
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("customer")
		}
		return nil, e.Internal(err)
	}

	orders, total, err := s.orderDao.GetUserOrders(ctx, userID, "", 1, 20)
	if err != nil {
		return nil, e.Internal(err)
	}
	return &CustomerDetail{User: user, Orders: orders, TotalOrders: total}, nil
}
