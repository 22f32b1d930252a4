package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/gorm"
)

var contactCategories = map[string]bool{
	"general":      true,
	"consultation": true,
	"custom_order": true,
	"partnership":  true,
}

// ContactService handles contact-form submissions, consultation bookings
// and newsletter subscriptions.
type ContactService struct {
	contactDao *dao.ContactDao
	notifier   *Notifier
	mail       *mailer.Mailer
}

func NewContactService(contactDao *dao.ContactDao, notifier *Notifier, mail *mailer.Mailer) *ContactService {
	return &ContactService{contactDao: contactDao, notifier: notifier, mail: mail}
}

type ContactMessageRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Phone            string `json:"phone"`
	Category         string `json:"category"`
	ConsultationType string `json:"consultation_type"`
	OrderDetails     string `json:"order_details"`
	PartnershipType  string `json:"partnership_type"`
	Subject          string `json:"subject"`
	Message          string `json:"message" binding:"required"`
}

// SubmitMessage stores a contact-form submission, notifies staff and
// sends the customer an acknowledgement.
func (s *ContactService) SubmitMessage(ctx context.Context, req *ContactMessageRequest) (*model.ContactMessage, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, e.Validation("invalid email address")
	}
	category := req.Category
	if category == "" {
		category = "general"
	}
	if !contactCategories[category] {
		return nil, e.Validation("unknown category %q", category)
	}

	msg := &model.ContactMessage{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Phone:            strings.TrimSpace(req.Phone),
		Category:         category,
		ConsultationType: req.ConsultationType,
		OrderDetails:     req.OrderDetails,
		PartnershipType:  req.PartnershipType,
		Subject:          req.Subject,
		Message:          req.Message,
		Status:           "new",
	}
	if err := s.contactDao.CreateMessage(ctx, msg); err != nil {
		return nil, e.Internal(err)
	}

	s.notifier.NewContactMessage(ctx, msg)
	subject, body := mailer.ContactAck(msg.Name)
	s.mail.Send(msg.Email, subject, body)

	return msg, nil
}

func (s *ContactService) ListMessages(ctx context.Context, category, status string, unreadOnly bool, page, pageSize int) ([]*model.ContactMessage, int64, error) {
	messages, total, err := s.contactDao.ListMessages(ctx, category, status, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return messages, total, nil
}

func (s *ContactService) GetMessage(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := s.contactDao.GetMessageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("message")
		}
		return nil, e.Internal(err)
	}
	return msg, nil
}

type UpdateMessageRequest struct {
	Status     string `json:"status"`
	IsRead     *bool  `json:"is_read"`
	AdminNotes string `json:"admin_notes"`
	Replied    bool   `json:"replied"`
}

func (s *ContactService) UpdateMessage(ctx context.Context, id string, req *UpdateMessageRequest) (*model.ContactMessage, error) {
	updates := map[string]interface{}{}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.IsRead != nil {
		updates["is_read"] = *req.IsRead
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if req.Replied {
		updates["replied_at"] = time.Now()
		updates["status"] = "replied"
	}
	if len(updates) == 0 {
		return s.GetMessage(ctx, id)
	}

	rows, err := s.contactDao.UpdateMessage(ctx, id, updates)
	if err != nil {
		return nil, e.Internal(err)
	}
	if rows == 0 {
		return nil, e.NotFound("message")
	}
	return s.GetMessage(ctx, id)
}

// RespondToMessage emails a staff-written reply to the sender and stamps
// the message replied.
func (s *ContactService) RespondToMessage(ctx context.Context, id, response string) (*model.ContactMessage, error) {
	if strings.TrimSpace(response) == "" {
		return nil, e.Validation("a response is required")
	}
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.contactDao.UpdateMessage(ctx, id, map[string]interface{}{
		"status":     "replied",
		"is_read":    true,
		"replied_at": time.Now(),
	}); err != nil {
		return nil, e.Internal(err)
	}

	subject, body := mailer.InquiryReply(msg.Name, response)
	s.mail.Send(msg.Email, subject, body)

	return s.GetMessage(ctx, id)
}

func (s *ContactService) DeleteMessage(ctx context.Context, id string) error {
	rows, err := s.contactDao.DeleteMessage(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("message")
	}
	return nil
}

// ---- consultations ----

type ConsultationRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Phone            string `json:"phone"`
	ConsultationType string `json:"consultation_type" binding:"required"`
	MeetingType      string `json:"meeting_type"`
	PreferredDate    string `json:"preferred_date" binding:"required"`
	PreferredTime    string `json:"preferred_time" binding:"required"`
	Notes            string `json:"notes"`
}

// BookConsultation records a consultation request. Dates in the past are
// rejected.
func (s *ContactService) BookConsultation(ctx context.Context, req *ConsultationRequest) (*model.Consultation, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, e.Validation("invalid email address")
	}

	date, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, e.Validation("preferred date must be YYYY-MM-DD")
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, e.Validation("preferred date cannot be in the past")
	}

	meetingType := req.MeetingType
	if meetingType == "" {
		meetingType = "in-person"
	}

	c := &model.Consultation{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Phone:            strings.TrimSpace(req.Phone),
		ConsultationType: req.ConsultationType,
		MeetingType:      meetingType,
		PreferredDate:    date,
		PreferredTime:    req.PreferredTime,
		Status:           "pending",
		Notes:            req.Notes,
	}
	if err := s.contactDao.CreateConsultation(ctx, c); err != nil {
		return nil, e.Internal(err)
	}

	s.notifier.NewConsultation(ctx, c)
	subject, body := mailer.ConsultationAck(c.Name, c.ConsultationType, req.PreferredDate, c.PreferredTime)
	s.mail.Send(c.Email, subject, body)

	return c, nil
}

func (s *ContactService) ListConsultations(ctx context.Context, status string, page, pageSize int) ([]*model.Consultation, int64, error) {
	items, total, err := s.contactDao.ListConsultations(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return items, total, nil
}

type UpdateConsultationRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

func (s *ContactService) UpdateConsultation(ctx context.Context, id string, req *UpdateConsultationRequest) (*model.Consultation, error) {
	updates := map[string]interface{}{}
	if req.Status != "" {
		updates["status"] = req.Status
		if req.Status == "confirmed" {
			updates["confirmation_sent"] = true
		}
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if len(updates) == 0 {
		return nil, e.Validation("no updates supplied")
	}

	rows, err := s.contactDao.UpdateConsultation(ctx, id, updates)
	if err != nil {
		return nil, e.Internal(err)
	}
	if rows == 0 {
		return nil, e.NotFound("consultation")
	}

	c, err := s.contactDao.GetConsultationByID(ctx, id)
	if err != nil {
		return nil, e.Internal(err)
	}
	if req.Status == "confirmed" {
		s.mail.Send(c.Email, "Consultation confirmed",
			"<p>Your consultation on "+c.PreferredDate.Format("2006-01-02")+" at "+c.PreferredTime+" is confirmed.</p>")
	}
	return c, nil
}

func (s *ContactService) DeleteConsultation(ctx context.Context, id string) error {
	rows, err := s.contactDao.DeleteConsultation(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("consultation")
	}
	return nil
}

// ---- newsletter ----

// Subscribe adds an email to the newsletter, reactivating a previously
// unsubscribed address.
func (s *ContactService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return e.Validation("invalid email address")
	}

	existing, err := s.contactDao.GetSubscriberByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsSubscribed {
			return nil
		}
		return e.Wrap(s.contactDao.UpdateSubscriber(ctx, existing.ID, map[string]interface{}{
			"is_subscribed":   true,
			"unsubscribed_at": nil,
		}))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.Wrap(s.contactDao.CreateSubscriber(ctx, &model.NewsletterSubscriber{
			Email:        email,
			IsSubscribed: true,
		}))
	default:
		return e.Internal(err)
	}
}

// Unsubscribe is idempotent; an unknown address succeeds silently so the
// endpoint does not leak the subscriber list.
func (s *ContactService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.contactDao.GetSubscriberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return e.Internal(err)
	}
	if !existing.IsSubscribed {
		return nil
	}
	return e.Wrap(s.contactDao.UpdateSubscriber(ctx, existing.ID, map[string]interface{}{
		"is_subscribed":   false,
		"unsubscribed_at": time.Now(),
	}))
}

func (s *ContactService) ListSubscribers(ctx context.Context, subscribedOnly bool, page, pageSize int) ([]*model.NewsletterSubscriber, int64, error) {
	subs, total, err := s.contactDao.ListSubscribers(ctx, subscribedOnly, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return subs, total, nil
}
