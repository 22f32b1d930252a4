package service

import (
	"context"
	"fmt"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
)

// Notifier fans storefront events out to every admin account as inbox
// notifications, plus a summary email to the staff address. Failures are
// logged and never propagate to the triggering request.
type Notifier struct {
	userDao  *dao.UserDao
	adminDao *dao.AdminDao
	mail     *mailer.Mailer
}

func NewNotifier(userDao *dao.UserDao, adminDao *dao.AdminDao, mail *mailer.Mailer) *Notifier {
	return &Notifier{userDao: userDao, adminDao: adminDao, mail: mail}
}

func (n *Notifier) NewOrder(ctx context.Context, order *model.Order) {
	n.fanOut(ctx, "new_order",
		"New order received",
		fmt.Sprintf("Order %s was placed for %s %.2f.", order.OrderNumber, order.Currency, order.Total),
		"/admin/orders/"+order.ID)
	n.mail.SendToAdmin(
		fmt.Sprintf("New order %s", order.OrderNumber),
		fmt.Sprintf("<p>A new order <strong>%s</strong> was placed for %s %.2f.</p>",
			order.OrderNumber, order.Currency, order.Total))
}

func (n *Notifier) NewContactMessage(ctx context.Context, msg *model.ContactMessage) {
	n.fanOut(ctx, "new_contact",
		"New contact message",
		fmt.Sprintf("%s sent a %s inquiry.", msg.Name, msg.Category),
		"/admin/messages/"+msg.ID)
	n.mail.SendToAdmin(
		"New contact message",
		fmt.Sprintf("<p><strong>%s</strong> (%s) sent a %s inquiry:</p><p>%s</p>",
			msg.Name, msg.Email, msg.Category, msg.Message))
}

func (n *Notifier) NewConsultation(ctx context.Context, c *model.Consultation) {
	n.fanOut(ctx, "new_consultation",
		"New consultation request",
		fmt.Sprintf("%s requested a %s consultation.", c.Name, c.ConsultationType),
		"/admin/consultations/"+c.ID)
	n.mail.SendToAdmin(
		"New consultation request",
		fmt.Sprintf("<p><strong>%s</strong> (%s) requested a %s consultation on %s at %s.</p>",
			c.Name, c.Email, c.ConsultationType, c.PreferredDate.Format("2006-01-02"), c.PreferredTime))
}

func (n *Notifier) NewReview(ctx context.Context, review *model.Review) {
	n.fanOut(ctx, "new_review",
		"New review awaiting moderation",
		fmt.Sprintf("A %d-star review was submitted.", review.Rating),
		"/admin/reviews/"+review.ID)
}

func (n *Notifier) LowStock(ctx context.Context, product *model.Product) {
	n.fanOut(ctx, "low_stock",
		"Low stock alert",
		fmt.Sprintf("%s is down to %d units.", product.Name, product.StockQuantity),
		"/admin/products/"+product.ID)
}

func (n *Notifier) fanOut(ctx context.Context, notifType, title, message, link string) {
	admins, err := n.userDao.ListAdmins(ctx)
	if err != nil {
		logger.Error("notification fan-out failed", "type", notifType, "error", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	notifications := make([]*model.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, &model.Notification{
			UserID:  admin.ID,
			Type:    notifType,
			Title:   title,
			Message: message,
			Link:    link,
		})
	}
	if err := n.adminDao.CreateNotifications(ctx, notifications); err != nil {
		logger.Error("failed to store notifications", "type", notifType, "error", err)
	}
}
