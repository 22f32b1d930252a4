package service

import (
	"context"
	"testing"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactService(t *testing.T) *ContactService {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&model.ContactMessage{},
		&model.Consultation{},
		&model.NewsletterSubscriber{},
	))
	return NewContactService(dao.NewContactDao(db), newTestNotifier(db), mailer.NewMailer(config.SMTPConfig{}))
}

func TestDeleteConsultation(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	booking, err := svc.BookConsultation(ctx, &ConsultationRequest{
		Name:             "Asha",
		Email:            "asha@example.com",
		ConsultationType: "custom_design",
		PreferredDate:    time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		PreferredTime:    "10:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConsultation(ctx, booking.ID))

	items, total, err := svc.ListConsultations(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	err = svc.DeleteConsultation(ctx, booking.ID)
	assert.True(t, e.IsKind(err, e.KindNotFound))
}
