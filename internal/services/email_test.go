package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sedesupport/internal/domain"
)

func TestEmailService_SendVisitReminder(t *testing.T) {
	t.Run("renders and sends", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, fakeRenderer{}, testLogger())

		err := svc.SendVisitReminder(context.Background(), &domain.VisitReminderEmailData{
			Email:     "ana@example.com",
			Reference: "VIS-ABCDEF12",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ana@example.com"}, mailer.sent)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, fakeRenderer{}, testLogger())
		err := svc.SendVisitReminder(context.Background(), nil)
		require.Error(t, err)
	})
}
