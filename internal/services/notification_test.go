package services

import (
	"context"
	"testing"

	"github.com/teranga-editions/platform/internal/models"
)

func TestNotificationList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	user := createUser(t, db, "client@test", models.RoleClient)
	other := createUser(t, db, "other@test", models.RoleClient)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: user.ID, Type: models.NotificationOrderStatus, Title: "order_status_changed"}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}
	db.Create(&models.Notification{UserID: other.ID, Type: models.NotificationOrderStatus, Title: "order_status_changed"})

	notifications, unread, err := svc.List(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notifications) != 3 {
		t.Errorf("len = %d, want 3", len(notifications))
	}
	if unread != 3 {
		t.Errorf("unread = %d, want 3", unread)
	}
}

func TestNotificationMarkRead_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	user := createUser(t, db, "client@test", models.RoleClient)
	other := createUser(t, db, "other@test", models.RoleClient)
	ctx := context.Background()

	mine := models.Notification{UserID: user.ID, Type: models.NotificationOrderStatus, Title: "t"}
	theirs := models.Notification{UserID: other.ID, Type: models.NotificationOrderStatus, Title: "t"}
	db.Create(&mine)
	db.Create(&theirs)

	updated, err := svc.MarkRead(ctx, user.ID, []uint{mine.ID, theirs.ID})
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (foreign id ignored)", updated)
	}

	var reloaded models.Notification
	db.First(&reloaded, theirs.ID)
	if reloaded.Read {
		t.Error("someone else's notification must stay unread")
	}

	if n, err := svc.MarkRead(ctx, user.ID, nil); err != nil || n != 0 {
		t.Errorf("empty ids: (%d, %v), want (0, nil)", n, err)
	}
}
