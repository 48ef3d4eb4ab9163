package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/kasanda/chuo/core/notification"
	"github.com/kasanda/chuo/core/user"
	testutil "github.com/kasanda/chuo/tests"
)

func Test_notificationApi(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, env.usrRepo, "moi@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	other := testutil.CreateUser(t, env.usrRepo, "autre@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	token := env.getToken(t, usr)
	otherToken := env.getToken(t, other)

	first, err := env.notifSvc.Notify(ctx, usr.ID, "Bienvenue", "Votre compte a été créé.", notification.TypeInfo)
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}
	second, err := env.notifSvc.Notify(ctx, usr.ID, "Inscription approuvée", "Votre inscription a été approuvée.", notification.TypeSuccess)
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	t.Run("auth required", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/api/notifications",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		}
		checkCodeAndData(t, tt, env.do(tt))
	})

	t.Run("own notifications, newest first", func(t *testing.T) {
		rec := env.do(httpTest{method: http.MethodGet, path: "/api/notifications", token: token})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var notifs []notification.Notification
		unmarchallObj(t, rec.Body.Bytes(), &notifs)
		if len(notifs) != 2 {
			t.Fatalf("len(notifications) = %d; want 2", len(notifs))
		}
		if notifs[0].ID != second.ID || notifs[1].ID != first.ID {
			t.Errorf("order = [%s %s]; want [%s %s]", notifs[0].ID, notifs[1].ID, second.ID, first.ID)
		}
	})

	t.Run("empty inbox", func(t *testing.T) {
		rec := env.do(httpTest{method: http.MethodGet, path: "/api/notifications", token: otherToken})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var notifs []notification.Notification
		unmarchallObj(t, rec.Body.Bytes(), &notifs)
		if len(notifs) != 0 {
			t.Errorf("len(notifications) = %d; want 0", len(notifs))
		}
	})

	t.Run("mark read", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPatch, path: "/api/notifications/" + first.ID + "/read", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Notification marked as read"}),
		}
		checkCodeAndData(t, tt, env.do(tt))

		notifs, err := env.notifRepo.QueryUserNotifications(ctx, usr.ID)
		if err != nil {
			t.Fatalf("QueryUserNotifications() failed: %v", err)
		}
		for _, n := range notifs {
			if n.ID == first.ID && !n.Read {
				t.Error("notification was not marked read")
			}
		}
	})

	t.Run("someone else's notification reads as missing", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPatch, path: "/api/notifications/" + second.ID + "/read", token: otherToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		checkCodeAndData(t, tt, env.do(tt))
	})

	t.Run("unknown notification", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPatch, path: "/api/notifications/nope/read", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		checkCodeAndData(t, tt, env.do(tt))
	})
}
