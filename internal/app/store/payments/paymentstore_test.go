package paymentstore_test

import (
	"net/http"
	"strings"
	"testing"

	paymentstore "github.com/dalemusser/clubsphere/internal/app/store/payments"
	"github.com/dalemusser/clubsphere/internal/domain/models"
	"github.com/dalemusser/clubsphere/internal/testutil"
)

func TestStore_CreateIntent(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := paymentstore.New(be.Client(), testutil.NewQueryCache(t))
	member := be.AddUser("Member", "member@test.com", models.RoleMember)

	secret, err := store.CreateIntent(member.Context(), models.PaymentInfo{Amount: 20, Type: models.PaymentMembership, ClubID: "c1"})
	if err != nil {
		t.Fatalf("CreateIntent failed: %v", err)
	}
	if !strings.Contains(secret, "_secret_") {
		t.Errorf("unexpected client secret %q", secret)
	}
}

func TestStore_RecordPaymentRefreshesMine(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := paymentstore.New(be.Client(), testutil.NewQueryCache(t))
	member := be.AddUser("Member", "member@test.com", models.RoleMember)
	ctx := member.Context()

	mine, err := store.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected no payments")
	}

	err = store.RecordPayment(ctx, models.PaymentRecord{
		PaymentIntentID: "pi_1", Amount: 20, Type: models.PaymentEvent, ClubID: "c1", EventID: "e1",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	mine, err = store.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	if len(mine) != 1 || mine[0].PaymentIntentID != "pi_1" || mine[0].EventID.String() != "e1" {
		t.Errorf("unexpected payments: %+v", mine)
	}
}

func TestStore_RecordPaymentFailure(t *testing.T) {
	be := testutil.NewFakeBackend(t)
	store := paymentstore.New(be.Client(), testutil.NewQueryCache(t))
	member := be.AddUser("Member", "member@test.com", models.RoleMember)
	be.FailOn(http.MethodPost, "/payments/confirm", http.StatusInternalServerError, "db down")

	if err := store.RecordPayment(member.Context(), models.PaymentRecord{PaymentIntentID: "pi_1", Amount: 5}); err == nil {
		t.Fatal("expected error")
	}
	if len(be.Payments()) != 0 {
		t.Error("nothing should be recorded")
	}
}
