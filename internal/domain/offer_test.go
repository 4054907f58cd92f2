package domain_test

import (
	"testing"
	"time"

	"github.com/localmarket/offers-service/internal/domain"
)

func TestOffer_Active(t *testing.T) {
	end := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	offer := domain.Offer{EndDate: end}

	if !offer.Active(end.Add(-time.Second)) {
		t.Error("offer must be active before its end date")
	}
	if offer.Active(end) {
		t.Error("offer must be inactive exactly at its end date")
	}
	if offer.Active(end.Add(time.Second)) {
		t.Error("offer must be inactive after its end date")
	}
}
