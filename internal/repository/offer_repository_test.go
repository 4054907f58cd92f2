package repository

import (
	"strings"
	"testing"

	"github.com/localmarket/offers-service/internal/domain"
)

func origin(t *testing.T) domain.GeoPoint {
	t.Helper()
	p, err := domain.NewGeoPoint(-2.935, 43.263)
	if err != nil {
		t.Fatalf("bad test origin: %v", err)
	}
	return p
}

func TestNearbyQuery_BaseOnly(t *testing.T) {
	query, args := nearbyQuery(NearbyFilter{Origin: origin(t)})

	if !strings.Contains(query, "o.end_date > NOW()") {
		t.Error("active-offers base predicate missing")
	}
	if strings.Contains(query, "ST_DWithin") {
		t.Error("radius predicate present without a radius")
	}
	if strings.Contains(query, "o.category =") {
		t.Error("category predicate present without a category")
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args (origin only), got %d", len(args))
	}
	if args[0] != -2.935 || args[1] != 43.263 {
		t.Errorf("origin args wrong order: %v", args)
	}
}

func TestNearbyQuery_RadiusClause(t *testing.T) {
	meters := 5000.0
	query, args := nearbyQuery(NearbyFilter{Origin: origin(t), RadiusMeters: &meters})

	if !strings.Contains(query, "ST_DWithin(o.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)") {
		t.Errorf("radius predicate missing or misnumbered:\n%s", query)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[2] != 5000.0 {
		t.Errorf("expected radius arg in meters 5000, got %v", args[2])
	}
}

func TestNearbyQuery_CategoryClause(t *testing.T) {
	category := "electronics"
	query, args := nearbyQuery(NearbyFilter{Origin: origin(t), Category: &category})

	if !strings.Contains(query, "o.category = $3") {
		t.Errorf("category predicate missing or misnumbered:\n%s", query)
	}
	if args[2] != "electronics" {
		t.Errorf("expected category arg, got %v", args[2])
	}
}

func TestNearbyQuery_FiltersComposeConjunctively(t *testing.T) {
	meters := 1000.0
	category := "food"
	query, args := nearbyQuery(NearbyFilter{Origin: origin(t), RadiusMeters: &meters, Category: &category})

	wherePos := strings.Index(query, "WHERE")
	orderPos := strings.Index(query, "ORDER BY")
	if wherePos < 0 || orderPos < 0 || wherePos > orderPos {
		t.Fatalf("malformed query:\n%s", query)
	}
	where := query[wherePos:orderPos]
	if strings.Count(where, " AND ") != 2 {
		t.Errorf("expected base AND radius AND category, got:\n%s", where)
	}
	if !strings.Contains(where, "ST_DWithin") || !strings.Contains(where, "o.category = $4") {
		t.Errorf("clauses missing or misnumbered:\n%s", where)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	if args[2] != 1000.0 || args[3] != "food" {
		t.Errorf("filter args misplaced: %v", args)
	}
}

func TestNearbyQuery_StableDistanceOrdering(t *testing.T) {
	query, _ := nearbyQuery(NearbyFilter{Origin: origin(t)})
	if !strings.Contains(query, "ORDER BY distance ASC, o.offer_id ASC") {
		t.Errorf("expected distance-ascending order with id tie-break:\n%s", query)
	}
}

func TestNearbyQuery_JoinsSellerName(t *testing.T) {
	query, _ := nearbyQuery(NearbyFilter{Origin: origin(t)})
	if !strings.Contains(query, "JOIN users u ON o.seller_id = u.user_id") {
		t.Errorf("seller join missing:\n%s", query)
	}
	if !strings.Contains(query, "ST_Distance(o.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)") {
		t.Errorf("distance projection missing:\n%s", query)
	}
}
