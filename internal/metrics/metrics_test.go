package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSourceSearch(t *testing.T) {
	before := testutil.ToFloat64(SourceConcertsReturned.WithLabelValues("ticketmaster"))
	RecordSourceSearch("ticketmaster", 12, 150*time.Millisecond, nil)
	after := testutil.ToFloat64(SourceConcertsReturned.WithLabelValues("ticketmaster"))
	assert.Equal(t, before+12, after)

	errBefore := testutil.ToFloat64(SourceSearchErrors.WithLabelValues("seatgeek"))
	RecordSourceSearch("seatgeek", 0, 2*time.Second, errors.New("upstream down"))
	errAfter := testutil.ToFloat64(SourceSearchErrors.WithLabelValues("seatgeek"))
	assert.Equal(t, errBefore+1, errAfter)

	// A failed search must not count returned concerts.
	returned := testutil.ToFloat64(SourceConcertsReturned.WithLabelValues("seatgeek"))
	assert.Zero(t, returned)
}

func TestRecordCacheHitMiss(t *testing.T) {
	hitsBefore := testutil.ToFloat64(CacheHits.WithLabelValues("concerts"))
	RecordCacheHit("concerts")
	RecordCacheHit("concerts")
	RecordCacheMiss("concerts")
	assert.Equal(t, hitsBefore+2, testutil.ToFloat64(CacheHits.WithLabelValues("concerts")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/concerts", "200"))
	RecordAPIRequest("GET", "/api/v1/concerts", 200, 25*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/concerts", "200")))
}

func TestRecordLineupReload(t *testing.T) {
	okBefore := testutil.ToFloat64(LineupReloads.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(LineupReloads.WithLabelValues("error"))

	RecordLineupReload(nil)
	RecordLineupReload(errors.New("parse failed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(LineupReloads.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(LineupReloads.WithLabelValues("error")))
}

func TestRecordItinerary(t *testing.T) {
	before := testutil.ToFloat64(ItinerariesGenerated.WithLabelValues("group"))
	RecordItinerary("group", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(ItinerariesGenerated.WithLabelValues("group")))
}

func TestRecordAuthFailure(t *testing.T) {
	before := testutil.ToFloat64(AuthFailures.WithLabelValues("bad_credentials"))
	RecordAuthFailure("bad_credentials")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthFailures.WithLabelValues("bad_credentials")))
}
