package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingFixture(t *testing.T) (*BookingService, *fakeUpstream) {
	t.Helper()
	cipher := newCipher(t)
	tenants := NewTenantService(newFakeTenants(sealedTenant(t, cipher, 1, "acme")), cipher)
	upstream := &fakeUpstream{}
	return NewBookingService(tenants, upstream, clockwork.NewFakeClockAt(invoiceNow)), upstream
}

func TestBookingService_Areas(t *testing.T) {
	svc, upstream := newBookingFixture(t)
	upstream.areas = []json.RawMessage{json.RawMessage(`{"id_area_are":"3"}`)}
	claims := testClaims(magiclink.ActionReservas, unitSol)

	areas, err := svc.Areas(context.Background(), claims, &model.AreasRequest{CondominiumID: "12"})
	require.NoError(t, err)
	assert.Len(t, areas, 1)

	_, err = svc.Areas(context.Background(), claims, &model.AreasRequest{CondominiumID: "99"})
	requireHTTPError(t, err, http.StatusForbidden, msgCondominiumForbidden)
}

func TestBookingService_AreaBookingsDefaultsToFirstCondominium(t *testing.T) {
	svc, upstream := newBookingFixture(t)
	upstream.areaBookings = json.RawMessage(`[]`)

	data, err := svc.AreaBookings(context.Background(), testClaims(magiclink.ActionReservas, unitLua, unitSol),
		&model.AreaBookingsRequest{AreaID: "3"})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
	assert.Equal(t, "15", upstream.areaCondo)
}

func TestBookingService_MyBookings(t *testing.T) {
	svc, upstream := newBookingFixture(t)
	upstream.condoBookings = []superlogica.AreaBookings{
		{
			AreaID:             "3",
			AreaName:           "Salão de Festas",
			MinCancelDaysAhead: "2",
			Bookings: []superlogica.Booking{
				{ID: "a", Date: "07/01/2024 00:00:00", Status: "1", UnitID: "340"},
				{ID: "b", Date: "07/05/2024", Status: "0", UnitID: "999"},
			},
		},
		{
			AreaID: "4",
			Bookings: []superlogica.Booking{
				{ID: "c", Date: "08/10/2024", Status: "0", Queue: "1", UnitID: "341"},
				{ID: "d", Date: "06/01/2024", Status: "1", UnitID: "340"},
			},
		},
	}

	bookings, err := svc.MyBookings(context.Background(), testClaims(magiclink.ActionReservas, unitSol, unitSol2, unitLua),
		&model.MyBookingsRequest{CondominiumID: "12"})
	require.NoError(t, err)

	require.Len(t, bookings, 3)
	assert.Equal(t, []string{"c", "a", "d"}, []string{bookings[0].ID, bookings[1].ID, bookings[2].ID})

	assert.Equal(t, model.MyBooking{
		ID: "c", Date: "08/10/2024", Status: "0", Queue: "1", UnitID: "341",
		AreaName: unknownAreaName, AreaID: "4", CancellationDays: 0,
	}, bookings[0])
	assert.Equal(t, "Salão de Festas", bookings[1].AreaName)
	assert.Equal(t, 2, bookings[1].CancellationDays)
	assert.Equal(t, "", bookings[1].Queue)
}

func TestBookingService_MyBookingsEmpty(t *testing.T) {
	svc, _ := newBookingFixture(t)

	bookings, err := svc.MyBookings(context.Background(), testClaims(magiclink.ActionReservas, unitSol),
		&model.MyBookingsRequest{CondominiumID: "12"})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func bookingRequest(date, rule string) *model.BookingRequest {
	return &model.BookingRequest{
		AreaID:          "3",
		CondominiumID:   "12",
		UnitID:          "340",
		Date:            date,
		BlockDelinquent: model.Text(rule),
	}
}

func TestBookingService_Request(t *testing.T) {
	claims := testClaims(magiclink.ActionReservas, unitSol)

	t.Run("creates unconfirmed booking", func(t *testing.T) {
		svc, upstream := newBookingFixture(t)

		resp, err := svc.Request(context.Background(), claims, bookingRequest("2024-07-20", "0"))
		require.NoError(t, err)
		assert.Equal(t, msgBookingRequested, resp.Message)
		assert.JSONEq(t, `{"status":"200"}`, string(resp.Data))

		assert.Zero(t, upstream.delinquencies)
		assert.Equal(t, &superlogica.NewBooking{
			CondominiumID: "12", UnitID: "340", AreaID: "3", Date: "07/20/2024",
		}, upstream.created)
	})

	t.Run("accepts timestamps", func(t *testing.T) {
		svc, upstream := newBookingFixture(t)

		_, err := svc.Request(context.Background(), claims, bookingRequest("2024-07-20T00:00:00.000Z", "0"))
		require.NoError(t, err)
		assert.Equal(t, "07/20/2024", upstream.created.Date)
	})

	t.Run("checks delinquency when the rule is on", func(t *testing.T) {
		svc, upstream := newBookingFixture(t)

		_, err := svc.Request(context.Background(), claims, bookingRequest("2024-07-20", "1"))
		require.NoError(t, err)
		assert.Equal(t, 1, upstream.delinquencies)
		assert.Equal(t, invoiceNow, upstream.delinquencyAt)
	})

	t.Run("delinquent unit is blocked", func(t *testing.T) {
		svc, upstream := newBookingFixture(t)
		upstream.delinquent = true

		_, err := svc.Request(context.Background(), claims, bookingRequest("2024-07-20", "1"))
		requireHTTPError(t, err, http.StatusForbidden, msgBookingDelinquent)
		assert.Nil(t, upstream.created)
	})

	t.Run("unit outside claim", func(t *testing.T) {
		svc, upstream := newBookingFixture(t)
		req := bookingRequest("2024-07-20", "0")
		req.UnitID = "341"

		_, err := svc.Request(context.Background(), claims, req)
		requireHTTPError(t, err, http.StatusForbidden, msgUnitForbidden)
		assert.Nil(t, upstream.created)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, _ := newBookingFixture(t)

		_, err := svc.Request(context.Background(), claims, bookingRequest("amanhã", "0"))
		requireHTTPError(t, err, http.StatusBadRequest, msgInvalidBookingDate)
	})
}

func TestParseBookingDate(t *testing.T) {
	want := time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-07-20", "2024-07-20T00:00:00Z", "2024-07-20T00:00:00", "20/07/2024"} {
		got, ok := parseBookingDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	claims := testClaims(magiclink.ActionReservas, unitSol)
	req := &model.CancelBookingRequest{CondominiumID: "12", BookingID: "55", AreaID: "3", Reason: "viagem"}

	svc, upstream := newBookingFixture(t)
	resp, err := svc.Cancel(context.Background(), claims, req)
	require.NoError(t, err)
	assert.Equal(t, msgBookingCancelled, resp.Message)
	assert.Equal(t, &superlogica.Cancellation{CondominiumID: "12", BookingID: "55", AreaID: "3", Reason: "viagem"}, upstream.cancelled)

	other := *req
	other.CondominiumID = "15"
	_, err = svc.Cancel(context.Background(), claims, &other)
	requireHTTPError(t, err, http.StatusForbidden, msgCondominiumForbidden)
}

func TestSession(t *testing.T) {
	claims := testClaims(magiclink.ActionReservas, unitSol)

	resp := Session(claims)
	assert.Equal(t, "acme", resp.Subdomain)
	assert.Equal(t, "reservas", resp.Action)
	assert.Equal(t, []model.SessionUnit{{CondominiumID: "12", CondominiumName: "Residencial Sol", UnitID: "340", Label: "101 A"}}, resp.Units)
	assert.True(t, resp.ExpiresAt.IsZero())
}
