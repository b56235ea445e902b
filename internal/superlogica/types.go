package superlogica

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts JSON strings, numbers and null. The API returns ids
// and amounts either way depending on the endpoint.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// Booleans and nested values are kept as raw text.
			*f = FlexString(data)
			return nil
		}
		*f = FlexString(n.String())
		return nil
	}
}

// String returns the value as a Go string.
func (f FlexString) String() string {
	return string(f)
}

// Float parses the value as a decimal, accepting "1234.56" and "1234,56".
func (f FlexString) Float() (float64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses the value as an integer, 0 when empty or invalid.
func (f FlexString) Int() int {
	v, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return v
}

// Unit is an entry of /unidades/index with contacts expanded.
type Unit struct {
	CondominiumID   FlexString `json:"id_condominio_cond"`
	CondominiumName FlexString `json:"st_nome_cond"`
	UnitID          FlexString `json:"id_unidade_uni"`
	Number          FlexString `json:"st_unidade_uni"`
	Block           FlexString `json:"st_bloco_uni"`
	Contacts        []Contact  `json:"contatos"`
}

// Contact is a person attached to a unit.
type Contact struct {
	Name  FlexString `json:"st_nome_con"`
	Email FlexString `json:"st_email_con"`
}

// Emails splits the ';'-separated email field, normalised to lower case.
func (c Contact) Emails() []string {
	var emails []string
	for _, part := range strings.Split(string(c.Email), ";") {
		if email := strings.ToLower(strings.TrimSpace(part)); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// ListsEmail reports whether any contact of the unit lists email.
func (u Unit) ListsEmail(email string) bool {
	for _, contact := range u.Contacts {
		for _, candidate := range contact.Emails() {
			if candidate == email {
				return true
			}
		}
	}
	return false
}

// Charge is an entry of /cobranca/index.
type Charge struct {
	ID             FlexString `json:"id_recebimento_recb"`
	Status         FlexString `json:"fl_status_recb"`
	Situation      FlexString `json:"situacao"`
	DueDate        FlexString `json:"dt_vencimento_recb"`
	Total          FlexString `json:"vl_total_recb"`
	SecondCopyLink FlexString `json:"link_segundavia"`
}

// ChargeStatusPaid is the fl_status_recb of a settled charge.
const (
	ChargeStatusPaid    = "3"
	ChargeSituationPaid = "Liquidado"
)

// Paid reports whether the charge was settled.
func (c Charge) Paid() bool {
	return c.Status == ChargeStatusPaid || c.Situation == ChargeSituationPaid
}

// AreaBookings is a reservable area with its bookings, as returned by
// /reservas/areasreservas.
type AreaBookings struct {
	AreaID             FlexString `json:"id_area_are"`
	AreaName           FlexString `json:"st_nome_are"`
	MinCancelDaysAhead FlexString `json:"nm_antecedenciaminimacancelamento_are"`
	Bookings           []Booking  `json:"reservas"`
}

// Booking is a single amenity booking.
type Booking struct {
	ID     FlexString `json:"id_reserva_res"`
	Date   FlexString `json:"dt_reserva_res"`
	Status FlexString `json:"fl_status_res"`
	Queue  FlexString `json:"nm_fila_res"`
	UnitID FlexString `json:"id_unidade_uni"`
}

// NewBooking is the form sent to create a booking.
type NewBooking struct {
	CondominiumID string
	UnitID        string
	AreaID        string
	// Date is formatted MM/DD/YYYY.
	Date string
}

// Cancellation is the form sent to cancel a booking.
type Cancellation struct {
	CondominiumID string
	BookingID     string
	AreaID        string
	Reason        string
}
