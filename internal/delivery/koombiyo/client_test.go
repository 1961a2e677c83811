package koombiyo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	})
}

func TestAddOrder(t *testing.T) {
	var gotForm map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Addorders/users", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"apikey":           r.PostFormValue("apikey"),
			"orderWaybillid":   r.PostFormValue("orderWaybillid"),
			"orderNo":          r.PostFormValue("orderNo"),
			"receiverName":     r.PostFormValue("receiverName"),
			"receiverCity":     r.PostFormValue("receiverCity"),
			"receiverDistrict": r.PostFormValue("receiverDistrict"),
			"getCod":           r.PostFormValue("getCod"),
		}
		w.Write([]byte(`{"status":"success","note":"Order added"}`))
	})

	err := client.AddOrder(context.Background(), &AddOrderInput{
		WaybillID:     "KB123",
		OrderNumber:   "RB-ABCD1234",
		ReceiverName:  "Nimali Perera",
		ReceiverPhone: "0771234567",
		Address:       "12 Galle Rd",
		CityID:        864,
		DistrictID:    5,
		CODAmount:     "4250.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotForm["apikey"])
	assert.Equal(t, "KB123", gotForm["orderWaybillid"])
	assert.Equal(t, "RB-ABCD1234", gotForm["orderNo"])
	assert.Equal(t, "864", gotForm["receiverCity"])
	assert.Equal(t, "5", gotForm["receiverDistrict"])
	assert.Equal(t, "4250.00", gotForm["getCod"])
}

func TestAddOrderRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","note":"invalid city"}`))
	})

	err := client.AddOrder(context.Background(), &AddOrderInput{WaybillID: "KB123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid city")
}

func TestAddOrderHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.AddOrder(context.Background(), &AddOrderInput{WaybillID: "KB123"})
	assert.Error(t, err)
}

func TestDistrictsAndCities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Districts/users":
			w.Write([]byte(`[{"id":"1","district_name":"Colombo"},{"id":"2","district_name":"Gampaha"}]`))
		case "/Cities/users":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "1", r.PostFormValue("district_id"))
			w.Write([]byte(`[{"id":"864","city_name":"Dehiwala"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	districts, err := client.Districts(context.Background())
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, int64(1), districts[0].ID)
	assert.Equal(t, "Colombo", districts[0].Name)

	cities, err := client.Cities(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, int64(864), cities[0].ID)
	assert.Equal(t, "Dehiwala", cities[0].Name)
}

func TestTrack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Ordertracking/users", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "KB123", r.PostFormValue("waybillid"))
		w.Write([]byte(`[{"waybill_id":"KB123","status":"Delivered","note":"Handed over","timestamp":"2026-08-30 14:05"}]`))
	})

	entries, err := client.Track(context.Background(), "KB123")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Delivered", entries[0].Status)
}
