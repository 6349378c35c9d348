package stalld

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"webstall/internal/model"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InsertProduct(ctx, model.Item{
		ID: "a", Title: "Cheap", Category: model.CategoryOther, Price: model.PriceOf(100),
	}, 0))
	require.NoError(t, store.InsertProduct(ctx, model.Item{
		ID: "b", Title: "Priceless", Category: model.CategoryButton,
	}, 1))
	require.NoError(t, store.InsertProduct(ctx, model.Item{
		ID: "c", Title: "Pricey", Category: model.CategoryHardSkill, Price: model.PriceOf(250),
	}, 2))

	srv := httptest.NewServer(NewServer(store).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func postOrder(t *testing.T, srv *httptest.Server, req orderRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/order", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func validOrder() orderRequest {
	return orderRequest{
		Payment: "card",
		Address: "1 Main St",
		Email:   "a@b.c",
		Phone:   "+1234567",
		Total:   350,
		Items:   []string{"a", "c"},
	}
}

func TestListProducts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/product")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got listResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, 3, got.Total)
	require.Len(t, got.Items, 3)
	require.Equal(t, "a", got.Items[0].ID)
	require.Nil(t, got.Items[1].Price)
}

func TestGetProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/product/a")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "Cheap", got.Title)

	resp, err = http.Get(srv.URL + "/api/product/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaceOrderAccepted(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postOrder(t, srv, validOrder())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got orderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotEmpty(t, got.ID)
	require.Equal(t, int64(350), got.Total)

	n, err := store.OrderCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestPlaceOrderRejections(t *testing.T) {
	srv, store := newTestServer(t)

	tests := []struct {
		name    string
		mutate  func(*orderRequest)
		wantErr string
	}{
		{"missing payment", func(r *orderRequest) { r.Payment = "" }, "payment method is required"},
		{"bogus payment", func(r *orderRequest) { r.Payment = "barter" }, "payment method is required"},
		{"missing address", func(r *orderRequest) { r.Address = "" }, "address is required"},
		{"missing email", func(r *orderRequest) { r.Email = "" }, "email is required"},
		{"missing phone", func(r *orderRequest) { r.Phone = "" }, "phone is required"},
		{"no items", func(r *orderRequest) { r.Items = nil }, "order has no items"},
		{"unknown item", func(r *orderRequest) { r.Items = []string{"zzz"}; r.Total = 100 }, "unknown item zzz"},
		{"duplicate item", func(r *orderRequest) { r.Items = []string{"a", "a"}; r.Total = 200 }, "duplicate item a"},
		{"priceless item", func(r *orderRequest) { r.Items = []string{"b"}; r.Total = 0 }, "item b cannot be purchased"},
		{"total mismatch", func(r *orderRequest) { r.Total = 999 }, "total mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrder()
			tt.mutate(&req)
			resp := postOrder(t, srv, req)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			require.Equal(t, tt.wantErr, got["error"])
		})
	}

	n, err := store.OrderCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n, "rejected orders must not be recorded")
}

func TestPlaceOrderMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/order", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
