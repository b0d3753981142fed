package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bundle-configurator/models"
)

func TestCartClientAdd(t *testing.T) {
	var got models.CartAddRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/add" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewCartClient(srv.URL+"/", time.Second, nil)
	req := models.CartAddRequest{
		Items:    []models.CartLineRequest{{ID: "V1", Quantity: 1}, {ID: "I1", Quantity: 3}},
		Sections: []string{"cart-icon"},
	}
	result, err := client.Add(context.Background(), req)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !result.Success {
		t.Errorf("Add() success = false, want true")
	}
	if len(got.Items) != 2 || got.Items[1].ID != "I1" || got.Items[1].Quantity != 3 {
		t.Errorf("server saw %+v", got.Items)
	}
	if len(got.Sections) != 1 || got.Sections[0] != "cart-icon" {
		t.Errorf("server saw sections %v", got.Sections)
	}
}

func TestCartClientAddFailureBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status": 422, "message": "Cart Error", "description": "Variant not available due to inventory"}`))
	}))
	defer srv.Close()

	result, err := NewCartClient(srv.URL, time.Second, nil).Add(context.Background(), models.CartAddRequest{})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if result.Success {
		t.Fatal("Add() success = true, want false")
	}
	if result.Error.Text() != "Variant not available due to inventory" {
		t.Errorf("error text = %q", result.Error.Text())
	}
}

func TestCartClientAddUnreadableFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	if _, err := NewCartClient(srv.URL, time.Second, nil).Add(context.Background(), models.CartAddRequest{}); err == nil {
		t.Error("Add() with an HTML error page should return an error")
	}
}

func TestCartClientRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/cart" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"item_count": 3, "items": [{"id": "V1", "title": "Trail Frame", "quantity": 1, "price": 5000, "line_price": 5000}]}`))
	}))
	defer srv.Close()

	cart, err := NewCartClient(srv.URL, time.Second, nil).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cart.ItemCount != 3 || len(cart.Items) != 1 || cart.Items[0].LinePrice != 5000 {
		t.Errorf("Read() = %+v", cart)
	}
}

func TestCartClientReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"malformed body", http.StatusOK, `{"item_count": "many"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewCartClient(srv.URL, time.Second, nil).Read(context.Background()); err == nil {
				t.Error("Read() should fail")
			}
		})
	}
}

func TestCartClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewCartClient(url, time.Second, nil).Add(context.Background(), models.CartAddRequest{}); err == nil {
		t.Error("Add() against a closed server should fail")
	}
}
