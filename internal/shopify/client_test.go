package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient points a Client at a stub GraphQL endpoint.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		endpoint: srv.URL,
		token:    "shpat_test",
		http:     &http.Client{Timeout: 2 * time.Second},
	}
}

// decodeRequest pulls the GraphQL request body out of an incoming call.
func decodeRequest(t *testing.T, r *http.Request) gqlRequest {
	t.Helper()
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

func TestFindOrderByName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("access token header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		req := decodeRequest(t, r)
		if !strings.Contains(req.Query, "orders(first: 1") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		if q := req.Variables["q"]; q != "name:*1592" {
			t.Errorf("filter variable = %v, want name:*1592", q)
		}
		_, _ = w.Write([]byte(`{"data":{"orders":{"edges":[{"node":{
			"id":"gid://shopify/Order/1",
			"name":"#V1592",
			"tags":["VIP"],
			"paymentGatewayNames":["Cash on Delivery"]}}]}}}`))
	})

	order, err := c.FindOrderByName(context.Background(), "1592")
	if err != nil {
		t.Fatalf("FindOrderByName: %v", err)
	}
	if order == nil {
		t.Fatalf("expected an order")
	}
	if order.ID != "gid://shopify/Order/1" || order.Name != "#V1592" {
		t.Fatalf("order = %+v", order)
	}
	if len(order.Tags) != 1 || order.Tags[0] != "VIP" {
		t.Fatalf("tags = %v", order.Tags)
	}
	if !order.IsCashOnDelivery() {
		t.Fatalf("expected COD order")
	}
}

func TestFindOrderByTagNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if q := req.Variables["q"]; q != "tag:MSG91_abc123" {
			t.Errorf("filter variable = %v", q)
		}
		_, _ = w.Write([]byte(`{"data":{"orders":{"edges":[]}}}`))
	})

	order, err := c.FindOrderByTag(context.Background(), "MSG91_abc123")
	if err != nil {
		t.Fatalf("FindOrderByTag: %v", err)
	}
	if order != nil {
		t.Fatalf("expected no order, got %+v", order)
	}
}

func TestAddOrderTags(t *testing.T) {
	var gotVars map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		gotVars = req.Variables
		_, _ = w.Write([]byte(`{"data":{"tagsAdd":{"userErrors":[]}}}`))
	})

	err := c.AddOrderTags(context.Background(), "gid://shopify/Order/1", []string{"MSG91_abc123"})
	if err != nil {
		t.Fatalf("AddOrderTags: %v", err)
	}
	if gotVars["id"] != "gid://shopify/Order/1" {
		t.Fatalf("id variable = %v", gotVars["id"])
	}
	tags, ok := gotVars["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "MSG91_abc123" {
		t.Fatalf("tags variable = %v", gotVars["tags"])
	}
}

func TestAddOrderTagsUserErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"tagsAdd":{"userErrors":[
			{"field":["id"],"message":"Order does not exist"}]}}}`))
	})

	err := c.AddOrderTags(context.Background(), "gid://shopify/Order/404", []string{"x"})
	if err == nil {
		t.Fatalf("expected userErrors to surface as error")
	}
	if !strings.Contains(err.Error(), "Order does not exist") {
		t.Fatalf("error %q missing userError message", err)
	}
}

func TestSetOrderMetafield(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		mfs, ok := req.Variables["metafields"].([]any)
		if !ok || len(mfs) != 1 {
			t.Fatalf("metafields variable = %v", req.Variables["metafields"])
		}
		mf := mfs[0].(map[string]any)
		if mf["namespace"] != "msg91" || mf["key"] != "request_id" || mf["value"] != "abc123" {
			t.Errorf("metafield = %v", mf)
		}
		if mf["ownerId"] != "gid://shopify/Order/1" {
			t.Errorf("ownerId = %v", mf["ownerId"])
		}
		_, _ = w.Write([]byte(`{"data":{"metafieldsSet":{"metafields":[{"id":"gid://shopify/Metafield/9"}],"userErrors":[]}}}`))
	})

	err := c.SetOrderMetafield(context.Background(), "gid://shopify/Order/1", "msg91", "request_id", "abc123")
	if err != nil {
		t.Fatalf("SetOrderMetafield: %v", err)
	}
}

func TestDoGraphQLErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	})

	_, err := c.FindOrderByName(context.Background(), "1")
	if err == nil || !strings.Contains(err.Error(), "Throttled") {
		t.Fatalf("expected top-level GraphQL error, got %v", err)
	}
}

func TestDoHTTPStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FindOrderByTag(context.Background(), "MSG91_x")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"orders":{"edges":[]}}}`))
	})

	if _, err := c.FindOrderByName(ctx, "1"); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func TestNewClientEndpoint(t *testing.T) {
	c := NewClient(testShopifyConfig())
	want := "https://example.myshopify.com/admin/api/2026-01/graphql.json"
	if c.endpoint != want {
		t.Fatalf("endpoint = %q, want %q", c.endpoint, want)
	}
	if c.http.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v", c.http.Timeout)
	}
}
