// Package shopify implements the minimal Admin GraphQL surface this relay
// needs: a first-match order search plus the two write operations (additive
// tagsAdd and metafieldsSet). It is deliberately not a general Shopify
// client; both webhook flows treat the store as a synchronous
// request/response collaborator with no streaming.
//
// Every call carries the request context, is capped by the configured
// per-call timeout, and surfaces both transport failures and GraphQL
// userErrors as Go errors so the handlers can map them to HTTP 500.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/config"
	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// maxResponseBytes bounds how much of an upstream response body is read.
const maxResponseBytes = 1 << 20

// GraphQL documents. Inputs travel as variables, never interpolated into
// the document, so order names and request ids cannot break the query.
const (
	orderSearchQuery = `query FindOrder($q: String!) {
  orders(first: 1, query: $q) {
    edges {
      node {
        id
        name
        tags
        paymentGatewayNames
      }
    }
  }
}`

	tagsAddMutation = `mutation AddTags($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    userErrors {
      field
      message
    }
  }
}`

	metafieldsSetMutation = `mutation SetMetafields($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
    }
    userErrors {
      field
      message
    }
  }
}`
)

// Client talks to one shop's Admin GraphQL endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient builds a client for the configured shop. The underlying
// http.Client enforces the per-call timeout; keep-alive pooling is left to
// the default transport.
func NewClient(cfg config.ShopifyConfig) *Client {
	return &Client{
		endpoint: fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.Shop, cfg.APIVersion),
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.CallTimeout},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// joinUserErrors flattens mutation userErrors into one error value.
func joinUserErrors(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, ue := range errs {
		msgs = append(msgs, ue.Message)
	}
	return fmt.Errorf("shopify: %s rejected: %s", op, strings.Join(msgs, "; "))
}

// do posts one GraphQL operation and decodes the data payload into out.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	tr := otel.Tracer("shopify/Client")
	ctx, span := tr.Start(ctx, op,
		trace.WithAttributes(attribute.String("graphql.operation", op)),
	)
	defer span.End()

	start := time.Now()
	outcome := "ok"
	defer func() {
		apiRequests.WithLabelValues(op, outcome).Inc()
		apiLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		outcome = "encode_error"
		return fmt.Errorf("shopify: encode %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome = "request_error"
		return fmt.Errorf("shopify: build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("shopify: %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome = "read_error"
		return fmt.Errorf("shopify: read %s response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		outcome = fmt.Sprintf("http_%d", resp.StatusCode)
		return fmt.Errorf("shopify: %s returned status %d", op, resp.StatusCode)
	}

	var envelope gqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("shopify: decode %s response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		outcome = "graphql_error"
		return fmt.Errorf("shopify: %s failed: %s", op, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			outcome = "decode_error"
			return fmt.Errorf("shopify: decode %s data: %w", op, err)
		}
	}
	return nil
}

// findOrder runs the order search with the given free-text filter and
// returns the first match, or (nil, nil) when the filter matches nothing.
func (c *Client) findOrder(ctx context.Context, op, filter string) (*domain.Order, error) {
	var data struct {
		Orders struct {
			Edges []struct {
				Node struct {
					ID                  string   `json:"id"`
					Name                string   `json:"name"`
					Tags                []string `json:"tags"`
					PaymentGatewayNames []string `json:"paymentGatewayNames"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := c.do(ctx, op, orderSearchQuery, map[string]any{"q": filter}, &data); err != nil {
		return nil, err
	}
	if len(data.Orders.Edges) == 0 {
		return nil, nil
	}
	n := data.Orders.Edges[0].Node
	return &domain.Order{
		ID:                  n.ID,
		Name:                n.Name,
		Tags:                n.Tags,
		PaymentGatewayNames: n.PaymentGatewayNames,
	}, nil
}

// FindOrderByName searches for an order whose name contains the digits-only
// reference. The wildcard filter is what lets "1592" resolve an order
// displayed as "#V1592".
func (c *Client) FindOrderByName(ctx context.Context, ref string) (*domain.Order, error) {
	return c.findOrder(ctx, "FindOrderByName", fmt.Sprintf("name:*%s", ref))
}

// FindOrderByTag searches for the order carrying the given correlation tag.
func (c *Client) FindOrderByTag(ctx context.Context, tag string) (*domain.Order, error) {
	return c.findOrder(ctx, "FindOrderByTag", fmt.Sprintf("tag:%s", tag))
}

// AddOrderTags appends tags to the order's tag set. tagsAdd is additive, so
// existing tags are never clobbered; Shopify also dedupes on write.
func (c *Client) AddOrderTags(ctx context.Context, orderID string, tags []string) error {
	var data struct {
		TagsAdd struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"tagsAdd"`
	}
	vars := map[string]any{"id": orderID, "tags": tags}
	if err := c.do(ctx, "AddOrderTags", tagsAddMutation, vars, &data); err != nil {
		return err
	}
	return joinUserErrors("AddOrderTags", data.TagsAdd.UserErrors)
}

// SetOrderMetafield writes a single_line_text_field metafield on the order.
func (c *Client) SetOrderMetafield(ctx context.Context, ownerID, namespace, key, value string) error {
	var data struct {
		MetafieldsSet struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	vars := map[string]any{
		"metafields": []map[string]any{{
			"namespace": namespace,
			"key":       key,
			"type":      "single_line_text_field",
			"value":     value,
			"ownerId":   ownerID,
		}},
	}
	if err := c.do(ctx, "SetOrderMetafield", metafieldsSetMutation, vars, &data); err != nil {
		return err
	}
	return joinUserErrors("SetOrderMetafield", data.MetafieldsSet.UserErrors)
}
