package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/shared/normalization"
)

// ErrEntityUnsupported is returned when no endpoint is configured for an entity.
var ErrEntityUnsupported = errors.New("resource entity unsupported")

type pathBuilder func(string) (string, error)

type entityEndpoint struct {
	listPathBuilder   pathBuilder
	detailPathBuilder pathBuilder
	// paged endpoints return a page object; the rest return a plain array
	// that is paged locally.
	paged         bool
	filterAliases map[string]string
}

var entityEndpoints = map[string]entityEndpoint{
	"employees": {
		listPathBuilder:   staticPathBuilder("/employees"),
		detailPathBuilder: resourcePathBuilder("/employees"),
		paged:             true,
		filterAliases: map[string]string{
			"departmentid": "departmentId",
			"department":   "departmentId",
			"q":            "search",
		},
	},
	"departments": {
		listPathBuilder:   staticPathBuilder("/departments"),
		detailPathBuilder: resourcePathBuilder("/departments"),
	},
	"users": {
		listPathBuilder:   staticPathBuilder("/users"),
		detailPathBuilder: resourcePathBuilder("/users"),
	},
}

func staticPathBuilder(path string) pathBuilder {
	trimmed := strings.TrimSpace(path)
	return func(string) (string, error) {
		if trimmed == "" {
			return "", fmt.Errorf("missing path configuration")
		}
		return trimmed, nil
	}
}

func resourcePathBuilder(base string) pathBuilder {
	trimmed := strings.TrimSpace(base)
	return func(value string) (string, error) {
		identifier := strings.TrimSpace(value)
		if identifier == "" {
			return "", domain.NewFailure(domain.FailureValidation, "path", "missing identity")
		}
		return strings.TrimRight(trimmed, "/") + "/" + url.PathEscape(identifier), nil
	}
}

func (e entityEndpoint) mapFilterKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	aliased, ok := e.filterAliases[strings.ToLower(trimmed)]
	if !ok {
		return trimmed
	}
	return aliased
}

func (e entityEndpoint) queryValues(query domain.QueryState) url.Values {
	values := url.Values{}
	for key, list := range query.ToURLValues() {
		mapped := e.mapFilterKey(key)
		if mapped == "" || len(list) == 0 {
			continue
		}
		values.Set(mapped, list[0])
	}
	return values
}

// ResourceHTTPClient implements port.ResourceClient against the records REST
// API for one entity kind.
type ResourceHTTPClient[T domain.Entity] struct {
	rest     *RESTClient
	kind     *domain.Descriptor[T]
	endpoint entityEndpoint
	token    string
}

// NewResourceHTTPClient returns ErrEntityUnsupported for kinds without an endpoint.
func NewResourceHTTPClient[T domain.Entity](rest *RESTClient, kind *domain.Descriptor[T]) (*ResourceHTTPClient[T], error) {
	endpoint, ok := entityEndpoints[kind.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityUnsupported, kind.Name)
	}
	return &ResourceHTTPClient[T]{rest: rest, kind: kind, endpoint: endpoint}, nil
}

// WithToken returns a copy that authenticates as the bearer of token.
func (c *ResourceHTTPClient[T]) WithToken(token string) *ResourceHTTPClient[T] {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

// Source adapts the client to a per-token factory.
func (c *ResourceHTTPClient[T]) Source() func(token string) port.ResourceClient[T] {
	return func(token string) port.ResourceClient[T] {
		return c.WithToken(token)
	}
}

func (c *ResourceHTTPClient[T]) List(ctx context.Context, query domain.QueryState) (*domain.ResultPage[T], error) {
	query = query.Normalize()
	path, err := c.endpoint.listPathBuilder("")
	if err != nil {
		return nil, domain.AsFailure(c.op("list"), err)
	}
	values := url.Values{}
	if c.endpoint.paged {
		values = c.endpoint.queryValues(query)
	}
	data, err := c.exchange(ctx, "list", http.MethodGet, path, values, nil)
	if err != nil {
		return nil, err
	}

	switch typed := data.(type) {
	case []any:
		return localPage(c.kind, c.decodeItems(typed), query), nil
	case map[string]any:
		if content, ok := typed["content"]; ok {
			return c.decodePage(typed, content, query), nil
		}
		if items, ok := typed["items"]; ok {
			return localPage(c.kind, c.decodeItems(normalization.AsInterfaceSlice(items)), query), nil
		}
	}
	return nil, domain.NewFailure(domain.FailureServer, c.op("list"), "unexpected list payload")
}

func (c *ResourceHTTPClient[T]) Get(ctx context.Context, identity string) (T, error) {
	var zero T
	path, err := c.endpoint.detailPathBuilder(identity)
	if err != nil {
		return zero, domain.AsFailure(c.op("get"), err)
	}
	data, err := c.exchange(ctx, "get", http.MethodGet, path, nil, nil)
	if err != nil {
		return zero, err
	}
	return c.decodeOne("get", data)
}

func (c *ResourceHTTPClient[T]) Create(ctx context.Context, payload map[string]any) (T, error) {
	var zero T
	path, err := c.endpoint.listPathBuilder("")
	if err != nil {
		return zero, domain.AsFailure(c.op("create"), err)
	}
	data, err := c.exchange(ctx, "create", http.MethodPost, path, nil, payload)
	if err != nil {
		return zero, err
	}
	return c.decodeOne("create", data)
}

func (c *ResourceHTTPClient[T]) Update(ctx context.Context, identity string, payload map[string]any) (T, error) {
	var zero T
	path, err := c.endpoint.detailPathBuilder(identity)
	if err != nil {
		return zero, domain.AsFailure(c.op("update"), err)
	}
	data, err := c.exchange(ctx, "update", http.MethodPut, path, nil, payload)
	if err != nil {
		return zero, err
	}
	return c.decodeOne("update", data)
}

func (c *ResourceHTTPClient[T]) Delete(ctx context.Context, identity string) error {
	path, err := c.endpoint.detailPathBuilder(identity)
	if err != nil {
		return domain.AsFailure(c.op("delete"), err)
	}
	_, err = c.exchange(ctx, "delete", http.MethodDelete, path, nil, nil)
	return err
}

// PatchField writes one field using the kind's patch style.
func (c *ResourceHTTPClient[T]) PatchField(ctx context.Context, identity, field string, value any) (T, error) {
	var zero T
	path, err := c.endpoint.detailPathBuilder(identity)
	if err != nil {
		return zero, domain.AsFailure(c.op("patch"), err)
	}

	if c.kind.PatchStyle == domain.PatchQueryParam {
		values := url.Values{}
		values.Set(field, fmt.Sprint(value))
		data, err := c.exchange(ctx, "patch", http.MethodPatch, path+"/"+url.PathEscape(field), values, nil)
		if err != nil {
			return zero, err
		}
		return c.decodeOne("patch", data)
	}

	current, err := c.exchange(ctx, "patch", http.MethodGet, path, nil, nil)
	if err != nil {
		return zero, err
	}
	record := normalization.MapFromPayload(current)
	if record == nil {
		return zero, domain.NewFailure(domain.FailureServer, c.op("patch"), "unexpected record payload")
	}
	merged := make(map[string]any, len(record)+1)
	for key, existing := range record {
		merged[key] = existing
	}
	merged[field] = value
	data, err := c.exchange(ctx, "patch", http.MethodPut, path, nil, merged)
	if err != nil {
		return zero, err
	}
	return c.decodeOne("patch", data)
}

func (c *ResourceHTTPClient[T]) op(action string) string {
	return c.kind.Name + "." + action
}

func (c *ResourceHTTPClient[T]) exchange(ctx context.Context, action, method, path string, values url.Values, body any) (any, error) {
	return c.rest.exchange(ctx, restCall{
		entity: c.kind.Name,
		action: action,
		method: method,
		path:   path,
		query:  values,
		body:   body,
		token:  c.token,
	})
}

func (c *ResourceHTTPClient[T]) decodeOne(action string, data any) (T, error) {
	var zero T
	record := normalization.MapFromPayload(data)
	if record == nil {
		return zero, domain.NewFailure(domain.FailureServer, c.op(action), "unexpected record payload")
	}
	entity, ok := c.kind.Decode(record)
	if !ok {
		return zero, domain.NewFailure(domain.FailureServer, c.op(action), "record without identity")
	}
	return entity, nil
}

func (c *ResourceHTTPClient[T]) decodeItems(raw []any) []T {
	items := make([]T, 0, len(raw))
	for _, entry := range raw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if entity, ok := c.kind.Decode(record); ok {
			items = append(items, entity)
		}
	}
	return items
}

// decodePage reads a server page: {content, number, size, totalElements, totalPages}.
func (c *ResourceHTTPClient[T]) decodePage(raw map[string]any, content any, query domain.QueryState) *domain.ResultPage[T] {
	page := &domain.ResultPage[T]{
		Items:      c.decodeItems(normalization.AsInterfaceSlice(content)),
		PageIndex:  query.PageIndex,
		PageSize:   query.PageSize,
		TotalItems: len(normalization.AsInterfaceSlice(content)),
	}
	if number, ok := raw["number"]; ok {
		page.PageIndex = int(normalization.AsInt64(number))
	}
	if size, ok := raw["size"]; ok && normalization.AsInt64(size) > 0 {
		page.PageSize = int(normalization.AsInt64(size))
	}
	if total, ok := raw["totalElements"]; ok {
		page.TotalItems = int(normalization.AsInt64(total))
	}
	if pages, ok := raw["totalPages"]; ok {
		page.TotalPages = int(normalization.AsInt64(pages))
	} else {
		page.TotalPages = domain.TotalPagesFor(page.TotalItems, page.PageSize)
	}
	return page
}

var (
	_ port.ResourceClient[domain.Employee]   = (*ResourceHTTPClient[domain.Employee])(nil)
	_ port.ResourceClient[domain.Department] = (*ResourceHTTPClient[domain.Department])(nil)
	_ port.ResourceClient[domain.User]       = (*ResourceHTTPClient[domain.User])(nil)
)
