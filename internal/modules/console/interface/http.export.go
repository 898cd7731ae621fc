package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
	"adminConsole/internal/shared/normalization"
)

// NewExportHandler exposes GET /api/console/:entity/export. The query string
// uses the records API names (page, size, sortBy, sortDir, filters) and the
// selected page is rendered with the list columns.
func NewExportHandler(views *usecase.ViewFactory, exporter port.Exporter, validator auth.TokenValidator, timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		entity := normalization.NormalizeEntity(c.Param("entity"))
		if !normalization.IsValidEntity(entity) {
			return echo.NewHTTPError(http.StatusNotFound, "entity "+entity+" is not part of the console")
		}
		session, _, err := authenticate(c, validator)
		if err != nil {
			return err
		}

		view, err := views.Open(entity, session, nil)
		if err != nil {
			return httpError("console.export", err)
		}
		schema := view.Schema()
		patch, pageIndex := parseListQuery(c.QueryParams(), schema.FilterKeys, schema.SortKeys)

		ctx, cancel := context.WithTimeout(c.Request().Context(), timeoutOr(timeout))
		defer cancel()
		if err := view.SetQuery(ctx, patch); err != nil {
			return httpError("console.export", err)
		}
		if pageIndex > 0 {
			if err := view.Refetch(ctx, &pageIndex); err != nil {
				return httpError("console.export", err)
			}
		}

		sheet := view.Sheet()
		if len(sheet.Rows) == 0 {
			return c.NoContent(http.StatusNoContent)
		}
		filename := infrastructure.ExportFilename(entity, exporter.Extension(), time.Now())
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Response().Header().Set(echo.HeaderContentType, exporter.ContentType())
		c.Response().WriteHeader(http.StatusOK)
		if err := exporter.Export(c.Response(), sheet); err != nil {
			if errors.Is(err, port.ErrNothingToExport) {
				return nil
			}
			slog.Error("console export write failed", slog.String("entity", entity), slog.Any("error", err))
			return err
		}
		slog.Info("console export served", slog.String("entity", entity), slog.Int("rows", len(sheet.Rows)), slog.String("filename", filename))
		return nil
	}
}

// parseListQuery reads the list query from request parameters. Unknown
// filter and sort keys are ignored; the page index is returned separately
// because changing filters resets the page.
func parseListQuery(values url.Values, filterKeys, sortKeys []string) (domain.QueryPatch, int) {
	patch := domain.QueryPatch{}
	if size, err := strconv.Atoi(strings.TrimSpace(values.Get("size"))); err == nil {
		patch.PageSize = &size
	}
	if sortBy := strings.TrimSpace(values.Get("sortBy")); sortBy != "" && contains(sortKeys, sortBy) {
		patch.SortKey = &sortBy
		sortDir := values.Get("sortDir")
		patch.SortDir = &sortDir
	}
	for _, key := range filterKeys {
		value := strings.TrimSpace(values.Get(key))
		if value == "" {
			continue
		}
		if patch.Filters == nil {
			patch.Filters = map[string]*string{}
		}
		patch.Filters[key] = &value
	}
	page, err := strconv.Atoi(strings.TrimSpace(values.Get("page")))
	if err != nil || page < 0 {
		page = 0
	}
	return patch, page
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
