// Package handlers is the HTTP surface. Handlers bind and validate input,
// call the service layer and translate its typed errors to responses; no
// business rule lives here.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/services"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pagination reads ?page= and ?limit= with sane bounds. Pages are 1-based.
func pagination(c echo.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

// formUpload pulls the named file off a multipart form. A missing file is
// not an error here; services decide whether the image is required.
func formUpload(c echo.Context, field string) (*services.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}
	upload := &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}
	return upload, func() { f.Close() }, nil
}
