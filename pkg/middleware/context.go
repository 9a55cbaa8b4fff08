package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/azalea/pkg/httpcontext"
)

// HeaderScrapeRunID is the header scrapers attach to ingest requests
const HeaderScrapeRunID = "X-Scrape-Run-ID"

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			// get request id from header
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			runID := req.Header.Get(HeaderScrapeRunID)

			ctx := req.Context()
			ctx = httpcontext.SetRequestID(ctx, requestID)
			ctx = httpcontext.SetMethod(ctx, req.Method)
			ctx = httpcontext.SetRoute(ctx, req.URL.Path)
			ctx = httpcontext.SetRemoteIP(ctx, c.RealIP())
			ctx = httpcontext.SetReferer(ctx, req.Referer())
			ctx = httpcontext.SetScrapeRunID(ctx, runID)

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
