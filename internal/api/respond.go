/*
Package api - response helpers

respondError maps the closed errs.Error taxonomy onto HTTP responses in
one place: every handler that returns an *errs.Error gets an identical
wire shape, rather than re-deriving status codes per route.
*/
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftcore/workforce/internal/errs"
)

func respondError(c *gin.Context, err error) {
	var e *errs.Error
	if errors.As(err, &e) {
		body := gin.H{"error": e.Code, "message": e.Message, "kind": string(e.Kind)}
		if e.Field != "" {
			body["field"] = e.Field
		}
		c.JSON(e.Kind.HTTPStatus(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": "unexpected server error"})
}

func respondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}
