package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// bindPatch binds an update body. An empty body is a valid no-op update.
func bindPatch(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
