package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Malformed JSON body.")
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// idParam parses :id and answers 404 itself when it is not a number.
func idParam(c *gin.Context, notFound string) (uint, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		respondError(c, http.StatusNotFound, notFound)
		return 0, false
	}
	return id, true
}

// pageRequest reads ?page= and ?limit=; bad values fall back to defaults.
func pageRequest(c *gin.Context) service.PageRequest {
	return service.PageRequest{
		Page:  parseIntQuery(c, "page"),
		Limit: parseIntQuery(c, "limit"),
	}
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// stringList turns a decoded JSON array into strings. Non-string entries become "" so
// validation reports them by index.
func stringList(values []interface{}) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, _ := v.(string)
		out = append(out, s)
	}
	return out
}
