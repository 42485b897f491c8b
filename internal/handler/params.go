package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	return parseID(c.Param(name))
}

// parseID accepts the shapes an id arrives in: path strings, JSON numbers
// (decoded as float64) and numeric JSON strings. Ids are serial columns, so
// anything outside 1..MaxInt32 names no row.
func parseID(v any) (int, bool) {
	switch id := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 32)
		if err != nil || n <= 0 {
			return 0, false
		}
		return int(n), true
	case float64:
		if id <= 0 || id != math.Trunc(id) || id > math.MaxInt32 {
			return 0, false
		}
		return int(id), true
	case int:
		return id, id > 0 && id <= math.MaxInt32
	default:
		return 0, false
	}
}

// truthy reports whether a query flag such as ?withAnswers=1 is switched on.
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
