package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CallerHeader carries the caller's token account address. Wallet
// signature verification happens in the client layer; the engine only
// needs the principal string.
const CallerHeader = "X-Caller-Address"

var validate = validator.New()

// callerAddress extracts and validates the caller principal. Writes the
// error response itself and returns false when the header is unusable.
func callerAddress(c *gin.Context) (string, bool) {
	addr := c.GetHeader(CallerHeader)
	if err := validate.Var(addr, "required,eth_addr"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "missing or malformed " + CallerHeader + " header"})
		return "", false
	}
	return addr, true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid " + name})
		return 0, false
	}
	return id, true
}

// pageParams reads pageSize and page query parameters. Absent parameters
// fall back to defaults; non-numeric values are rejected here, with range
// checks left to the pagination engine. Writes the error response itself
// and returns false when a parameter is unusable.
func pageParams(c *gin.Context) (pageSize, page int, ok bool) {
	pageSize = 10
	page = 1
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "pageSize must be an integer"})
			return 0, 0, false
		}
		pageSize = n
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "page must be an integer"})
			return 0, 0, false
		}
		page = n
	}
	return pageSize, page, true
}
