// Package serdser contains the (de)serialization helpers which are
// shared by the resource packages. Requests are bound and validated
// by Bind, and errors are serialized by SerErr, so all resources
// report problems with the same JSON layout: a {"detail": "..."}
// object for the general errors and a {"field": ["msg", ...]} map
// for the field specific validation errors.
package serdser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/log"
	"github.com/momeni/clean-library/pkg/core/model"
)

// Bind deserializes the request using the b binding into req and
// validates it based on its `binding` struct tags. If it fails, the
// error response is written and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		c.JSON(http.StatusBadRequest, fieldErrs(err))
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func fieldErrs(verrs validator.ValidationErrors) map[string][]string {
	var nameToErrs map[string][]string
	for _, ferr := range verrs {
		AddErr(&nameToErrs, ferr.Field(), ferr.Error())
	}
	return nameToErrs
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr writes err as the response. The cerr.Error instances choose
// their status code, the filter.Errors and validator.ValidationErrors
// are reported per parameter with 400, and other errors are logged
// and reported with 500.
func SerErr(c *gin.Context, err error) {
	var ferrs filter.Errors
	if errors.As(err, &ferrs) {
		c.JSON(http.StatusBadRequest, map[string][]string(ferrs))
		return
	}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		var verrs validator.ValidationErrors
		if errors.As(ce.Err, &verrs) {
			c.JSON(ce.HTTPStatusCode, fieldErrs(verrs))
			return
		}
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c, "unexpected error", log.Err("err", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}

// ID parses the name path parameter as a positive entity identity.
// If it fails, the 400 response is written and false is returned.
func ID(c *gin.Context, name string) (model.ID, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, map[string][]string{
			name: {fmt.Sprintf("%q is not a valid identity", raw)},
		})
		return 0, false
	}
	return id, true
}

// Query parses the query parameters of a listing request based on
// the s filter schema. If it fails, the 400 response is written and
// nil is returned.
func Query(c *gin.Context, s *filter.Schema, page filter.Page) *filter.Query {
	q, err := s.Parse(c.Request.URL.Query(), page)
	if err != nil {
		SerErr(c, err)
		return nil
	}
	return q
}

// Patch reads the JSON object of a partial update request and returns
// a function which merges its present fields over a stored entity and
// validates the result. Unknown fields are rejected. If the body cannot
// be read, the error response is written and nil is returned.
func Patch[M any](c *gin.Context) func(m *M) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "reading body: " + err.Error(),
		})
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "empty body",
		})
		return nil
	}
	return func(m *M) error {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return err
		}
		return binding.Validator.ValidateStruct(m)
	}
}
