package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/nb2912/inventory/internal/apierror"
	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their wire names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON body: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds and validates query-string parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
	return false
}

// paramUUID parses a path parameter as a UUID, writing a 400 when it is not one.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name+"."))
		return uuid.Nil, false
	}
	return id, true
}

var kindStatus = map[service.ErrorKind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
	service.KindNotFound:     http.StatusNotFound,
	service.KindConflict:     http.StatusConflict,
}

// respondError maps service errors to their status; anything else is handed
// to the ErrorHandler middleware, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	if se, ok := service.AsError(err); ok {
		if status, known := kindStatus[se.Kind]; known {
			c.JSON(status, apierror.New(se.Message))
			return
		}
	}
	_ = c.Error(err)
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.Envelope{Status: dto.StatusSuccess, Message: message, Data: data})
}

func respondList(c *gin.Context, n int, data any) {
	c.JSON(http.StatusOK, dto.Envelope{Status: dto.StatusSuccess, Results: &n, Data: data})
}
