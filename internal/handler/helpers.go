package handler

import (
	"net/http"
	"reflect"
	"time"

	"kooltpv/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case apierror.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case apierror.IsNotFound(err):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case apierror.IsPersistence(err):
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// ventanaDesdeQuery resolves the reporting window from query params. It
// accepts either fecha=YYYY-MM-DD (the whole of that local day) or an
// explicit desde/hasta pair in RFC 3339. With no params it covers today.
// The window is half-open on the left: (desde, hasta].
func ventanaDesdeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	if fecha := c.Query("fecha"); fecha != "" {
		dia, err := time.ParseInLocation("2006-01-02", fecha, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Parametro fecha invalido, se espera YYYY-MM-DD"))
			return time.Time{}, time.Time{}, false
		}
		return dia.Add(-time.Nanosecond), dia.Add(24*time.Hour - time.Nanosecond), true
	}

	desdeStr, hastaStr := c.Query("desde"), c.Query("hasta")
	if desdeStr == "" && hastaStr == "" {
		y, m, d := time.Now().Date()
		dia := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		return dia.Add(-time.Nanosecond), dia.Add(24*time.Hour - time.Nanosecond), true
	}

	desde, err := time.Parse(time.RFC3339, desdeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro desde invalido, se espera RFC 3339"))
		return time.Time{}, time.Time{}, false
	}
	hasta, err := time.Parse(time.RFC3339, hastaStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro hasta invalido, se espera RFC 3339"))
		return time.Time{}, time.Time{}, false
	}
	if !hasta.After(desde) {
		c.JSON(http.StatusBadRequest, apierror.New("La ventana es vacia: hasta debe ser posterior a desde"))
		return time.Time{}, time.Time{}, false
	}
	return desde, hasta, true
}
