package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// invalidDateMessage is shown to the user verbatim.
const invalidDateMessage = "the selected date does not exist"

// Options carries request defaults taken from configuration.
type Options struct {
	DefaultLanguage weather.Language
	DefaultPlace    string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, opts Options) {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = weather.DefaultLanguage
	}
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		var q dashboardQuery
		if err := q.bind(c, opts); err != nil {
			return err
		}

		req, err := q.toRequest()
		if err != nil {
			return requestError(err)
		}

		dash, err := service.BuildDashboard(c.UserContext(), req)
		if err != nil {
			return requestError(err)
		}
		return c.JSON(dash)
	})

	v1.Get("/weather/day", func(c *fiber.Ctx) error {
		var q dayQuery
		if err := q.bind(c); err != nil {
			return err
		}

		date, err := weather.NewDate(q.Year, q.Month, q.Day)
		if err != nil {
			return requestError(err)
		}
		coord := weather.Coordinate{Lat: *q.Lat, Lon: *q.Lon}
		lang := languageOf(c, opts.DefaultLanguage)

		day, err := service.FetchDay(c.UserContext(), coord, date, lang)
		if err != nil {
			return requestError(err)
		}
		return c.JSON(day)
	})

	v1.Get("/geocode", func(c *fiber.Ctx) error {
		place := c.Query("place")
		if place == "" {
			return fiber.NewError(fiber.StatusBadRequest, "place query parameter is required")
		}
		p, err := service.Resolve(c.UserContext(), place)
		if err != nil {
			return requestError(err)
		}
		return c.JSON(p)
	})
}

// APIError is the JSON error body, rendered by ErrorHandler.
type APIError struct {
	Code    int
	Message string
	Cause   weather.Cause
}

func (e *APIError) Error() string { return e.Message }

// ErrorHandler is the centralized Fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}

	var fe *fiber.Error
	var ae *APIError
	switch {
	case errors.As(err, &ae):
		code = ae.Code
		if ae.Cause != weather.CauseNone {
			body["cause"] = ae.Cause
		}
	case errors.As(err, &fe):
		code = fe.Code
	}

	return c.Status(code).JSON(body)
}

// requestError maps weather errors onto HTTP statuses.
func requestError(err error) error {
	var yre *weather.YearRangeError
	switch {
	case errors.As(err, &yre):
		return &APIError{Code: fiber.StatusBadRequest, Message: yre.Error()}
	case errors.Is(err, weather.ErrInvalidDate):
		return &APIError{Code: fiber.StatusBadRequest, Message: invalidDateMessage}
	case errors.Is(err, weather.ErrInvalidCoordinate):
		return &APIError{Code: fiber.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, weather.ErrNotFound):
		return &APIError{Code: fiber.StatusNotFound, Message: weather.Reason(err), Cause: weather.CauseOf(err)}
	case errors.Is(err, weather.ErrUnavailable):
		return &APIError{Code: fiber.StatusBadGateway, Message: weather.Reason(err), Cause: weather.CauseOf(err)}
	}
	return &APIError{Code: fiber.StatusBadRequest, Message: err.Error()}
}

func languageOf(c *fiber.Ctx, def weather.Language) weather.Language {
	if lang := c.Query("lang"); lang != "" {
		return weather.MatchLanguage(lang)
	}
	if accept := c.Get(fiber.HeaderAcceptLanguage); accept != "" {
		return weather.MatchLanguage(accept)
	}
	return def
}

// dateQuery holds the year/month/day pickers. Ranges mirror the UI selectors;
// whether the combination exists is checked by weather.NewDate.
type dateQuery struct {
	Year  int `validate:"required,gte=1950"`
	Month int `validate:"required,gte=1,lte=12"`
	Day   int `validate:"required,gte=1,lte=31"`
}

func (d *dateQuery) bind(c *fiber.Ctx) error {
	var err error
	if d.Year, err = intQuery(c, "year"); err != nil {
		return err
	}
	if d.Month, err = intQuery(c, "month"); err != nil {
		return err
	}
	if d.Day, err = intQuery(c, "day"); err != nil {
		return err
	}
	return nil
}

// dayQuery holds query parameters for the single-day endpoint. Coordinate
// ranges are checked by the weather service.
type dayQuery struct {
	dateQuery
	Lat *float64 `validate:"required"`
	Lon *float64 `validate:"required"`
}

func (q *dayQuery) bind(c *fiber.Ctx) error {
	if err := q.dateQuery.bind(c); err != nil {
		return err
	}
	var err error
	if q.Lat, err = floatQuery(c, "lat"); err != nil {
		return err
	}
	if q.Lon, err = floatQuery(c, "lon"); err != nil {
		return err
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// dashboardQuery holds query parameters for the dashboard endpoint.
type dashboardQuery struct {
	dateQuery
	Mode  string   `validate:"oneof=map city"`
	Lat   *float64 `validate:"required_if=Mode map"`
	Lon   *float64 `validate:"required_if=Mode map"`
	Place string   `validate:"required_if=Mode city"`
	Lang  weather.Language
}

func (q *dashboardQuery) bind(c *fiber.Ctx, opts Options) error {
	if err := q.dateQuery.bind(c); err != nil {
		return err
	}
	q.Mode = c.Query("mode", string(weather.ModeMap))
	q.Place = c.Query("place")
	if q.Mode == string(weather.ModeCity) && q.Place == "" {
		q.Place = opts.DefaultPlace
	}
	var err error
	if q.Lat, err = floatQuery(c, "lat"); err != nil {
		return err
	}
	if q.Lon, err = floatQuery(c, "lon"); err != nil {
		return err
	}
	q.Lang = languageOf(c, opts.DefaultLanguage)

	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// toRequest builds the immutable core request; NewDate rejects dates like Feb 30.
func (q dashboardQuery) toRequest() (weather.Request, error) {
	date, err := weather.NewDate(q.Year, q.Month, q.Day)
	if err != nil {
		return weather.Request{}, err
	}
	req := weather.Request{
		Date:  date,
		Mode:  weather.Mode(q.Mode),
		Place: q.Place,
		Lang:  q.Lang,
	}
	if q.Lat != nil && q.Lon != nil {
		req.Coordinate = weather.Coordinate{Lat: *q.Lat, Lon: *q.Lon}
	}
	return req, nil
}

func intQuery(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" query parameter is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+": must be an integer")
	}
	return n, nil
}

func floatQuery(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+": must be a number")
	}
	return &f, nil
}
