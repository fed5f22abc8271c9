package http

import (
	"net/http"
	"strconv"

	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"github.com/labstack/echo/v4"
)

// pageFrom reads ?page= and ?pageSize=. Missing values mean the first page and the
// default size; sizes above the ceiling are clamped.
func (s *Server) pageFrom(c echo.Context) (paging.Page, error) {
	number, err := intParam(c, "page", 1)
	if err != nil {
		return paging.Page{}, err
	}
	size, err := intParam(c, "pageSize", 0)
	if err != nil {
		return paging.Page{}, err
	}
	return s.limits.NewPage(number, size)
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}

// GetPatientOrders handles GET /api/v1/patients/:id/orders.
func (s *Server) GetPatientOrders(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	page, err := s.pageFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetPatientOrdersQuery(id, page)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.GetPatientOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(result, toOrderSummaryResponse))
}

// providerOrders serves GET /api/v1/{laboratories,pharmacies}/:id/orders?status=.
func (s *Server) providerOrders(kind services.ProviderKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return s.fail(c, err)
		}
		page, err := s.pageFrom(c)
		if err != nil {
			return s.fail(c, err)
		}
		query, err := queries.NewGetProviderOrdersQuery(kind, id, c.QueryParam("status"), page)
		if err != nil {
			return s.fail(c, err)
		}

		result, err := s.h.GetProviderOrders.Handle(c.Request().Context(), query)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, toPageResponse(result, toOrderSummaryResponse))
	}
}

// GetDoctorPatients handles GET /api/v1/doctors/:id/patients.
func (s *Server) GetDoctorPatients(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	page, err := s.pageFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetDoctorPatientsQuery(id, page)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.GetDoctorPatients.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(result, toDoctorPatientResponse))
}
