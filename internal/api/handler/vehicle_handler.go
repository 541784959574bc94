package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carlot/inventory-api/internal/api/metrics"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// VehicleHandler handles HTTP requests for the vehicle inventory.
type VehicleHandler struct {
	service ports.VehicleService
}

func NewVehicleHandler(service ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// List handles GET /vehicles.
//
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   vehicleResponse
// @Failure      401  {object}  errorResponse
// @Router       /vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	vehicles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleListResponse(vehicles))
}

// Get handles GET /vehicles/:id.
//
// @Summary      Get a vehicle
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Vehicle id"
// @Success      200  {object}  vehicleResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /vehicles/{id} [get]
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	v, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicleResponse(v))
}

// Create handles POST /vehicles.
//
// @Summary      Add a vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVehicleRequest  true  "Vehicle"
// @Success      201   {object}  vehicleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vehicles [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	var req createVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	v, err := h.service.Create(c.Request().Context(), toCreateVehicleInput(req))
	if err != nil {
		return err
	}

	metrics.VehicleMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toVehicleResponse(v))
}

// Update handles PUT /vehicles/:id. Only the fields present in the body change.
//
// @Summary      Update a vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Vehicle id"
// @Param        body  body      updateVehicleRequest  true  "Fields to change"
// @Success      200   {object}  vehicleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vehicles/{id} [put]
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req updateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	v, err := h.service.Update(c.Request().Context(), id, toVehiclePatch(req))
	if err != nil {
		return err
	}

	metrics.VehicleMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toVehicleResponse(v))
}

// Delete handles DELETE /vehicles/:id.
//
// @Summary      Delete a vehicle
// @Tags         vehicles
// @Security     BearerAuth
// @Param        id   path  int  true  "Vehicle id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.VehicleMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
