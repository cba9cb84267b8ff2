package http

import (
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/mberahman/pos-analytics/internal/http/middleware"
	"github.com/mberahman/pos-analytics/internal/model"
	"github.com/mberahman/pos-analytics/internal/repository"
)

func listOrdersHandler(chRepo repository.CHOrdersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := middleware.TenantIDFromCtx(c)
		if !ok || tenantID <= 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var customerID int64
		if v := c.QueryParam("customer_id"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				customerID = n
			}
		}

		var st model.OrderStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			tmp := model.OrderStatus(raw)
			if tmp.Valid() {
				st = tmp
			}
		}

		orders, err := chRepo.ListByTenant(
			c.Request().Context(),
			tenantID,
			customerID,
			st,
			limit,
			offset,
		)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(orders),
			"results": orders,
		})
	}
}
