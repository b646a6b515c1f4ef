package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
)

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Readiness runs every check and answers 503 when any of them fails.
// Failure causes are logged, never returned to the caller.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Nop()
	}

	return func(ctx C) handler.Response {
		report := Report{Status: StatusUp, Checks: make([]CheckResult, 0, len(checks))}

		for _, c := range checks {
			result := CheckResult{Name: c.Name, Status: StatusUp}
			if err := c.Fn(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"), logger.Key("check", c.Name), logger.Error(err))
				result.Status = StatusDown
				report.Status = StatusDown
			}
			report.Checks = append(report.Checks, result)
		}

		if report.Status == StatusDown {
			return response.JSONWithStatus(report, http.StatusServiceUnavailable)
		}
		return response.JSON(report)
	}
}
