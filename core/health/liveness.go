package health

import (
	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/response"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Report is the health response body.
type Report struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Liveness reports UP while the process serves requests. It checks nothing.
func Liveness[C handler.Context](C) handler.Response {
	return response.JSON(Report{Status: StatusUp, Checks: []CheckResult{}})
}

// NoContent returns 204 without a body.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}
