// Package health provides liveness and readiness handlers in the
// MicroProfile Health shape served under /q/health:
//
//	{"status":"UP","checks":[{"name":"mongodb","status":"UP"}]}
//
// Usage:
//
//	r.Get("/q/health/live", health.Liveness[*eddiauth.Context])
//	r.Get("/q/health/ready", health.Readiness[*eddiauth.Context](log,
//		health.Check{Name: "mongodb", Fn: mongo.Healthcheck(client)},
//	))
package health
