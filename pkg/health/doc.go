// Package health serves the liveness and readiness endpoints of the edge server.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs named [Checks] in parallel (for example a Redis
// ping when the shared counter lives in Redis) and answers 503 if any fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON with Accept: application/json or ?format=json:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"..."}}}
package health
