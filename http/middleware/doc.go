/*
The middleware package defines what a middleware is in wayfarer and a set of basic middlewares.

The available middlewares are:
  - CORS
  - CurrentUser
  - ForceHTTPS
  - Idempotent
  - InjectIPAddress
  - InjectSession
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID
  - RequireAuthed
  - RequireUnauthed

Every request passes through this chain, in order:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
		middleware.CurrentUser(responder, userStore),
	}
*/
package middleware
