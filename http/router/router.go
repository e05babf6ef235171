package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/wayfarer/http/middleware"
)

// A Route maps a path and HTTP methods to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// Name identifies the handler so a matched request can be traced back to it.
type Route struct {
	Name        string
	Path        string
	Methods     []string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests for resources to the [Route] registered for them.
type Router struct {
	everyReqStack []middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router].
//
// Paths registered with a trailing slash redirect requests missing it,
// e.g., "/login" goes to "/login/".
func New() *Router {
	return &Router{r: mux.NewRouter().StrictSlash(true)}
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = r.chain(handler)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
//
// Middlewares passed to OnEveryRequest after HandleRoutes is called
// do not apply to these routes.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := make([]middleware.Adapter, 0, len(middlewares)+len(route.Middlewares))
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)

		mr := r.r.Handle(route.Path, r.chain(route.Handler, mws...)).Name(route.Name)
		if len(route.Methods) > 0 {
			mr.Methods(route.Methods...)
		}
	}
}

// Match reports the name of the [Route] the request would be dispatched to.
// When no Route matches the path and method, Match returns false.
func (r *Router) Match(req *http.Request) (string, bool) {
	var m mux.RouteMatch
	if !r.r.Match(req, &m) || m.Route == nil {
		return "", false
	}

	return m.Route.GetName(), true
}

// MethodNotAllowed sets the provided [http.HandlerFunc] as the function
// for when a Route matches the path but not the method of a request.
func (r *Router) MethodNotAllowed(handler http.HandlerFunc) {
	r.r.MethodNotAllowedHandler = r.chain(handler)
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// chain wraps handler in the every request stack, then the middlewares.
// Recovering from panics is left to the every request stack.
func (r *Router) chain(handler http.HandlerFunc, middlewares ...middleware.Adapter) http.Handler {
	mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(middlewares))
	mws = append(mws, r.everyReqStack...)
	mws = append(mws, middlewares...)

	return middleware.Chain(handler, mws...)
}
