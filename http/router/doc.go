/*
Package router defines how wayfarer maps requests to handlers.

[*Router] is a thin wrapper around [mux.Router].
A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A name, a path and HTTP methods comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

It is often the case that many routes for a web server share identical middleware stacks,
which aid in directing, redirecting, or adding contextual information to a request.
It is also often the case that small errors can lead to registering a route incorrectly,
thereby unintentionally exposing a resource or not collecting data necessary for actually handling a request.
Thus, a [Router] provides conveniences for making a single call to register many logically associated Routes.

Access rules travel with each Route as ordinary middlewares,
e.g., [middleware.RequireAuthed] or [middleware.RequireUnauthed],
so a table of Routes fully describes who may reach what.
*/
package router
