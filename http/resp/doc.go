/*
Package resp provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

resp provides three main ways of responding to an HTTP request:
  - rendering HTML templates
  - rendering JSON data
  - redirecting

Handlers pick which one by asking [WantsJSON] about the request.
*/
package resp
