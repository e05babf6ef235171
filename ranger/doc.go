/*
Package ranger wires together and runs wayfarer with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New] using a [Config] read by [NewConfig].

[*Ranger.Guide] begins wayfarer's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000),
assuming either a reverse proxy proxies requests
or clients make requests directly to the web server.

Stop that web server with [*Ranger.Shutdown],
cancel the context passed to [WithContext],
or send a signal [*Ranger.Guide] listens for.

# Configuration

wayfarer is configured through environment variables.
cmd/wayfarer loads them from a file called ".env"
found at the same directory the application is executed from, if there is one.

Here are the available environment variables.
  - APP_TITLE: a short title for the application; default: Wayfarer
  - BASE_URL: the base URL the application runs on; default: http://HOST:PORT
  - CONTACT_US_EMAIL: the email address end users can reach support at
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: cf. https://www.postgresql.org/docs/current/libpq-ssl.html; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - DATABASE_TEST_*: the same as DATABASE_*, used when ENVIRONMENT is TESTING
  - ENVIRONMENT: the environment the application is running in; default: DEVELOPMENT; cf. [wayfarer.Environment]
  - GOOGLE_CLIENT_ID: the OAuth2 client ID enabling Google sign in alongside GOOGLE_CLIENT_SECRET
  - GOOGLE_CLIENT_SECRET: the OAuth2 client secret enabling Google sign in alongside GOOGLE_CLIENT_ID
  - HOST: the host the application is running on; default: localhost
  - JWT_KEY: the key signing magic login links; without it, neither magic links nor Google sign in are available
  - LOG_FILE: a file logs are also written to, rotated once it grows past 100MB
  - LOG_JSON: whether to log JSON in development; outside of development, logs are always JSON
  - LOG_LEVEL: the level at which to begin logging; default: INFO
  - PORT: the port the application should listen on; default: :3000
  - REDIS_URL: a redis:// URL for storing sessions and idempotent responses; default: cookies and memory
  - SENTRY_DSN: the Sentry project warnings and errors are sent to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies; cf. [encoding/hex]
*/
package ranger
