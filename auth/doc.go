/*
Package auth authenticates wayfarer's users.

# Passwords

HashPassword and CheckPassword keep passwords as bcrypt hashes.

# Magic links

A Service issues HS256 JWTs naming a User's email as their subject.
Following a link carrying such a token signs the User in without a password
until the token expires.

# Google

When configured with a Google OAuth2 client, a Service sends users to Google
to sign in and fetches their profile when Google redirects them back.
*/
package auth
