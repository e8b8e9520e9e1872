package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// UploadsPrefix is the URL path under which stored profile pictures are served.
const UploadsPrefix = "/uploads/"
