// Package storyblok implements the content source over the Storyblok
// content delivery API.
//
// Requests carry the access token as a query parameter and are throttled by
// a token bucket that also honours the API's rate limit headers.
package storyblok
