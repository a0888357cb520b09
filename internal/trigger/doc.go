// Package trigger asks the container registry's automated build service to rebuild images
// through its webhook endpoint.
package trigger
