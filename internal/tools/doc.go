// Package tools defines the operation catalog: one declarative descriptor
// per exposed operation, built from small get/list handler factories over
// the remote client. Argument names, defaults, and page sizes follow the
// remote API's conventions so filter expressions pass through untouched.
package tools
