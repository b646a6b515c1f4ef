// Package binder decodes request bodies into structs.
//
// JSON binds application/json through encoding/json tags. Form binds
// url-encoded and multipart values through `form` tags. Body picks one of
// them from the Content-Type header:
//
//	type loginRequest struct {
//		Username  string `json:"username" form:"username"`
//		Password  string `json:"password" form:"password"`
//		CSRFToken string `json:"csrfToken" form:"csrf_token,csrfToken"`
//	}
//
//	var req loginRequest
//	if err := binder.Body()(r, &req); err != nil {
//		return response.Error(err)
//	}
//
// Bound values are never trimmed or sanitized.
package binder
